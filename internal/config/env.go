package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// envSetter stores a raw environment value into a field of a given kind
type envSetter func(field reflect.Value, raw string) error

var envSetters = map[reflect.Kind]envSetter{
	reflect.String: func(field reflect.Value, raw string) error {
		field.SetString(raw)
		return nil
	},
	reflect.Int: func(field reflect.Value, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("not an integer: %q", raw)
		}
		field.SetInt(int64(n))
		return nil
	},
	reflect.Bool: func(field reflect.Value, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", raw)
		}
		field.SetBool(b)
		return nil
	},
}

// applyEnv overlays every `env` tagged leaf of cfg with the value found by
// lookup. Nested sections are descended into.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	return overlayStruct(reflect.ValueOf(cfg).Elem(), lookup)
}

func overlayStruct(section reflect.Value, lookup func(string) (string, bool)) error {
	for i := 0; i < section.NumField(); i++ {
		field, meta := section.Field(i), section.Type().Field(i)

		if field.Kind() == reflect.Struct {
			if err := overlayStruct(field, lookup); err != nil {
				return err
			}
			continue
		}

		name, tagged := meta.Tag.Lookup("env")
		if !tagged {
			continue
		}
		raw, set := lookup(name)
		if !set {
			continue
		}

		setter, ok := envSetters[field.Kind()]
		if !ok {
			return fmt.Errorf("%s: unsupported field kind %s", name, field.Kind())
		}
		if err := setter(field, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config, os.LookupEnv)
}
