package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: WarnLevel, Pretty: true}) })

	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})

	Debug().Msg("hidden")
	Info().Str("driver", "sqlite3").Msg("visible")
	fieldLogger := WithField("command", "vs")
	fieldLogger.Error().Msg("failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug event written at info level")
	}
	if !strings.Contains(out, `"driver":"sqlite3"`) || !strings.Contains(out, `"command":"vs"`) {
		t.Errorf("unexpected log output: %s", out)
	}

	buf.Reset()
	configured := Get()
	configured.Info().Msg("through Get")
	if !strings.Contains(buf.String(), "through Get") {
		t.Errorf("Get does not return the configured logger: %s", buf.String())
	}
}

func TestConfigure_UnknownLevelIsWarn(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: WarnLevel, Pretty: true}) })

	var buf bytes.Buffer
	Configure(Config{Level: "verbose", Output: &buf})

	Info().Msg("dropped")
	Error().Msg("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}
