package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/session"
)

type flags struct {
	configPath string
	dbPath     string
	driver     string
	schemaPath string
	seed       bool
	exportDir  string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "coursedesk",
		Short: "Interactive query console for the student database",
		Long: `coursedesk opens the student database, applies the schema script and
reads simple commands (vs, la, lr, lc, lnc, lf) from the console.
Any listed result can be stored as a JSON or XML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, f)
		},
	}

	rootCmd.Flags().StringVarP(&f.configPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")
	rootCmd.Flags().StringVar(&f.dbPath, "db", "", "database file (sqlite3, duckdb)")
	rootCmd.Flags().StringVar(&f.driver, "driver", "", "database driver: sqlite3, postgres or duckdb")
	rootCmd.Flags().StringVar(&f.schemaPath, "schema", "", "schema script applied at startup")
	rootCmd.Flags().BoolVar(&f.seed, "seed", false, "insert demo data into an empty database")
	rootCmd.Flags().StringVar(&f.exportDir, "export-dir", "", "directory relative export filenames are written to")

	rootCmd.AddCommand(newSchemaCommand())
	return rootCmd
}

func runConsole(cmd *cobra.Command, f *flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	override := func(cfg *config.Config) {
		set := cmd.Flags().Changed
		if set("db") {
			cfg.Database.Path = f.dbPath
		}
		if set("driver") {
			cfg.Database.Driver = f.driver
		}
		if set("schema") {
			cfg.Database.SchemaPath = f.schemaPath
		}
		if set("seed") {
			cfg.Database.Seed = f.seed
		}
		if set("export-dir") {
			cfg.Export.Dir = f.exportDir
		}
	}

	var location, schemaPath string
	s, err := session.New(ctx, session.Options{
		ConfigPath: f.configPath,
		Override: func(cfg *config.Config) {
			override(cfg)
			location = cfg.DatabaseLocation()
			schemaPath = cfg.Database.SchemaPath
		},
		In:  os.Stdin,
		Out: os.Stdout,
	})
	if err != nil {
		reportStartupError(os.Stdout, os.Stderr, err, location, schemaPath)
		return err
	}
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Session failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// reportStartupError prints user guidance for a failed startup. A database
// file that cannot be opened gets the "store your database" hint; other
// connection failures are printed as errors.
func reportStartupError(stdout, stderr io.Writer, err error, location, schemaPath string) {
	switch {
	case dberrors.IsCannotOpen(err):
		fmt.Fprintf(stdout, "Please store your database as %s\n", location)
	case errors.Is(err, apperrors.ErrDatabaseUnavailable):
		fmt.Fprintf(stderr, "Error: could not connect to %s: %v\n", location, err)
	case errors.Is(err, apperrors.ErrSchemaScriptMissing):
		fmt.Fprintf(stdout, "Please store your schema script as %s\n", schemaPath)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

func newSchemaCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the bundled schema script to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.WriteFile(out, []byte(migrations.DefaultSchema), 0o644); err != nil {
				return fmt.Errorf("failed to write schema script: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "create_database.sql", "destination file")
	return cmd
}
