package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/console"
	"github.com/yigit/coursedesk/internal/app/handlers"
	appMigrations "github.com/yigit/coursedesk/internal/app/migrations"
	appRepos "github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/export"
	"github.com/yigit/coursedesk/internal/pkg/filestorage"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Storage     *filestorage.Router
	Exporter    *export.Exporter
	Reader      console.LineReader
	StorePrompt *console.StorePrompt
	Dispatcher  *handlers.Dispatcher
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration, applies overrides (usually
// command line flags) and initializes the logger.
func LoadConfigAndSetupLogger(configPath string, override func(*config.Config)) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			logger.Error().Err(err).Msg("Invalid command line settings")
			return nil, zerolog.Logger{}, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the database, applies the schema script and optionally
// seeds demo data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Str("path", cfg.Database.SchemaPath).Msg("Applying schema script...")
	migrator := appMigrations.NewMigrator(database)
	if err := migrator.ApplyFile(ctx, cfg.Database.SchemaPath); err != nil {
		lgr.Error().Err(err).Msg("Schema application failed")
		_ = database.Close()
		return nil, fmt.Errorf("schema application failed: %w", err)
	}
	lgr.Info().Msg("Schema applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies wires storage, exporter, console and command handlers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.Database, in io.Reader, out io.Writer, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	local, err := filestorage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.Storage = &filestorage.Router{Local: local}

	if cfg.Export.S3.Enabled {
		client, err := filestorage.NewS3Client(ctx, filestorage.S3Config{
			Region:    cfg.Export.S3.Region,
			Endpoint:  cfg.Export.S3.Endpoint,
			AccessKey: cfg.Export.S3.AccessKey,
			SecretKey: cfg.Export.S3.SecretKey,
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize S3 client")
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		deps.Storage.Remote = filestorage.NewS3Storage(client)
		lgr.Info().Str("region", cfg.Export.S3.Region).Msg("S3 export enabled")
	}

	deps.Exporter = export.NewExporter(deps.Storage, cfg.Export.Indent)

	deps.Reader, err = console.NewLineReader(in, out, console.ReaderConfig{
		HistoryFile: cfg.Console.HistoryFile,
		ForcePlain:  cfg.Console.ForcePlain,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize console input")
		return nil, err
	}

	deps.StorePrompt = console.NewStorePrompt(deps.Reader, out, deps.Exporter, cfg.Console.MaxStoreAttempts)

	queries := handlers.NewQueryHandlers(deps.Repos, deps.StorePrompt, out, handlers.Options{
		QueryTimeout:    helpers.ParseDuration(cfg.Database.QueryTimeout, 0),
		FailMarkCeiling: int64(cfg.Queries.FailMarkCeiling),
	})
	deps.Dispatcher = handlers.NewDispatcher(out)
	deps.Dispatcher.Register(queries.Commands()...)

	return deps, nil
}
