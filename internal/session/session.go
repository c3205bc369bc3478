// Package session runs the interactive query loop. A Session owns the
// configuration, the database handle and the command dispatcher for the
// lifetime of the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/handlers"
	"github.com/yigit/coursedesk/internal/bootstrap"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

// Welcome is printed once when the loop starts
const Welcome = "Welcome to the data querying app!"

// Options configure New
type Options struct {
	ConfigPath string
	// Override is applied to the loaded config before validation, e.g. for CLI flags
	Override func(*config.Config)
	In       io.Reader
	Out      io.Writer
}

// Session holds the state of one interactive run.
type Session struct {
	id       string
	config   *config.Config
	database *db.Database
	deps     *bootstrap.Dependencies
	out      io.Writer
	logger   zerolog.Logger
}

// New creates and initializes a session by calling bootstrap functions.
func New(ctx context.Context, opts Options) (*Session, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.ConfigPath, opts.Override)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, opts.In, opts.Out, lgr)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return newSession(cfg, database, deps, opts.Out, lgr), nil
}

func newSession(cfg *config.Config, database *db.Database, deps *bootstrap.Dependencies, out io.Writer, lgr zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		config:   cfg,
		database: database,
		deps:     deps,
		out:      out,
		logger:   lgr.With().Str("session", id).Logger(),
	}
}

// Run prints the menu and dispatches commands until the user exits, input
// ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info().Str("database", s.database.Location).Msg("Session started")
	fmt.Fprintln(s.out, Welcome)

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info().Err(err).Msg("Session cancelled")
			return nil
		}

		fmt.Fprintln(s.out)
		fmt.Fprint(s.out, handlers.Menu)
		line, err := s.deps.Reader.ReadLine(handlers.InputPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info().Msg("End of input")
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}
		fmt.Fprintln(s.out)

		err = s.deps.Dispatcher.Dispatch(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrExitRequested):
			s.logger.Info().Msg("Exit requested")
			return nil
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			s.logger.Info().Err(err).Msg("Session ended during a command")
			return nil
		default:
			return err
		}
	}
}

// Close releases the console and the database handle.
func (s *Session) Close() error {
	var errs []error
	if s.deps != nil && s.deps.Reader != nil {
		if err := s.deps.Reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close console: %w", err))
		}
	}
	if s.database != nil {
		s.logger.Info().Msg("Closing database connection...")
		if err := s.database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
