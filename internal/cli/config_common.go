package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vvka-141/ldmcsv/internal/backend"
	"github.com/vvka-141/ldmcsv/internal/config"
	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/internal/processor"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// loadProjectConfig loads .env and the project configuration, then applies
// environment overrides. A missing ldmcsv.yaml yields the defaults.
func loadProjectConfig(path string, logger ldmcsv.Logger) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
		}
		logger.Verbose("no %s at %s, using defaults", config.ConfigFileName, path)
		cfg = config.Default()
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// session is what every command works with: the resolved configuration, a
// logger and the dispatcher chain.
type session struct {
	cfg       *config.ProjectConfig
	logger    ldmcsv.Logger
	connector *processor.CsvConnector
}

func newSession() (*session, error) {
	logger := logging.NewConsoleLogger(rootFlags.verbose)

	cfg, err := loadProjectConfig(rootFlags.projectConfig, logger)
	if err != nil {
		return nil, err
	}
	delimiter, err := cfg.Delimiter()
	if err != nil {
		return nil, err
	}

	connector := &processor.CsvConnector{
		Logger:         logger,
		Next:           &processor.BaseHandler{Logger: logger},
		Delimiter:      delimiter,
		TempDir:        cfg.Backend.TempDir,
		ScaffoldFolder: cfg.Generation.Folder,
		LabelReference: cfg.Generation.LabelReference,
		Sinks:          lazyFactory(cfg.Backend, delimiter, logger),
	}
	return &session{cfg: cfg, logger: logger, connector: connector}, nil
}

// lazyFactory defers backend setup to the first extraction so that commands
// which never extract do not need a valid backend section.
func lazyFactory(cfg config.BackendConfig, delimiter rune, logger ldmcsv.Logger) backend.Factory {
	var factory backend.Factory
	return func(t backend.Target) (ldmcsv.Sink, error) {
		if factory == nil {
			f, err := backend.NewFactory(cfg, delimiter, logger)
			if err != nil {
				return nil, err
			}
			factory = f
		}
		return factory(t)
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// run dispatches commands against a fresh context for the configured project.
func (s *session) run(ctx context.Context, commands []processor.Command) error {
	pctx := processor.NewContext(s.cfg.ProjectID)
	return processor.RunScript(ctx, s.connector, commands, pctx, s.logger)
}
