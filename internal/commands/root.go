// Package commands implements the ledger command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SscSPs/ledger_ingest/internal/adapters/codetable"
	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/core/services"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/SscSPs/ledger_ingest/internal/platform/config"
	"github.com/SscSPs/ledger_ingest/internal/platform/metrics"
	"github.com/SscSPs/ledger_ingest/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_ingest/internal/repositories/filesystem"
	"github.com/SscSPs/ledger_ingest/internal/repositories/memory"
	"github.com/SscSPs/ledger_ingest/pkg/database"
)

// Runtime is everything a command needs once configuration is loaded.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Services *portssvc.ServiceContainer
	Uploads  portsrepo.UploadStore
	Metrics  *metrics.Metrics

	close func()
}

// Close releases the runtime's connections.
func (rt *Runtime) Close() {
	if rt != nil && rt.close != nil {
		rt.close()
	}
}

// Bootstrapper wires a Runtime from configuration.
type Bootstrapper func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error)

// Option customizes the root command.
type Option func(*app)

// WithBootstrapper replaces the PostgreSQL wiring, e.g. with MemoryBootstrapper in tests.
func WithBootstrapper(b Bootstrapper) Option {
	return func(a *app) { a.bootstrap = b }
}

// WithViper supplies the configuration source.
func WithViper(v *viper.Viper) Option {
	return func(a *app) { a.v = v }
}

type app struct {
	v         *viper.Viper
	bootstrap Bootstrapper

	cfg    *config.Config
	logger *slog.Logger
}

// ExitError carries the process exit status of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error onto the process exit status:
// 1 for unbalanced sets and unexpected failures, 2 for invalid input.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var unbalanced *domain.UnbalancedSetsError
	if errors.As(err, &unbalanced) {
		return 1
	}
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrDuplicate) {
		return 2
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		return 2
	}
	return 1
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{bootstrap: PostgresBootstrapper}
	for _, opt := range options {
		opt(a)
	}
	if a.v == nil {
		a.v = viper.New()
	}

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Stage, confirm and close a double-entry ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL connection URL (PGSQL_URL)")
	flags.String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR (LOG_LEVEL)")
	flags.String("log-format", "", "log format: text or json (LOG_FORMAT)")
	_ = a.v.BindPFlag("PGSQL_URL", flags.Lookup("database-url"))
	_ = a.v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("LOG_FORMAT", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newStageCommand(a),
		newValidateCommand(a),
		newConfirmCommand(a),
		newCloseCommand(a),
		newPeriodCommand(a),
		newTrialBalanceCommand(a),
		newStatusCommand(a),
		newEntriesCommand(a),
		newFilesCommand(a),
		newStagingCommand(a),
		newMigrateCommand(a),
		newServeCommand(a),
		newTokenCommand(a),
	)

	return rootCmd
}

// config loads configuration once per invocation. Logs go to stderr so stdout stays parseable.
func (a *app) config(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	if a.cfg != nil {
		return a.cfg, a.logger, nil
	}
	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return nil, nil, &ExitError{Code: 2, Err: fmt.Errorf("loading config: %w", err)}
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return a.cfg, a.logger, nil
}

// open wires the runtime and returns a context carrying the command logger.
func (a *app) open(cmd *cobra.Command) (*Runtime, context.Context, error) {
	cfg, logger, err := a.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	rt, err := a.bootstrap(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return rt, middleware.WithLogger(cmd.Context(), logger), nil
}

// loadCodeTable reads CODE_TABLE_PATH or falls back to the embedded table.
func loadCodeTable(cfg *config.Config) (*codetable.Table, error) {
	if cfg.CodeTablePath == "" {
		return codetable.Default(), nil
	}
	return codetable.Load(cfg.CodeTablePath)
}

// PostgresBootstrapper wires the services against PostgreSQL and the upload directories.
func PostgresBootstrapper(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg.DatabaseURL == "" {
		return nil, &ExitError{Code: 2, Err: errors.New("database URL required: set PGSQL_URL or --database-url")}
	}
	codes, err := loadCodeTable(cfg)
	if err != nil {
		return nil, err
	}
	uploads, err := filesystem.NewUploadStore(cfg.UploadsDir, cfg.ConfirmedDir)
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repos := pgsql.NewRepositoryProvider(pool, uploads)
	container, err := services.NewServiceContainer(cfg, repos, codes, services.WithMetrics(m))
	if err != nil {
		database.ClosePgxPool(pool, logger)
		return nil, err
	}

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Services: container,
		Uploads:  uploads,
		Metrics:  m,
		close:    func() { database.ClosePgxPool(pool, logger) },
	}, nil
}

// MemoryBootstrapper wires the services against an in-memory store.
// uploads may be nil. The dry-run path and the command tests use it.
func MemoryBootstrapper(store *memory.Store, uploads portsrepo.UploadStore, options ...services.Option) Bootstrapper {
	return func(_ context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
		codes, err := loadCodeTable(cfg)
		if err != nil {
			return nil, err
		}
		repos := portsrepo.RepositoryProvider{
			LedgerRepo:    store,
			ReportingRepo: store,
			UploadStore:   uploads,
		}
		container, err := services.NewServiceContainer(cfg, repos, codes, options...)
		if err != nil {
			return nil, err
		}
		return &Runtime{Config: cfg, Logger: logger, Services: container, Uploads: uploads}, nil
	}
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}

// stdoutIsTerminal reports whether output goes to an interactive terminal.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
