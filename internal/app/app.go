package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/autoenv/internal/config"
	"github.com/MKhiriev/autoenv/internal/envconfig"
	"github.com/MKhiriev/autoenv/internal/logger"
	"github.com/MKhiriev/autoenv/internal/persistence"
	"github.com/MKhiriev/autoenv/internal/registry"
	"github.com/MKhiriev/autoenv/internal/store"
	"github.com/MKhiriev/autoenv/models"
)

var _ Runner = (*App)(nil)

// App runs a single autoenv command.
type App struct {
	cfg       *config.StructuredConfig
	store     *store.EnvStore
	registry  *registry.Registry
	metrics   *persistence.Metrics
	gatherer  prometheus.Gatherer
	buildInfo models.AppBuildInfo
	log       *logger.Logger
	out       io.Writer
}

// NewApp wires the env store and the registry described by cfg. Command
// output goes to out.
func NewApp(cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, log *logger.Logger, out io.Writer) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("create app: nil config")
	}

	rootPath := cfg.Envs.RootPath
	if rootPath == "" {
		rootPath = registry.DefaultRootPath()
	}

	envStore := store.NewEnvStore(cfg.EnvsDir(rootPath), store.WithSchemaFile(cfg.Envs.SchemaFile))
	promRegistry := prometheus.NewRegistry()
	metrics := persistence.NewMetrics(promRegistry)

	opts := []registry.Option{
		registry.WithRootPath(rootPath),
		registry.WithLogger(log),
		registry.WithInstanceOptions(
			envconfig.WithPersistFileKey(cfg.Persistence.FileKey),
			envconfig.WithWriterOptions(
				persistence.WithIndent(cfg.Persistence.Indent),
				persistence.WithMetrics(metrics),
			),
		),
	}
	if cfg.Persistence.Enabled {
		opts = append(opts, registry.WithPersistence(cfg.Persistence.MinInterval))
	}

	log.Debug().
		Str("envs_dir", envStore.Dir()).
		Str("root_path", rootPath).
		Bool("persist", cfg.Persistence.Enabled).
		Msg("app initialized")

	return &App{
		cfg:       cfg,
		store:     envStore,
		registry:  registry.New(envStore, opts...),
		metrics:   metrics,
		gatherer:  promRegistry,
		buildInfo: buildInfo,
		log:       log,
		out:       out,
	}, nil
}

// Run executes the command named by the first positional argument. Every
// loaded instance is flushed and closed before Run returns, then the
// persistence counters of the run are logged.
func (a *App) Run(ctx context.Context) (err error) {
	if a.cfg.ShowVersion {
		a.printBuildInfo()
		return nil
	}

	if len(a.cfg.Args) == 0 {
		return ErrNoCommand
	}

	defer func() {
		if closeErr := a.registry.Close(ctx); closeErr != nil && err == nil {
			err = fmt.Errorf("close env configs: %w", closeErr)
		}
		a.logPersistStats()
	}()

	name, args := a.cfg.Args[0], a.cfg.Args[1:]
	a.log.Debug().Str("command", name).Strs("args", args).Msg("running command")

	switch name {
	case "ids":
		return a.runIDs()
	case "validate":
		return a.runValidate(ctx, args)
	case "get":
		return a.runGet(args)
	case "has":
		return a.runHas(args)
	case "set":
		return a.runSet(args)
	case "persist":
		return a.runPersist(ctx, args)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func (a *App) printBuildInfo() {
	fmt.Fprint(a.out, a.buildInfo.String())
}

// instance returns the env selected by -env, or the discovered default.
func (a *App) instance() (*envconfig.Instance, error) {
	if a.cfg.EnvID != "" {
		return a.registry.Load(a.cfg.EnvID, false)
	}
	return a.registry.Default()
}
