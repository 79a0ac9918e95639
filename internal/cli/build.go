package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/internal/adapters/redis"
	"github.com/viewsnap/viewsnap/internal/generator"
	"github.com/viewsnap/viewsnap/internal/logging"
	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/ports"
	"github.com/viewsnap/viewsnap/pkg/registry"
)

// BuildOptions carries everything the build command needs.
type BuildOptions struct {
	Config Config
	Logger *slog.Logger
	Out    io.Writer
}

// RunBuild loads declarations, runs one incremental build pass and
// prints the report. Entry-level failures are reported and returned
// after the pass completes; they do not abort it.
func RunBuild(ctx context.Context, opts BuildOptions) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	cfg := opts.Config
	if len(cfg.RenderCommand) == 0 {
		return fmt.Errorf("no render command configured, set render_command in the config file")
	}

	store, closeStore, err := NewStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := registry.New()
	loader := generator.NewLoader(cfg.FactoryPath, generator.WithLogger(opts.Logger))
	result, err := loader.Load(reg)
	if err != nil {
		return err
	}

	printer := NewReportPrinter(opts.Out)
	printer.PrintProblems(result.Problems)

	renderer := adapters.NewExecRenderer(cfg.RenderCommand[0], cfg.RenderCommand[1:])
	b := builder.New(store, renderer, cfg.SnapshotPath,
		builder.WithWorkerCount(cfg.Workers),
		builder.WithLogger(opts.Logger),
	)

	report, buildErr := b.Build(ctx, reg)
	if report != nil {
		printer.PrintReport(report)
	}
	return buildErr
}

// NewStore picks the artifact store backend from the config.
func NewStore(cfg Config) (ports.SnapshotStore, func() error, error) {
	if cfg.RedisURL != "" {
		store, err := redis.NewFromURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return adapters.NewFileStore(cfg.SnapshotPath), func() error { return nil }, nil
}
