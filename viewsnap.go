package viewsnap

import (
	"log/slog"

	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/matcher"
	"github.com/viewsnap/viewsnap/pkg/ports"
	"github.com/viewsnap/viewsnap/pkg/runtime"
)

// Version is the current viewsnap release.
var Version = "0.1.0"

type config struct {
	logger *slog.Logger
	store  ports.SnapshotStore
}

// Option defines a functional option for configuring Open.
type Option func(*config)

// WithLogger sets a structured logger for runtime lookups.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStore injects a custom snapshot store, bypassing the default
// filesystem store rooted at the snapshot directory.
func WithStore(store ports.SnapshotStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// Open is the high-level entry point for test suites. It reads the
// manifest the last build wrote under snapshotRoot and returns a Bridge
// that resolves paths against it.
//
// A missing manifest is not an error; the returned Bridge simply
// matches nothing until a build has run.
func Open(snapshotRoot string, opts ...Option) (*runtime.Bridge, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	manifest, err := builder.LoadManifest(snapshotRoot)
	if err != nil {
		return nil, err
	}
	m, err := matcher.FromManifest(manifest)
	if err != nil {
		return nil, err
	}

	if cfg.store == nil {
		cfg.store = adapters.NewFileStore(snapshotRoot)
	}

	var bridgeOpts []runtime.Option
	if cfg.logger != nil {
		bridgeOpts = append(bridgeOpts, runtime.WithLogger(cfg.logger))
	}
	return runtime.NewBridge(m, cfg.store, bridgeOpts...), nil
}
