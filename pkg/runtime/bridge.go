// Package runtime is the test-time facade of the snapshot engine. A
// Bridge resolves logical paths to stored snapshot bytes, optionally
// intercepts an HTTP client so outgoing requests are answered from
// snapshots instead of the network, and mounts markup into a DOM-like
// environment with guaranteed teardown.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/viewsnap/viewsnap/internal/logging"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
)

// Resolver maps a concrete path and response kind to an artifact key.
// *matcher.Matcher satisfies it.
type Resolver interface {
	Resolve(path string, kind domain.ResponseKind) (domain.ArtifactKey, error)
}

// Bridge composes a Resolver and a SnapshotStore into the runtime API
// surface used by tests.
type Bridge struct {
	resolver Resolver
	store    ports.SnapshotStore
	logger   *slog.Logger

	// mu guards the interception table. Interceptor state is explicit
	// per-client init/teardown, not ambient global state.
	mu          sync.Mutex
	intercepted map[*http.Client]http.RoundTripper
}

// Option configures the Bridge.
type Option func(*Bridge)

// WithLogger configures a logger for runtime lookups.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// NewBridge creates a Bridge over the given resolver and store.
func NewBridge(resolver Resolver, store ports.SnapshotStore, opts ...Option) *Bridge {
	b := &Bridge{
		resolver:    resolver,
		store:       store,
		logger:      logging.NewNop(),
		intercepted: make(map[*http.Client]http.RoundTripper),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadForPath resolves a concrete path to its stored snapshot bytes.
// This is the primary test-setup entry point. ErrNoMatch means the path
// was never registered; ErrArtifactNotFound means the snapshot build was
// not run (or is stale after an orphan reconciliation).
func (b *Bridge) LoadForPath(ctx context.Context, path string, kind domain.ResponseKind) ([]byte, error) {
	key, err := b.resolver.Resolve(path, kind)
	if err != nil {
		return nil, err
	}

	data, err := b.store.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolved %s to %s: %w", path, key, err)
	}

	b.logger.Debug("snapshot loaded", "path", path, "kind", kind, "key", key, "bytes", len(data))
	return data, nil
}
