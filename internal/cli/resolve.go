package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/matcher"
)

// ResolveOptions carries everything the resolve command needs.
type ResolveOptions struct {
	Config Config
	Path   string
	Kind   string
	Out    io.Writer
}

// RunResolve maps a concrete path to its built snapshot and writes the
// artifact bytes to Out. It reads the manifest the last build wrote, so
// it answers exactly as the test runtime would.
func RunResolve(ctx context.Context, opts ResolveOptions) error {
	kind := domain.Document
	if opts.Kind != "" {
		parsed, err := domain.ParseResponseKind(opts.Kind)
		if err != nil {
			return err
		}
		kind = parsed
	}

	manifest, err := builder.LoadManifest(opts.Config.SnapshotPath)
	if err != nil {
		return err
	}
	m, err := matcher.FromManifest(manifest)
	if err != nil {
		return err
	}

	key, err := m.Resolve(opts.Path, kind)
	if err != nil {
		return err
	}

	store, closeStore, err := NewStore(opts.Config)
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := store.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("resolved %s to %s: %w", opts.Path, key, err)
	}

	_, err = opts.Out.Write(data)
	return err
}
