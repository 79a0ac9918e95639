package ports

import (
	"context"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// SnapshotStore persists artifact bytes keyed by ArtifactKey. It is a
// dumb, reliable byte map: staleness decisions live in the builder, and
// key derivation lives in the domain package.
type SnapshotStore interface {
	// Write stores bytes under the key, overwriting any previous
	// content. Writes must be atomic with respect to concurrent
	// readers, and concurrent writes to distinct keys must be safe.
	Write(ctx context.Context, key domain.ArtifactKey, data []byte) error

	// Read returns the stored bytes for the key.
	// Returns domain.ErrArtifactNotFound if nothing is stored.
	Read(ctx context.Context, key domain.ArtifactKey) ([]byte, error)

	// Delete removes the artifact. Deleting an absent key is not an
	// error (orphan reconciliation may race external cleanup).
	Delete(ctx context.Context, key domain.ArtifactKey) error

	// List returns every stored key, in no particular order.
	List(ctx context.Context) ([]domain.ArtifactKey, error)
}
