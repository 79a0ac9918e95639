package adapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
	"github.com/viewsnap/viewsnap/pkg/ports/tests"
)

// Ensure MemoryStore implements SnapshotStore
var _ ports.SnapshotStore = (*adapters.MemoryStore)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	tests.SnapshotStoreContractTest(t, adapters.NewMemoryStore())
}

func TestMemoryStore_IsolatesStoredBytes(t *testing.T) {
	ctx := context.Background()
	store := adapters.NewMemoryStore()
	key := domain.NewArtifactKey("/page", domain.Document)

	input := []byte("<p>original</p>")
	require.NoError(t, store.Write(ctx, key, input))
	input[1] = 'q'

	got, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<p>original</p>", string(got))

	// Mutating the read result must not leak back into the store.
	got[1] = 'q'
	again, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "<p>original</p>", string(again))
}
