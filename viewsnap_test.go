package viewsnap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viewsnap/viewsnap"
	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/domain"
)

func TestOpen_ResolvesAgainstLastBuild(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	key := domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate)
	manifest := &builder.Manifest{Entries: []builder.ManifestEntry{
		{Key: key, Pattern: "/admin/staffs/[id]/toggle", Kind: domain.StreamUpdate, Fingerprint: "fp"},
	}}
	require.NoError(t, manifest.Save(root))

	store := adapters.NewFileStore(root)
	require.NoError(t, store.Write(ctx, key, []byte("<turbo-stream></turbo-stream>")))

	bridge, err := viewsnap.Open(root)
	require.NoError(t, err)

	data, err := bridge.LoadForPath(ctx, "/admin/staffs/9/toggle", domain.StreamUpdate)
	require.NoError(t, err)
	assert.Contains(t, string(data), "turbo-stream")
}

func TestOpen_WithoutBuildMatchesNothing(t *testing.T) {
	bridge, err := viewsnap.Open(t.TempDir())
	require.NoError(t, err)

	_, err = bridge.LoadForPath(context.Background(), "/anything", domain.Document)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}
