package builder_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/registry"
)

// countingRenderer is a fake render collaborator. It counts invocations
// and can be told to fail for specific partials.
type countingRenderer struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (r *countingRenderer) Render(ctx context.Context, descriptor domain.RenderDescriptor) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	partial, _ := descriptor["partial"].(string)
	if r.fail[partial] {
		return nil, fmt.Errorf("missing template %q", partial)
	}
	return []byte("<div>" + partial + "</div>"), nil
}

func (r *countingRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func define(t *testing.T, scope *registry.Scope, raw string, kind domain.ResponseKind, partial, fingerprint string) *registry.Entry {
	t.Helper()
	entry, err := scope.Define(raw, kind, domain.RenderDescriptor{"partial": partial}, fingerprint, "staffs.snap.yaml")
	require.NoError(t, err)
	return entry
}

func TestBuilder_InitialBuild(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir, builder.WithWorkerCount(2))

	reg := registry.New()
	scope := reg.RegisterScope("/admin/staffs", nil)
	table := define(t, scope, "/table", domain.Document, "staffs/table", "fp-1")
	toggle := define(t, scope, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp-1")

	report, err := b.Build(context.Background(), reg)
	require.NoError(t, err)
	assert.Len(t, report.Built, 2)
	assert.Empty(t, report.Fresh)
	assert.Equal(t, 2, renderer.callCount())

	data, err := store.Read(context.Background(), table.Key)
	require.NoError(t, err)
	assert.Equal(t, "<div>staffs/table</div>", string(data))

	// Manifest and store hold the same key set, in declaration order.
	manifest, err := builder.LoadManifest(dir)
	require.NoError(t, err)
	require.Len(t, manifest.Entries, 2)
	assert.Equal(t, table.Key, manifest.Entries[0].Key)
	assert.Equal(t, toggle.Key, manifest.Entries[1].Key)
}

func TestBuilder_SecondBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir)

	buildRegistry := func() *registry.Registry {
		reg := registry.New()
		scope := reg.RegisterScope("/admin/staffs", nil)
		define(t, scope, "/table", domain.Document, "staffs/table", "fp-1")
		define(t, scope, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp-1")
		return reg
	}

	_, err := b.Build(context.Background(), buildRegistry())
	require.NoError(t, err)
	require.Equal(t, 2, renderer.callCount())

	manifestBefore, err := os.ReadFile(filepath.Join(dir, builder.ManifestName))
	require.NoError(t, err)

	report, err := b.Build(context.Background(), buildRegistry())
	require.NoError(t, err)

	// Zero render calls on the second pass, store and manifest
	// byte-identical.
	assert.Equal(t, 2, renderer.callCount())
	assert.Empty(t, report.Built)
	assert.Len(t, report.Fresh, 2)

	manifestAfter, err := os.ReadFile(filepath.Join(dir, builder.ManifestName))
	require.NoError(t, err)
	assert.Equal(t, manifestBefore, manifestAfter)
}

func TestBuilder_RebuildsOnlyChangedEntry(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir)
	ctx := context.Background()

	reg1 := registry.New()
	scope1 := reg1.RegisterScope("/admin/staffs", nil)
	table1 := define(t, scope1, "/table", domain.Document, "staffs/table", "fp-old")
	define(t, scope1, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp-same")

	_, err := b.Build(ctx, reg1)
	require.NoError(t, err)

	untouchedBefore, err := store.Read(ctx, domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate))
	require.NoError(t, err)

	// Same entries, but the table's fingerprint changed.
	reg2 := registry.New()
	scope2 := reg2.RegisterScope("/admin/staffs", nil)
	define(t, scope2, "/table", domain.Document, "staffs/table", "fp-new")
	define(t, scope2, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp-same")

	report, err := b.Build(ctx, reg2)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArtifactKey{table1.Key}, report.Built)
	assert.Len(t, report.Fresh, 1)

	untouchedAfter, err := store.Read(ctx, domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate))
	require.NoError(t, err)
	assert.Equal(t, untouchedBefore, untouchedAfter)

	manifest, err := builder.LoadManifest(dir)
	require.NoError(t, err)
	fp, ok := manifest.FingerprintFor(domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate))
	require.True(t, ok)
	assert.Equal(t, "fp-same", fp)
}

func TestBuilder_ReconcilesOrphans(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir)
	ctx := context.Background()

	reg1 := registry.New()
	scope1 := reg1.RegisterScope("/admin/staffs", nil)
	define(t, scope1, "/table", domain.Document, "staffs/table", "fp")
	removed := define(t, scope1, "/export", domain.Document, "staffs/export", "fp")

	_, err := b.Build(ctx, reg1)
	require.NoError(t, err)

	// The export entry disappears from the generator pass.
	reg2 := registry.New()
	scope2 := reg2.RegisterScope("/admin/staffs", nil)
	define(t, scope2, "/table", domain.Document, "staffs/table", "fp")

	report, err := b.Build(ctx, reg2)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArtifactKey{removed.Key}, report.Removed)

	_, err = store.Read(ctx, removed.Key)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	manifest, err := builder.LoadManifest(dir)
	require.NoError(t, err)
	_, ok := manifest.FingerprintFor(removed.Key)
	assert.False(t, ok, "orphan must leave the manifest too")
}

func TestBuilder_RebuildsExternallyDeletedArtifact(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir)
	ctx := context.Background()

	reg := registry.New()
	scope := reg.RegisterScope("/admin/staffs", nil)
	table := define(t, scope, "/table", domain.Document, "staffs/table", "fp-same")
	toggle := define(t, scope, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp-same")

	_, err := b.Build(ctx, reg)
	require.NoError(t, err)
	callsAfterFirst := renderer.callCount()

	// Someone deletes the artifact behind the manifest's back. A
	// matching fingerprint must not vouch for bytes that are gone.
	require.NoError(t, store.Delete(ctx, table.Key))

	report, err := b.Build(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArtifactKey{table.Key}, report.Built)
	assert.Equal(t, []domain.ArtifactKey{toggle.Key}, report.Fresh)
	assert.Equal(t, callsAfterFirst+1, renderer.callCount())

	// Store and manifest agree again: the key has bytes behind it.
	data, err := store.Read(ctx, table.Key)
	require.NoError(t, err)
	assert.Contains(t, string(data), "staffs/table")

	manifest, err := builder.LoadManifest(dir)
	require.NoError(t, err)
	_, ok := manifest.FingerprintFor(table.Key)
	assert.True(t, ok)
}

func TestBuilder_DeletesExternallyPlantedArtifacts(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir)
	ctx := context.Background()

	// Bytes in the store that no manifest entry accounts for must not
	// survive a pass and silently satisfy lookups.
	stray := domain.NewArtifactKey("/stale/page", domain.Document)
	require.NoError(t, store.Write(ctx, stray, []byte("<old/>")))

	reg := registry.New()
	define(t, reg.Root(), "/admin/staffs/table", domain.Document, "staffs/table", "fp")

	report, err := b.Build(ctx, reg)
	require.NoError(t, err)
	assert.Contains(t, report.Removed, stray)

	_, err = store.Read(ctx, stray)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestBuilder_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{fail: map[string]bool{"staffs/toggle": true}}
	b := builder.New(store, renderer, dir)
	ctx := context.Background()

	reg := registry.New()
	scope := reg.RegisterScope("/admin/staffs", nil)
	table := define(t, scope, "/table", domain.Document, "staffs/table", "fp")
	toggle := define(t, scope, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp")

	report, err := b.Build(ctx, reg)

	// Aggregate failure with per-entry detail, but the independent
	// entry still built.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staffs/toggle")
	assert.True(t, report.Failed())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, toggle.Key, report.Failures[0].Key)

	data, readErr := store.Read(ctx, table.Key)
	require.NoError(t, readErr)
	assert.Equal(t, "<div>staffs/table</div>", string(data))

	// The failed entry has no artifact and no manifest record, so the
	// next pass retries it.
	_, readErr = store.Read(ctx, toggle.Key)
	assert.ErrorIs(t, readErr, domain.ErrArtifactNotFound)

	manifest, err2 := builder.LoadManifest(dir)
	require.NoError(t, err2)
	_, ok := manifest.FingerprintFor(toggle.Key)
	assert.False(t, ok)

	// Fixing the renderer makes the failed entry build on retry while
	// the healthy one stays fresh.
	renderer.fail = nil
	callsBefore := renderer.callCount()

	reg2 := registry.New()
	scope2 := reg2.RegisterScope("/admin/staffs", nil)
	define(t, scope2, "/table", domain.Document, "staffs/table", "fp")
	define(t, scope2, "/[id]/toggle", domain.StreamUpdate, "staffs/toggle", "fp")

	report2, err := b.Build(ctx, reg2)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArtifactKey{toggle.Key}, report2.Built)
	assert.Equal(t, callsBefore+1, renderer.callCount())
}

func TestBuilder_ParallelWorkers(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}
	b := builder.New(store, renderer, dir, builder.WithWorkerCount(8))
	ctx := context.Background()

	reg := registry.New()
	scope := reg.RegisterScope("/admin", nil)
	for i := 0; i < 50; i++ {
		define(t, scope, fmt.Sprintf("/page-%02d", i), domain.Document, fmt.Sprintf("page/%02d", i), "fp")
	}

	report, err := b.Build(ctx, reg)
	require.NoError(t, err)
	assert.Len(t, report.Built, 50)
	assert.Equal(t, 50, renderer.callCount())

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 50)
}

func TestBuilder_RecordsMetrics(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	renderer := &countingRenderer{}

	promReg := prometheus.NewRegistry()
	metrics := builder.NewMetrics(promReg)
	b := builder.New(store, renderer, dir, builder.WithMetrics(metrics))
	ctx := context.Background()

	reg := registry.New()
	scope := reg.RegisterScope("/admin/staffs", nil)
	define(t, scope, "/table", domain.Document, "staffs/table", "fp-1")

	_, err := b.Build(ctx, reg)
	require.NoError(t, err)
	_, err = b.Build(ctx, reg)
	require.NoError(t, err)

	families, err := promReg.Gather()
	require.NoError(t, err)

	counters := make(map[string]float64)
	for _, family := range families {
		if counter := family.GetMetric()[0].GetCounter(); counter != nil {
			counters[family.GetName()] = counter.GetValue()
		}
	}
	assert.Equal(t, 1.0, counters["viewsnap_artifacts_built_total"])
	assert.Equal(t, 1.0, counters["viewsnap_artifacts_fresh_total"])
	assert.Equal(t, 0.0, counters["viewsnap_artifacts_failed_total"])
}
