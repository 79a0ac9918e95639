package adapters_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
	"github.com/viewsnap/viewsnap/pkg/ports/tests"
)

// Ensure FileStore implements SnapshotStore
var _ ports.SnapshotStore = (*adapters.FileStore)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := adapters.NewFileStore(t.TempDir())
	tests.SnapshotStoreContractTest(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	ctx := context.Background()

	key := domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate)
	if err := store.Write(ctx, key, []byte("<turbo-stream/>")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// The artifact lives directly under the root, named by its key.
	if _, err := os.Stat(filepath.Join(dir, string(key))); err != nil {
		t.Errorf("expected artifact file %s under root: %v", key, err)
	}
}

func TestFileStore_ListSkipsManifestAndTemp(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	ctx := context.Background()

	key := domain.NewArtifactKey("/admin/staffs/table", domain.Document)
	if err := store.Write(ctx, key, []byte("<table/>")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, name := range []string{".manifest.yaml", ".artifact-zzz.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to plant %s: %v", name, err)
		}
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("expected only %s, got %v", key, keys)
	}
}

func TestFileStore_NoPartialWriteVisible(t *testing.T) {
	dir := t.TempDir()
	store := adapters.NewFileStore(dir)
	ctx := context.Background()

	key := domain.NewArtifactKey("/admin/staffs/table", domain.Document)
	if err := store.Write(ctx, key, []byte("complete content")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// No temp file may remain after a successful write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s after write", entry.Name())
		}
	}
}
