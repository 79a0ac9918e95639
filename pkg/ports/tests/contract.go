// Package tests provides reusable contract suites that verify adapter
// compliance with the ports interfaces.
package tests

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
)

// SnapshotStoreContractTest verifies that an adapter complies with
// ports.SnapshotStore. The store must be empty when passed in.
func SnapshotStoreContractTest(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	keyA := domain.NewArtifactKey("/admin/staffs/table", domain.Document)
	keyB := domain.NewArtifactKey("/admin/staffs/[id]/toggle", domain.StreamUpdate)

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := store.Read(ctx, keyA)
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			t.Errorf("expected ErrArtifactNotFound, got %v", err)
		}
	})

	t.Run("WriteReadRoundTrip", func(t *testing.T) {
		content := []byte("<table id=\"staffs\"></table>")
		if err := store.Write(ctx, keyA, content); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		got, err := store.Read(ctx, keyA)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("round trip mismatch: got %q, want %q", got, content)
		}
	})

	t.Run("WriteOverwrites", func(t *testing.T) {
		if err := store.Write(ctx, keyA, []byte("v1")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := store.Write(ctx, keyA, []byte("v2")); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}

		got, err := store.Read(ctx, keyA)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("expected overwritten content, got %q", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Write(ctx, keyB, []byte("<turbo-stream/>")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		keys, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		lookup := make(map[domain.ArtifactKey]bool, len(keys))
		for _, k := range keys {
			lookup[k] = true
		}
		for _, want := range []domain.ArtifactKey{keyA, keyB} {
			if !lookup[want] {
				t.Errorf("key %s missing from list %v", want, keys)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, keyA); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		_, err := store.Read(ctx, keyA)
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			t.Errorf("expected ErrArtifactNotFound after delete, got %v", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		// Idempotent: reconciliation may race external cleanup.
		if err := store.Delete(ctx, keyA); err != nil {
			t.Errorf("Delete of absent key should not fail, got %v", err)
		}
	})
}
