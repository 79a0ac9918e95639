package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// FileStore implements ports.SnapshotStore on the local filesystem.
// Each artifact is one file directly under BasePath; the ArtifactKey is
// the file name (the key encoding already guarantees it is safe and
// flat). Dotfiles such as the build manifest live alongside artifacts
// and are ignored by List.
type FileStore struct {
	BasePath string
}

// NewFileStore creates a FileStore rooted at basePath.
// If basePath is empty, it defaults to ".viewsnap/snapshots".
func NewFileStore(basePath string) *FileStore {
	if basePath == "" {
		basePath = filepath.Join(".viewsnap", "snapshots")
	}
	return &FileStore{BasePath: basePath}
}

// Write stores the artifact atomically: bytes go to a temp file in the
// same directory, then rename. A concurrent reader sees either the old
// content or the new, never a partial write.
func (f *FileStore) Write(ctx context.Context, key domain.ArtifactKey, data []byte) error {
	if key == "" {
		return fmt.Errorf("artifact key cannot be empty")
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.BasePath, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	written := false
	defer func() {
		if !written {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		return fmt.Errorf("failed to publish artifact %s: %w", key, err)
	}
	written = true
	return nil
}

// Read returns the stored bytes for the key.
func (f *FileStore) Read(ctx context.Context, key domain.ArtifactKey) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the artifact file. Absent files are not an error.
func (f *FileStore) Delete(ctx context.Context, key domain.ArtifactKey) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}
	return nil
}

// List returns the keys of all stored artifacts, skipping dotfiles
// (manifest, in-flight temp files) and subdirectories.
func (f *FileStore) List(ctx context.Context) ([]domain.ArtifactKey, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ArtifactKey{}, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	var keys []domain.ArtifactKey
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		keys = append(keys, domain.ArtifactKey(entry.Name()))
	}
	return keys, nil
}

func (f *FileStore) path(key domain.ArtifactKey) string {
	return filepath.Join(f.BasePath, string(key))
}
