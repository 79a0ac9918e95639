package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// ManifestName is the file the build manifest is persisted under,
// alongside the artifacts at the snapshot root.
const ManifestName = ".manifest.yaml"

// ManifestEntry records one built artifact: the key its bytes are stored
// under, the pattern and kind that produced it (in declaration order, so
// the runtime can match without re-evaluating generator sources), and
// the dependency fingerprint at last successful build.
type ManifestEntry struct {
	Key         domain.ArtifactKey  `yaml:"key"`
	Pattern     string              `yaml:"pattern"`
	Kind        domain.ResponseKind `yaml:"kind"`
	Fingerprint string              `yaml:"fingerprint"`
}

// Manifest is the single source of truth for staleness. It is read at
// the start of every build and rewritten atomically at the end, only by
// the builder. Staleness is never inferred from artifact file
// timestamps.
type Manifest struct {
	Entries []ManifestEntry `yaml:"entries"`
}

// LoadManifest reads the manifest at the snapshot root. A missing file
// yields an empty manifest (first build); a corrupt file is an error.
func LoadManifest(snapshotRoot string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(snapshotRoot, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read build manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse build manifest: %w", err)
	}
	return &manifest, nil
}

// Save writes the manifest atomically (temp file + rename) so a parallel
// reader never observes a half-written manifest.
func (m *Manifest) Save(snapshotRoot string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode build manifest: %w", err)
	}

	if err := os.MkdirAll(snapshotRoot, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(snapshotRoot, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
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
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(snapshotRoot, ManifestName)); err != nil {
		return fmt.Errorf("failed to publish manifest: %w", err)
	}
	written = true
	return nil
}

// FingerprintFor returns the fingerprint recorded for a key, if any.
func (m *Manifest) FingerprintFor(key domain.ArtifactKey) (string, bool) {
	for _, entry := range m.Entries {
		if entry.Key == key {
			return entry.Fingerprint, true
		}
	}
	return "", false
}

// Keys returns the set of keys present in the manifest.
func (m *Manifest) Keys() map[domain.ArtifactKey]struct{} {
	keys := make(map[domain.ArtifactKey]struct{}, len(m.Entries))
	for _, entry := range m.Entries {
		keys[entry.Key] = struct{}{}
	}
	return keys
}
