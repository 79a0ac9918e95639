// Package generator loads snapshot declarations from *.snap.yaml files
// and registers them. Files are processed in lexical path order, and
// declaration order within a file is preserved, so the registry order
// (and therefore match precedence) is stable across runs.
package generator

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/viewsnap/viewsnap/internal/logging"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/registry"
)

// SourceSuffix marks a file as a snapshot declaration source.
const SourceSuffix = ".snap.yaml"

// scopeSpec mirrors the YAML shape of a declaration scope. Scopes nest,
// and fixtures declared on an outer scope flow into inner ones.
type scopeSpec struct {
	Scope     string         `mapstructure:"scope"`
	Fixtures  map[string]any `mapstructure:"fixtures"`
	Snapshots []snapshotSpec `mapstructure:"snapshots"`
	Scopes    []scopeSpec    `mapstructure:"scopes"`
}

type snapshotSpec struct {
	Path   string         `mapstructure:"path"`
	Kind   string         `mapstructure:"kind"`
	Render map[string]any `mapstructure:"render"`
}

// Problem is a declaration the loader had to skip. Problems do not abort
// the load: one broken entry must not hide every other snapshot.
type Problem struct {
	Source  string
	Pattern string
	Err     error
}

func (p Problem) Error() string {
	if p.Pattern == "" {
		return fmt.Sprintf("%s: %v", p.Source, p.Err)
	}
	return fmt.Sprintf("%s: %s: %v", p.Source, p.Pattern, p.Err)
}

// Result summarizes a load pass.
type Result struct {
	Files    int
	Entries  int
	Problems []Problem
}

// Loader scans a directory tree for snapshot declaration files.
type Loader struct {
	factoryPath string
	logger      *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger configures load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader rooted at factoryPath.
func NewLoader(factoryPath string, opts ...Option) *Loader {
	l := &Loader{
		factoryPath: factoryPath,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every declaration file under the factory path and registers
// its snapshots. Each file's entries share one fingerprint derived from
// the file's bytes, so touching a file without changing it does not mark
// anything stale, and any content edit marks all of its entries stale.
func (l *Loader) Load(reg *registry.Registry) (*Result, error) {
	sources, err := l.findSources()
	if err != nil {
		return nil, err
	}

	result := &Result{Files: len(sources)}
	for _, source := range sources {
		if err := l.loadFile(reg, source, result); err != nil {
			return nil, err
		}
	}

	l.logger.Info("declarations loaded",
		"files", result.Files, "entries", result.Entries, "problems", len(result.Problems))
	return result, nil
}

func (l *Loader) findSources() ([]string, error) {
	var sources []string
	err := filepath.WalkDir(l.factoryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != l.factoryPath {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), SourceSuffix) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.factoryPath, err)
	}
	// WalkDir visits entries in lexical order already; the slice keeps it.
	return sources, nil
}

func (l *Loader) loadFile(reg *registry.Registry, source string, result *Result) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}
	fingerprint := domain.Fingerprint(data)

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		result.Problems = append(result.Problems, Problem{Source: source, Err: err})
		return nil
	}

	var spec scopeSpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		result.Problems = append(result.Problems, Problem{Source: source, Err: err})
		return nil
	}

	scope := reg.RegisterScope(spec.Scope, spec.Fixtures)
	l.loadScope(scope, spec, nil, source, fingerprint, result)
	return nil
}

func (l *Loader) loadScope(scope *registry.Scope, spec scopeSpec, inherited map[string]any, source, fingerprint string, result *Result) {
	fixtures := mergeFixtures(inherited, spec.Fixtures)

	for _, snap := range spec.Snapshots {
		kind := domain.Document
		if snap.Kind != "" {
			parsed, err := domain.ParseResponseKind(snap.Kind)
			if err != nil {
				result.Problems = append(result.Problems, Problem{Source: source, Pattern: snap.Path, Err: err})
				continue
			}
			kind = parsed
		}

		descriptor := domain.RenderDescriptor{
			"path":     scope.Prefix() + snap.Path,
			"kind":     string(kind),
			"fixtures": fixtures,
		}
		if len(snap.Render) > 0 {
			descriptor["render"] = snap.Render
		}

		if _, err := scope.Define(snap.Path, kind, descriptor, fingerprint, source); err != nil {
			result.Problems = append(result.Problems, Problem{Source: source, Pattern: snap.Path, Err: err})
			continue
		}
		result.Entries++
	}

	for _, nested := range spec.Scopes {
		l.loadScope(scope.RegisterScope(nested.Scope, nested.Fixtures), nested, fixtures, source, fingerprint, result)
	}
}

// mergeFixtures layers child fixtures over inherited ones. Neither input
// is mutated.
func mergeFixtures(inherited, own map[string]any) map[string]any {
	if len(inherited) == 0 && len(own) == 0 {
		return nil
	}
	merged := make(map[string]any, len(inherited)+len(own))
	for k, v := range inherited {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return merged
}
