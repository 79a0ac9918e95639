// Package matcher resolves concrete request paths to artifact keys.
//
// Resolution is first-match-wins by declaration order, mirroring a
// router that trusts declaration order instead of computing specificity.
// Two overlapping patterns of the same kind are a foot-gun the system
// does not resolve automatically: whichever was declared first shadows
// the other for every path both match. Order your generator sources
// accordingly.
package matcher

import (
	"fmt"

	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/registry"
)

type candidate struct {
	pattern domain.PathPattern
	key     domain.ArtifactKey
}

// Matcher selects the artifact key for a concrete path and kind.
type Matcher struct {
	candidates []candidate
}

// FromRegistry builds a matcher over a live registry (build and debug
// paths). Candidate order is the registry's declaration order.
func FromRegistry(reg *registry.Registry) *Matcher {
	m := &Matcher{candidates: make([]candidate, 0, reg.Len())}
	for _, entry := range reg.Entries() {
		m.candidates = append(m.candidates, candidate{
			pattern: entry.Pattern,
			key:     entry.Key,
		})
	}
	return m
}

// FromManifest builds a matcher from a persisted build manifest (the
// test runtime path — no generator sources are re-evaluated). The
// manifest preserves declaration order, so matching semantics are
// identical to FromRegistry on the pass that produced it.
func FromManifest(manifest *builder.Manifest) (*Matcher, error) {
	m := &Matcher{candidates: make([]candidate, 0, len(manifest.Entries))}
	for _, entry := range manifest.Entries {
		pattern, err := domain.CompilePattern(entry.Pattern, entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %s: %w", entry.Key, err)
		}
		m.candidates = append(m.candidates, candidate{
			pattern: pattern,
			key:     entry.Key,
		})
	}
	return m, nil
}

// Resolve returns the artifact key of the first candidate, in
// declaration order, whose pattern matches the concrete path and whose
// kind equals the requested kind. Returns ErrNoMatch when nothing
// matches.
func (m *Matcher) Resolve(path string, kind domain.ResponseKind) (domain.ArtifactKey, error) {
	for _, c := range m.candidates {
		if c.pattern.Kind() != kind {
			continue
		}
		if c.pattern.Matches(path) {
			return c.key, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", domain.ErrNoMatch, path, kind)
}
