// Package registry holds the build-time catalogue of snapshot entries.
//
// A Registry is an explicit value constructed fresh for each build
// invocation and passed through generator evaluation; there is no
// ambient shared catalogue. Declaration order is preserved and never
// re-sorted — both the builder and the matcher read entries
// sequentially, and first-match-wins semantics depend on it.
package registry

import (
	"fmt"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// Entry is one snapshot definition: a compiled pattern, the opaque
// rendering descriptor, and the dependency fingerprint of the generator
// source that declared it. Entries live for one build invocation.
type Entry struct {
	Pattern     domain.PathPattern
	Key         domain.ArtifactKey
	Descriptor  domain.RenderDescriptor
	Fingerprint string

	// Source names the generator file that declared the entry, for
	// error reporting only.
	Source string
}

// Registry is the ordered catalogue of entries for one build pass.
type Registry struct {
	entries []*Entry
	seen    map[domain.ArtifactKey]struct{}
	root    *Scope
}

// Scope groups patterns under a shared path prefix and an opaque
// fixture-setup context. Scopes nest; prefixes concatenate.
type Scope struct {
	registry *Registry
	prefix   string
	setup    map[string]any
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{
		seen: make(map[domain.ArtifactKey]struct{}),
	}
	r.root = &Scope{registry: r}
	return r
}

// Root returns the implicit top-level scope (empty prefix, no setup).
func (r *Registry) Root() *Scope {
	return r.root
}

// RegisterScope declares a top-level scope with the given path prefix
// and opaque fixture-setup context.
func (r *Registry) RegisterScope(prefix string, setup map[string]any) *Scope {
	return r.root.RegisterScope(prefix, setup)
}

// Entries returns all entries in declaration order. The returned slice
// must not be mutated.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Len returns the number of defined entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// RegisterScope declares a child scope. The child's prefix is this
// scope's prefix plus the given one; the setup context is the child's
// own (fixture layering is the fixture collaborator's concern, not the
// core's).
func (s *Scope) RegisterScope(prefix string, setup map[string]any) *Scope {
	return &Scope{
		registry: s.registry,
		prefix:   s.prefix + prefix,
		setup:    setup,
	}
}

// Prefix returns the full concatenated path prefix of the scope.
func (s *Scope) Prefix() string {
	return s.prefix
}

// Setup returns the scope's opaque fixture-setup context.
func (s *Scope) Setup() map[string]any {
	return s.setup
}

// Define appends one snapshot entry under the scope. The raw pattern is
// compiled against the scope's full prefix. Defining a textually
// identical (path, kind) pair twice in one build fails with
// ErrDuplicatePattern; overlapping but non-identical patterns are
// allowed and resolved later by declaration order.
func (s *Scope) Define(raw string, kind domain.ResponseKind, descriptor domain.RenderDescriptor, fingerprint, source string) (*Entry, error) {
	pattern, err := domain.CompilePattern(s.prefix+raw, kind)
	if err != nil {
		return nil, err
	}

	key := pattern.Key()
	if _, dup := s.registry.seen[key]; dup {
		return nil, fmt.Errorf("%w: %s already defined", domain.ErrDuplicatePattern, pattern)
	}

	entry := &Entry{
		Pattern:     pattern,
		Key:         key,
		Descriptor:  descriptor,
		Fingerprint: fingerprint,
		Source:      source,
	}
	s.registry.seen[key] = struct{}{}
	s.registry.entries = append(s.registry.entries, entry)
	return entry, nil
}
