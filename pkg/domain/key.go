package domain

import "fmt"

// ArtifactKey is the canonical, filesystem-safe name of one stored
// artifact: the percent-escaped pattern path followed by a response-kind
// suffix. Keys are opaque to every consumer — lookups always go
// pattern -> key, never key -> pattern.
//
// The encoding is injective: only [A-Za-z0-9_-] survive escaping, so the
// '.' beginning the kind suffix can never be produced by the path body,
// and two distinct (path, kind) pairs never share a key.
type ArtifactKey string

// NewArtifactKey derives the key for a pattern path and response kind.
// The path must already include its scope prefix.
func NewArtifactKey(path string, kind ResponseKind) ArtifactKey {
	return ArtifactKey(escapePath(path) + kind.artifactSuffix())
}

// artifactSuffix returns the file suffix that distinguishes response
// kinds on disk.
func (k ResponseKind) artifactSuffix() string {
	switch k {
	case StreamUpdate:
		return ".turbo_stream.html"
	case Document:
		return ".html"
	}
	// Unreachable for keys built through the registry; keep the
	// mapping total and still injective per kind.
	return fmt.Sprintf(".%s.html", string(k))
}

// escapePath percent-escapes every byte outside [A-Za-z0-9_-].
// '%' itself is escaped, so decoding ambiguity cannot arise.
func escapePath(path string) string {
	const hex = "0123456789ABCDEF"

	escaped := make([]byte, 0, len(path)*3)
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-':
			escaped = append(escaped, c)
		default:
			escaped = append(escaped, '%', hex[c>>4], hex[c&0x0F])
		}
	}
	return string(escaped)
}
