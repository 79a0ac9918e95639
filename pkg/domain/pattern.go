package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PathPattern matches a family of request paths. A pattern is authored
// as a literal path in which any segment may be a placeholder such as
// [id]. Placeholders named "id" or ending in "_id" match a numeric id
// ([0-9]+); all others match one or more non-delimiter characters.
// Literal segments match exactly, including case.
//
// The raw string is interpreted once at compile time; matching never
// re-parses it.
type PathPattern struct {
	raw  string
	kind ResponseKind
	re   *regexp.Regexp
}

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompilePattern compiles a raw pattern for the given response kind.
// Returns an error wrapping ErrInvalidPattern when the raw string is
// not a well-formed pattern.
func CompilePattern(raw string, kind ResponseKind) (PathPattern, error) {
	if !kind.Valid() {
		return PathPattern{}, fmt.Errorf("%w: %q has invalid response kind %q", ErrInvalidPattern, raw, kind)
	}
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return PathPattern{}, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, raw)
	}

	var expr strings.Builder
	expr.WriteString("^")

	if raw == "/" {
		expr.WriteString("/")
	} else {
		for _, segment := range strings.Split(raw, "/")[1:] {
			expr.WriteString("/")
			part, err := compileSegment(segment)
			if err != nil {
				return PathPattern{}, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
			}
			expr.WriteString(part)
		}
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return PathPattern{}, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, raw, err)
	}

	return PathPattern{raw: raw, kind: kind, re: re}, nil
}

// compileSegment turns one path segment into a regexp fragment.
func compileSegment(segment string) (string, error) {
	if segment == "" {
		return "", fmt.Errorf("empty segment")
	}

	if strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") {
		name := segment[1 : len(segment)-1]
		if !placeholderName.MatchString(name) {
			return "", fmt.Errorf("bad placeholder %q", segment)
		}
		if name == "id" || strings.HasSuffix(name, "_id") {
			return "[0-9]+", nil
		}
		return "[^/]+", nil
	}

	// A stray bracket outside a full-segment placeholder is an
	// authoring mistake, not a literal to match.
	if strings.ContainsAny(segment, "[]") {
		return "", fmt.Errorf("unbalanced placeholder in segment %q", segment)
	}

	return regexp.QuoteMeta(segment), nil
}

// Raw returns the pattern as authored, including any scope prefix it was
// compiled with.
func (p PathPattern) Raw() string { return p.raw }

// Kind returns the response kind this pattern was registered for.
func (p PathPattern) Kind() ResponseKind { return p.kind }

// Matches reports whether the concrete path satisfies the pattern.
// It is pure: no state is read or written.
func (p PathPattern) Matches(path string) bool {
	return p.re != nil && p.re.MatchString(path)
}

// Key returns the artifact key this pattern's rendered bytes are stored
// under.
func (p PathPattern) Key() ArtifactKey {
	return NewArtifactKey(p.raw, p.kind)
}

func (p PathPattern) String() string {
	return fmt.Sprintf("%s (%s)", p.raw, p.kind)
}
