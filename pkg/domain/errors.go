package domain

import "errors"

// ErrInvalidPattern is returned when a raw pattern cannot be compiled
// into a matcher (unbalanced brackets, empty segments, bad placeholder).
var ErrInvalidPattern = errors.New("invalid path pattern")

// ErrDuplicatePattern is returned when the same (path, kind) pair is
// defined twice within one build pass.
var ErrDuplicatePattern = errors.New("duplicate path pattern")

// ErrNoMatch is returned when no registered pattern matches a concrete
// path for the requested response kind.
var ErrNoMatch = errors.New("no pattern matches path")

// ErrArtifactNotFound is returned when no bytes are stored for a key.
// At test time this means the path was never registered or the snapshot
// build was not run.
var ErrArtifactNotFound = errors.New("artifact not found")
