// Package domain holds the core value types of the snapshot engine:
// path patterns, response kinds, artifact keys, dependency fingerprints,
// and the sentinel errors shared by the build and runtime phases.
//
// Everything here is pure data plus deterministic derivations. I/O lives
// in the adapters; policy (ordering, staleness) lives in the registry,
// matcher, and builder packages.
package domain
