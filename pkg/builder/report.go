package builder

import (
	"errors"
	"fmt"
	"time"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// EntryFailure describes one entry whose render collaborator failed.
type EntryFailure struct {
	Key     domain.ArtifactKey
	Pattern string
	Source  string
	Err     error
}

func (f EntryFailure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Pattern, f.Source, f.Err)
}

// Unwrap exposes the underlying render error.
func (f EntryFailure) Unwrap() error {
	return f.Err
}

// Report summarizes one build pass.
type Report struct {
	// Built are the keys that were stale and re-rendered.
	Built []domain.ArtifactKey
	// Fresh are the keys whose fingerprint matched and were skipped.
	Fresh []domain.ArtifactKey
	// Removed are orphaned keys reconciled out of store and manifest.
	Removed []domain.ArtifactKey
	// Failures lists entries whose render collaborator failed. Those
	// entries have no artifact and no manifest record after the pass.
	Failures []EntryFailure

	Duration time.Duration
}

// Failed reports whether any entry failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err aggregates all entry failures into one error, or nil. Independent
// entries still build when one fails; the aggregate keeps per-entry
// detail visible.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures)+1)
	errs = append(errs, fmt.Errorf("%d of %d entries failed to build",
		len(r.Failures), len(r.Built)+len(r.Fresh)+len(r.Failures)))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}
