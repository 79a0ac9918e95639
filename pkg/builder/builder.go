// Package builder implements the incremental snapshot build: it walks a
// registry, re-renders only the entries whose dependency fingerprint
// changed since the last recorded build, reconciles orphaned artifacts,
// and rewrites the build manifest atomically.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viewsnap/viewsnap/internal/logging"
	"github.com/viewsnap/viewsnap/pkg/ports"
	"github.com/viewsnap/viewsnap/pkg/registry"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// DefaultWorkerCount is used when no worker count is configured.
const DefaultWorkerCount = 4

// Builder runs incremental build passes against a snapshot store.
type Builder struct {
	store        ports.SnapshotStore
	renderer     ports.Renderer
	snapshotRoot string
	workers      int
	logger       *slog.Logger
	metrics      *Metrics
}

// Option configures the Builder.
type Option func(*Builder)

// WithWorkerCount sets how many entries render in parallel.
func WithWorkerCount(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger configures a logger for build progress.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMetrics records build outcomes on the given metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(b *Builder) {
		b.metrics = metrics
	}
}

// New creates a Builder writing artifacts through store and the manifest
// under snapshotRoot.
func New(store ports.SnapshotStore, renderer ports.Renderer, snapshotRoot string, opts ...Option) *Builder {
	b := &Builder{
		store:        store,
		renderer:     renderer,
		snapshotRoot: snapshotRoot,
		workers:      DefaultWorkerCount,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs one incremental pass over the registry.
//
// Entries whose fingerprint matches the manifest and whose artifact is
// present in the store are skipped entirely. Stale entries (changed or
// unrecorded fingerprint, or missing bytes) render in parallel up to
// the worker count; each worker
// renders and writes independently (distinct keys, so writes cannot
// race), and the manifest and orphan set are merged single-threaded
// afterwards. A render failure is fatal to that entry only: the pass
// continues, the failed entry keeps no manifest record and no artifact,
// and the returned error aggregates all failures.
func (b *Builder) Build(ctx context.Context, reg *registry.Registry) (*Report, error) {
	start := time.Now()

	previous, err := LoadManifest(b.snapshotRoot)
	if err != nil {
		return nil, err
	}

	stored, err := b.store.List(ctx)
	if err != nil {
		return nil, err
	}
	storedKeys := make(map[domain.ArtifactKey]struct{}, len(stored))
	for _, key := range stored {
		storedKeys[key] = struct{}{}
	}

	entries := reg.Entries()
	report := &Report{}

	// Classify against the manifest and the store. Missing record,
	// changed fingerprint, or missing artifact bytes (deleted behind the
	// manifest's back) all mean stale; the manifest alone cannot vouch
	// for bytes it no longer has.
	stale := make([]bool, len(entries))
	var staleIdx []int
	for i, entry := range entries {
		recorded, ok := previous.FingerprintFor(entry.Key)
		if ok && recorded == entry.Fingerprint {
			if _, present := storedKeys[entry.Key]; present {
				report.Fresh = append(report.Fresh, entry.Key)
				continue
			}
			b.logger.Warn("artifact missing from store, rebuilding", "key", entry.Key)
		}
		stale[i] = true
		staleIdx = append(staleIdx, i)
	}

	// Parallel map phase: render and write stale entries.
	renderErrs := make([]error, len(entries))
	if len(staleIdx) > 0 {
		workers := b.workers
		if workers > len(staleIdx) {
			workers = len(staleIdx)
		}

		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					renderErrs[idx] = b.buildEntry(ctx, entries[idx])
				}
			}()
		}
		for _, idx := range staleIdx {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
	}

	// Merge phase (single-threaded): assemble the next manifest in
	// declaration order, recording only entries that are fresh or
	// built successfully.
	next := &Manifest{}
	failureKeys := make(map[domain.ArtifactKey]struct{})
	for i, entry := range entries {
		if stale[i] && renderErrs[i] != nil {
			report.Failures = append(report.Failures, EntryFailure{
				Key:     entry.Key,
				Pattern: entry.Pattern.Raw(),
				Source:  entry.Source,
				Err:     renderErrs[i],
			})
			failureKeys[entry.Key] = struct{}{}
			continue
		}
		if stale[i] {
			report.Built = append(report.Built, entry.Key)
		}
		next.Entries = append(next.Entries, ManifestEntry{
			Key:         entry.Key,
			Pattern:     entry.Pattern.Raw(),
			Kind:        entry.Pattern.Kind(),
			Fingerprint: entry.Fingerprint,
		})
	}

	// Reconcile orphans: anything previously recorded or currently
	// stored that the manifest no longer accounts for is deleted, so a
	// removed generator entry cannot silently satisfy a lookup. Failed
	// entries lose their stale bytes too; they retry next build.
	if err := b.reconcile(ctx, previous, next, stored, failureKeys, report); err != nil {
		return nil, err
	}

	if err := next.Save(b.snapshotRoot); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	b.metrics.observe(report)
	b.logger.Info("build pass complete",
		"built", len(report.Built),
		"fresh", len(report.Fresh),
		"removed", len(report.Removed),
		"failed", len(report.Failures),
		"duration", report.Duration,
	)

	return report, report.Err()
}

// buildEntry renders one stale entry and writes its artifact.
func (b *Builder) buildEntry(ctx context.Context, entry *registry.Entry) error {
	data, err := b.renderer.Render(ctx, entry.Descriptor)
	if err != nil {
		b.logger.Warn("render failed", "pattern", entry.Pattern.Raw(), "source", entry.Source, "err", err)
		return fmt.Errorf("render failed: %w", err)
	}
	if err := b.store.Write(ctx, entry.Key, data); err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}
	b.logger.Debug("artifact built", "pattern", entry.Pattern.Raw(), "key", entry.Key)
	return nil
}

// reconcile deletes every stored or previously-recorded key the next
// manifest does not keep, preserving the invariant that store and
// manifest hold the same key set. stored is the pre-pass listing; keys
// written during the pass are all in next, so they are never candidates.
func (b *Builder) reconcile(ctx context.Context, previous, next *Manifest, stored []domain.ArtifactKey, failureKeys map[domain.ArtifactKey]struct{}, report *Report) error {
	keep := next.Keys()

	candidates := previous.Keys()
	for _, key := range stored {
		candidates[key] = struct{}{}
	}

	for key := range candidates {
		if _, kept := keep[key]; kept {
			continue
		}
		if err := b.store.Delete(ctx, key); err != nil {
			return err
		}
		// Keys dropped because their entry failed are reported as
		// failures, not as removals.
		if _, failed := failureKeys[key]; !failed {
			report.Removed = append(report.Removed, key)
			b.logger.Debug("orphan removed", "key", key)
		}
	}
	return nil
}
