package runtime

import (
	"fmt"

	"github.com/viewsnap/viewsnap/pkg/ports"
)

// TB is the subset of testing.TB the mount helpers need. Declaring it
// here keeps the testing package out of non-test builds.
type TB interface {
	Helper()
	Cleanup(func())
	Fatalf(format string, args ...any)
}

// Mount places markup into the environment and returns the cleanup
// function that clears it. Callers must run the cleanup on every exit
// path (defer it immediately) so one test's markup never bleeds into
// the next.
func (b *Bridge) Mount(env ports.Environment, content []byte) (func(), error) {
	if err := env.SetContent(content); err != nil {
		return nil, fmt.Errorf("failed to mount markup: %w", err)
	}
	return func() {
		if err := env.Clear(); err != nil {
			b.logger.Warn("environment cleanup failed", "err", err)
		}
	}, nil
}

// MountT mounts markup and registers teardown with the test lifecycle,
// so cleanup runs even when the test fails or exits early.
func (b *Bridge) MountT(tb TB, env ports.Environment, content []byte) {
	tb.Helper()

	cleanup, err := b.Mount(env, content)
	if err != nil {
		tb.Fatalf("mount failed: %v", err)
		return
	}
	tb.Cleanup(cleanup)
}
