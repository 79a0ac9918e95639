/*
Package viewsnap renders application views into content-addressed HTML
snapshots and resolves concrete request paths back to them, so UI tests
run against real markup without a live backend.

# Concept

Views are declared in *.snap.yaml files as path patterns (with
[placeholder] segments for dynamic parts) plus a response kind: a full
document or a stream update. The build renders each declaration through
an external render command, stores the result under an injective
artifact key, and records a manifest keyed by content fingerprints so
unchanged declarations are never re-rendered. At test time, a concrete
path like /admin/staffs/7/toggle is matched back to its pattern in
declaration order and the stored bytes are served.

# Usage

Run "viewsnap build" to render snapshots, then open the snapshot
directory from a test:

	bridge, err := viewsnap.Open(".viewsnap/snapshots")
	if err != nil {
		t.Fatal(err)
	}

	// Load markup directly.
	html, err := bridge.LoadForPath(ctx, "/admin/staffs/table", domain.Document)

	// Or intercept an HTTP client so the code under test hits
	// snapshots instead of the network.
	bridge.InstallInterceptor(client)
	defer bridge.UninstallInterceptor(client)

The cmd/viewsnap binary wraps the same packages for the command line:
build, resolve and serve.
*/
package viewsnap
