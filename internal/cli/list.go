package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/viewsnap/viewsnap/pkg/builder"
	"github.com/viewsnap/viewsnap/pkg/domain"
)

// ListOptions carries everything the list command needs.
type ListOptions struct {
	Config Config
	Out    io.Writer
}

// RunList prints every entry the last build recorded, in match
// precedence order.
func RunList(opts ListOptions) error {
	manifest, err := builder.LoadManifest(opts.Config.SnapshotPath)
	if err != nil {
		return err
	}

	if len(manifest.Entries) == 0 {
		fmt.Fprintln(opts.Out, "no snapshots built yet")
		return nil
	}

	profile := termenv.ColorProfile()
	for _, entry := range manifest.Entries {
		kind := string(entry.Kind)
		if entry.Kind == domain.StreamUpdate {
			kind = termenv.String(kind).Foreground(profile.Color("#c084fc")).String()
		}
		fingerprint := entry.Fingerprint
		if len(fingerprint) > 12 {
			fingerprint = fingerprint[:12]
		}
		fmt.Fprintf(opts.Out, "%-50s %-10s %s\n", entry.Pattern, kind, fingerprint)
	}
	return nil
}
