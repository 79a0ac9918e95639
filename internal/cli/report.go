package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/viewsnap/viewsnap/internal/generator"
	"github.com/viewsnap/viewsnap/pkg/builder"
)

// ReportPrinter renders build results for the terminal.
type ReportPrinter struct {
	out     io.Writer
	profile termenv.Profile
}

// NewReportPrinter creates a printer writing to out. Color degrades
// automatically on dumb terminals and pipes.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{
		out:     out,
		profile: termenv.ColorProfile(),
	}
}

func (p *ReportPrinter) colored(s, hex string) string {
	return termenv.String(s).Foreground(p.profile.Color(hex)).String()
}

// PrintProblems lists declarations the loader had to skip.
func (p *ReportPrinter) PrintProblems(problems []generator.Problem) {
	for _, problem := range problems {
		fmt.Fprintf(p.out, "%s %s\n", p.colored("skipped", "#fbbf24"), problem.Error())
	}
}

// PrintReport summarizes a build pass.
func (p *ReportPrinter) PrintReport(report *builder.Report) {
	fmt.Fprintf(p.out, "%s %d built, %d fresh, %d removed in %s\n",
		p.colored("build", "#818cf8"),
		len(report.Built), len(report.Fresh), len(report.Removed), report.Duration.Round(time.Millisecond))

	for _, key := range report.Built {
		fmt.Fprintf(p.out, "  %s %s\n", p.colored("+", "#34d399"), key)
	}
	for _, key := range report.Removed {
		fmt.Fprintf(p.out, "  %s %s\n", p.colored("-", "#f87171"), key)
	}
	for _, failure := range report.Failures {
		fmt.Fprintf(p.out, "  %s %s: %v\n", p.colored("!", "#f87171"), failure.Key, failure.Err)
	}

	if report.Failed() {
		fmt.Fprintf(p.out, "%s %d snapshot(s) failed\n", p.colored("error", "#f87171"), len(report.Failures))
	}
}
