// Package report renders the end-of-run summary.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/ui/output"
)

// Options selects the report variant.
type Options struct {
	// Commit adds the per-format optimized counts and bytes saved.
	Commit bool
}

// Renderer writes run summaries to a writer.
type Renderer struct {
	w      io.Writer
	output *termenv.Output
	opts   Options
}

// NewRenderer creates a Renderer. Colors are dropped when w is not a terminal.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	return &Renderer{w: w, output: output.NewFor(w), opts: opts}
}

// Render prints the summary of stats as of end.
func (r *Renderer) Render(stats *domain.RunStats, end time.Time) error {
	lines := []string{"", fmt.Sprintf("%d files scanned:", stats.TotalScanned())}

	for _, f := range domain.Formats() {
		line := fmt.Sprintf("    %d %ss", stats.Scanned[f], f.Label())
		if r.opts.Commit {
			line += fmt.Sprintf(", %d optimised, %d bytes saved", stats.Optimized[f], stats.BytesSaved[f])
		}
		lines = append(lines, line)
	}

	if stats.HasRecords() {
		lines = append(lines, r.output.String("Optimised files:").Bold().String())
		for _, rec := range stats.Records {
			percent := r.output.String(fmt.Sprintf("%d%% saved", rec.BytesSavedPercent)).
				Foreground(termenv.ANSIGreen).String()
			lines = append(lines, fmt.Sprintf("    %s\t[%d > %d]\t%s", percent, rec.InputSize, rec.OutputSize, rec.Name))
		}
	}

	if stats.Aborted {
		lines = append(lines, r.output.String("Run aborted before all files were processed").
			Foreground(termenv.ANSIYellow).String())
	}
	lines = append(lines, fmt.Sprintf("Total time taken: %.2f seconds", stats.Elapsed(end).Seconds()))

	for _, line := range lines {
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}
