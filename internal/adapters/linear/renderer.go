// Package linear provides a line-oriented renderer for step progress.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/smush/internal/ui/output"
	"go.trai.ch/smush/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer by printing one line per finished step
// and a summary line per file that ran at least one step.
// Spans without a parent are files; their names prefix the lines of the
// steps run on them.
type Renderer struct {
	w      io.Writer
	output *termenv.Output

	mu    sync.Mutex
	spans map[string]*spanState
}

type spanState struct {
	name      string
	parentID  string
	startTime time.Time
	steps     int
	failed    int
}

// NewRenderer creates a renderer writing to w, or stderr when w is nil.
// Colors are dropped when w is redirected.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		w:      w,
		output: output.NewFor(w),
		spans:  make(map[string]*spanState),
	}
}

// OnStepStart remembers the span until it completes.
func (r *Renderer) OnStepStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans[spanID] = &spanState{
		name:      name,
		parentID:  parentID,
		startTime: startTime,
	}
}

// OnStepComplete prints the result of a step, or the summary of a file.
func (r *Renderer) OnStepComplete(spanID string, result ports.SpanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)

	duration := result.EndTime.Sub(span.startTime).Round(time.Millisecond)

	if span.parentID == "" {
		r.file(span, result, duration)
		return
	}

	parent, ok := r.spans[span.parentID]
	if !ok {
		return
	}
	parent.steps++

	prefix := r.prefix(parent.name)
	if result.Err != nil {
		parent.failed++
		exit := ""
		if result.ExitCode >= 0 {
			exit = fmt.Sprintf(" (exit %d)", result.ExitCode)
		}
		_, _ = fmt.Fprintf(r.w, "%s %s %s Failed after %v%s: %v\n",
			prefix, span.name, r.cross(), duration, exit, result.Err)
		return
	}
	_, _ = fmt.Fprintf(r.w, "%s %s %s Completed in %v\n", prefix, span.name, r.check(), duration)
}

// file prints the summary of a file span. Files that never reached a step
// stay silent.
func (r *Renderer) file(span *spanState, result ports.SpanResult, duration time.Duration) {
	if span.steps == 0 && result.Err == nil {
		return
	}

	label := domain.Format(result.Format).Label()
	if result.Animated && domain.Format(result.Format) == domain.FormatGIF {
		label += " (animated)"
	}
	prefix := r.prefix(span.name)

	if result.Err != nil {
		_, _ = fmt.Fprintf(r.w, "%s %s %s Aborted after %v: %v\n", prefix, label, r.cross(), duration, result.Err)
		return
	}

	summary := fmt.Sprintf("%s %s %s Done in %v", prefix, label, r.check(), duration)
	if span.failed > 0 {
		summary += fmt.Sprintf(" (%d of %d steps failed)", span.failed, span.steps)
	}
	_, _ = fmt.Fprintln(r.w, summary)
}

func (r *Renderer) prefix(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

func (r *Renderer) check() string {
	return r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
}

func (r *Renderer) cross() string {
	return r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
}
