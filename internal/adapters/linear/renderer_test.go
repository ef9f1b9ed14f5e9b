package linear_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/adapters/linear"
	"go.trai.ch/smush/internal/core/ports"
)

func TestRenderer_StepLifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.OnStepStart("file1", "", "images/logo.png", start)
	r.OnStepStart("step1", "file1", "optipng", start)
	r.OnStepComplete("step1", ports.SpanResult{EndTime: start.Add(1500 * time.Millisecond), ExitCode: -1})

	r.OnStepStart("step2", "file1", "pngcrush", start)
	r.OnStepComplete("step2", ports.SpanResult{
		EndTime:  start.Add(20 * time.Millisecond),
		Err:      errors.New("exit status 1"),
		ExitCode: 1,
	})
	r.OnStepComplete("file1", ports.SpanResult{EndTime: start.Add(2 * time.Second), ExitCode: -1, Format: "PNG"})

	want := "[images/logo.png] optipng ✓ Completed in 1.5s\n" +
		"[images/logo.png] pngcrush ✗ Failed after 20ms (exit 1): exit status 1\n" +
		"[images/logo.png] PNG ✓ Done in 2s (1 of 2 steps failed)\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderer_FileSummaries(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		steps  int
		result ports.SpanResult
		want   string
	}{
		{
			name:   "file without steps is silent",
			result: ports.SpanResult{EndTime: start, ExitCode: -1, Format: "PNG"},
			want:   "",
		},
		{
			name:   "animated gif",
			steps:  1,
			result: ports.SpanResult{EndTime: start.Add(time.Second), ExitCode: -1, Format: "GIF", Animated: true},
			want:   "[a.gif] gifsicle ✓ Completed in 0s\n[a.gif] GIF (animated) ✓ Done in 1s\n",
		},
		{
			name: "launch failure aborts the file",
			result: ports.SpanResult{
				EndTime:  start.Add(time.Second),
				ExitCode: -1,
				Format:   "JPEG",
				Err:      errors.New("cannot start jpegtran"),
			},
			want: "[a.gif] JPEG ✗ Aborted after 1s: cannot start jpegtran\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := linear.NewRenderer(&buf)

			r.OnStepStart("file", "", "a.gif", start)
			for range tt.steps {
				r.OnStepStart("step", "file", "gifsicle", start)
				r.OnStepComplete("step", ports.SpanResult{EndTime: start, ExitCode: -1})
			}
			r.OnStepComplete("file", tt.result)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderer_UnknownSpan(t *testing.T) {
	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	r.OnStepComplete("missing", ports.SpanResult{EndTime: time.Now()})

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestRenderer_RedirectedOutputIsPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	f, err := os.Create(filepath.Join(t.TempDir(), "progress.log"))
	require.NoError(t, err)
	defer f.Close()

	r := linear.NewRenderer(f)
	now := time.Now()
	r.OnStepStart("file", "", "a.png", now)
	r.OnStepStart("step", "file", "optipng", now)
	r.OnStepComplete("step", ports.SpanResult{EndTime: now, ExitCode: -1})

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "[a.png] optipng ✓ Completed in 0s\n", string(data))
	assert.NotContains(t, string(data), "\x1b[")
}

func TestNewRenderer_DefaultsToStderr(t *testing.T) {
	assert.NotNil(t, linear.NewRenderer(nil))
}
