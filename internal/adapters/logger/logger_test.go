package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(l *logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("optipng -o7 a.png") },
			goldenName: "info_basic",
		},
		{
			name:       "warning",
			log:        func(l *logger.Logger) { l.Warn("cannot identify image format of notes.txt") },
			goldenName: "warn_basic",
		},
		{
			name: "quiet drops info",
			log: func(l *logger.Logger) {
				l.SetQuiet(true)
				l.Info("hidden")
				l.Warn("shown")
			},
			goldenName: "quiet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("permission denied"),
			goldenName: "error_simple",
		},
		{
			name:       "zerr chain",
			err:        zerr.Wrap(zerr.Wrap(errors.New("no such file"), "cannot start optipng"), "aborting run"),
			goldenName: "error_chain",
		},
		{
			name: "metadata on main error",
			err: func() error {
				err := zerr.Wrap(errors.New("exit status 3"), "command failed")
				err = zerr.With(err, "command", "optipng a.png")
				return zerr.With(err, "exit_code", 3)
			}(),
			goldenName: "error_metadata",
		},
		{
			name: "step failure leads with path, command and exit code",
			err: func() error {
				err := zerr.Wrap(errors.New("exit status 1"), "external command failed")
				err = zerr.With(err, "format", "PNG")
				err = zerr.With(err, "exit_code", 1)
				err = zerr.With(err, "command", "pngcrush a.png b.png")
				return zerr.With(err, "path", "a.png")
			}(),
			goldenName: "error_step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Warn("careful")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "careful", record["msg"])
}

func TestLogger_JSONError(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	err := zerr.With(zerr.Wrap(errors.New("no such file"), "cannot start optipng"), "command", "optipng a.png")
	lg.Error(err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "cannot start optipng", record["msg"])
	assert.Equal(t, "optipng a.png", record["command"])

	causes, ok := record["causes"].([]any)
	require.True(t, ok)
	require.Len(t, causes, 1)
	assert.Equal(t, "no such file", causes[0].(map[string]any)["Message"])
}

func TestPrettyHandler_InlineAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, nil)
	rec := slog.NewRecord(time.Time{}, slog.LevelWarn, "step failed", 0)
	rec.AddAttrs(slog.Int("exit_code", 2), slog.String("format", "PNG"), slog.String("path", "a.png"))
	require.NoError(t, h.Handle(context.Background(), rec))

	assert.Equal(t, "! step failed path=a.png exit_code=2 format=PNG\n", buf.String())
}

func TestLogger_SetOutputNil(t *testing.T) {
	lg := logger.New().(*logger.Logger)
	assert.NotPanics(t, func() { lg.SetOutput(nil) })
}
