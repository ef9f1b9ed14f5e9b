package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/smush/internal/ui/output"
	"go.trai.ch/smush/internal/ui/style"
)

// causesKey holds the remainder of an error chain on an error record.
const causesKey = "causes"

// leadingKeys are the metadata keys of step and file errors. They are
// printed first, in this order, before any other key.
var leadingKeys = []string{"path", "command", "exit_code"}

// PrettyHandler is a slog.Handler for terminals. Info lines are faint,
// warnings carry the warning icon, and error records are expanded into
// an "Error: ... Caused by:" block.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	meta := make(map[string]any, len(h.attrs)+r.NumAttrs())
	var causes []ErrorEntry
	collect := func(attr slog.Attr) bool {
		if attr.Key == causesKey {
			if chain, ok := attr.Value.Any().([]ErrorEntry); ok {
				causes = chain
				return true
			}
		}
		meta[h.key(attr.Key)] = attr.Value.Any()
		return true
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(collect)

	var msg string
	var color termenv.Color
	switch {
	case r.Level >= slog.LevelError:
		entries := append([]ErrorEntry{{Message: r.Message, Metadata: meta}}, causes...)
		msg = style.Cross + " " + formatErrorEntries(entries)
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + r.Message + inlineAttrs(meta)
		color = termenv.RGBColor(string(style.Yellow))
	default:
		msg = r.Message + inlineAttrs(meta)
		color = termenv.RGBColor(string(style.Slate))
	}

	_, err := h.out.WriteString(h.out.String(msg).Foreground(color).String() + "\n")
	return err
}

func (h *PrettyHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: append(slices.Clip(h.attrs), attrs...),
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// inlineAttrs renders metadata as " key=value" pairs for single-line records.
func inlineAttrs(meta map[string]any) string {
	var b strings.Builder
	for _, key := range orderedKeys(meta) {
		_, _ = fmt.Fprintf(&b, " %s=%v", key, meta[key])
	}
	return b.String()
}

// formatErrorEntries renders entries as "Error: ..." followed by a "Caused by:" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		if i == 0 {
			head, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range orderedKeys(entry.Metadata) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

// orderedKeys returns the leading keys present in m, then the rest sorted.
func orderedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for _, k := range leadingKeys {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !slices.Contains(leadingKeys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
