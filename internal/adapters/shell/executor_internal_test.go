package shell_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/adapters/shell"
)

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name     string
		env      []string
		dirs     []string
		expected []string
	}{
		{
			name:     "no tool paths keeps environment",
			env:      []string{"HOME=/home/test", "PATH=/usr/bin"},
			dirs:     nil,
			expected: []string{"HOME=/home/test", "PATH=/usr/bin"},
		},
		{
			name:     "tool paths are searched first",
			env:      []string{"PATH=/usr/bin"},
			dirs:     []string{"/opt/a", "/opt/b"},
			expected: []string{"PATH=/opt/a" + sep + "/opt/b" + sep + "/usr/bin"},
		},
		{
			name:     "missing PATH is added",
			env:      []string{"HOME=/home/test"},
			dirs:     []string{"/opt/a"},
			expected: []string{"HOME=/home/test", "PATH=/opt/a"},
		},
		{
			name:     "empty PATH is replaced",
			env:      []string{"PATH="},
			dirs:     []string{"/opt/a"},
			expected: []string{"PATH=/opt/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shell.PrependPath(tt.env, tt.dirs))
		})
	}
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "optipng")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755)) //nolint:gosec // test tool must be executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte("x"), 0o600))

	got, err := shell.LookPathIn("optipng", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = shell.LookPathIn("plain", []string{"PATH=" + dir})
	require.ErrorIs(t, err, exec.ErrNotFound)

	_, err = shell.LookPathIn("optipng", []string{"HOME=/x"})
	require.ErrorIs(t, err, exec.ErrNotFound)
}
