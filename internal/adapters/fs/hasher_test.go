package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/adapters/fs"
	"go.trai.ch/smush/internal/core/domain"
)

func TestHasher_ComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "image.png")
	content := []byte("\x89PNG\r\n\x1a\n")
	require.NoError(t, os.WriteFile(path, content, domain.FilePerm))

	hash, err := fs.NewHasher().ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64(content), hash)

	require.NoError(t, os.WriteFile(path, append(content, 0), domain.FilePerm))
	changed, err := fs.NewHasher().ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash, changed)
}

func TestHasher_ComputeFileHash_Missing(t *testing.T) {
	_, err := fs.NewHasher().ComputeFileHash(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
