package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "nested", "out.xml")

		require.NoError(t, WriteFileAtomic(target, []byte("<notebook/>"), 0644))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "<notebook/>", string(data))
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "out.xml")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

		require.NoError(t, WriteFileAtomic(target, []byte("new"), 0644))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.False(t, strings.HasPrefix(entry.Name(), TempFilePrefix), "leftover %s", entry.Name())
		}
	})
}
