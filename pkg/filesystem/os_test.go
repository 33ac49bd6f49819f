package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem(t *testing.T) {
	var fsys FileSystem = NewOSFileSystem()

	scratch, err := fsys.MkdirTemp(t.TempDir(), "capnp-import-*")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(scratch, "b.rs"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scratch, "a.rs"), []byte("a"), 0o644))

	entries, err := fsys.ReadDir(scratch)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.rs", entries[0].Name())

	info, err := fsys.Stat(filepath.Join(scratch, "a.rs"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	real, err := fsys.EvalSymlinks(scratch)
	require.NoError(t, err)
	assert.NotEmpty(t, real)

	content, err := fsys.ReadFile(filepath.Join(scratch, "b.rs"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(content))

	require.NoError(t, fsys.RemoveAll(scratch))
	_, err = fsys.Stat(scratch)
	assert.True(t, os.IsNotExist(err))
}
