package filesys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDir_CreatesMissingParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, CreateDir(path))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	// Already existing is fine: open is called on the same directory
	// every time the store reopens.
	assert.NoError(t, CreateDir(path))
}

func TestCreateDir_RefusesRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("not a directory"), 0644))

	assert.ErrorIs(t, CreateDir(path), ErrIsNotDir)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")

	ok, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ok, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCopyFile_PreservesContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data")
	dst := filepath.Join(dir, "data.backup")

	content := []byte("records to preserve before truncation")
	require.NoError(t, os.WriteFile(src, content, 0644))

	require.NoError(t, CopyFile(src, dst))

	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, copied)
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	assert.Error(t, err)
}
