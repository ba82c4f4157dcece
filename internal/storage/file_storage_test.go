package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

func TestFileStorage_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	fs := NewFileStorage(dir)

	require.NoError(t, fs.EnsureDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, fs.EnsureDir(), "second call must be a no-op")
}

func TestFileStorage_Resolve(t *testing.T) {
	fs := NewFileStorage("/data/downloads")

	assert.Equal(t, "/abs/file.mp4", fs.Resolve("/abs/file.mp4"))
	assert.Equal(t, filepath.Join("/data/downloads", "a.mp4"), fs.Resolve("a.mp4"))
}

func TestFileStorage_StatAndOpen(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(dir)
	path := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	assert.True(t, fs.FileExists(path))
	assert.True(t, fs.FileExists("video.mp4"))

	f, info, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, int64(11), info.Size())
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestFileStorage_Missing(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(dir)

	_, err := fs.Stat(filepath.Join(dir, "gone.mp4"))
	assert.ErrorIs(t, err, errpkg.ErrArtifactMissing)

	_, _, err = fs.Open(filepath.Join(dir, "gone.mp4"))
	assert.ErrorIs(t, err, errpkg.ErrArtifactMissing)

	// Directories are not artifacts.
	_, err = fs.Stat(dir)
	assert.ErrorIs(t, err, errpkg.ErrArtifactMissing)
	assert.False(t, fs.FileExists(dir))
}

func TestFileStorage_Usage(t *testing.T) {
	dir := t.TempDir()
	usage, err := NewFileStorage(dir).Usage()
	require.NoError(t, err)

	assert.Equal(t, dir, usage.Path)
	assert.Greater(t, usage.Total, uint64(0))
	assert.GreaterOrEqual(t, usage.UsedPercent, 0.0)
}
