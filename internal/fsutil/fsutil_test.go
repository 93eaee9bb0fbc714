package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"
	"time"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	must.M(os.MkdirAll(filepath.Dir(path), 0o755))
	must.M(os.WriteFile(path, []byte(content), 0o640))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.1.jpg")

	exists, err := FileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	writeFile(t, path, "x")
	exists, err = FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	isDir, err := IsDir(dir)
	require.NoError(t, err)
	assert.True(t, isDir)
	isDir, err = IsDir(path)
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "c.txt", "d.webp", "noext"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	writeFile(t, filepath.Join(dir, "sub", "nested.jpg"), "x")
	must.M(os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755))

	files, err := ListFiles(dir, map[string]bool{".jpg": true, ".png": true, ".webp": true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "d.webp"),
	}, files)
}

func TestListFiles_MissingDir(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "nope"), map[string]bool{".jpg": true})
	assert.Error(t, err)
}

func TestCopyFile_PreservesContentModeAndMtime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "cat.1.jpg")
	dst := filepath.Join(dir, "cat.1.jpg")
	writeFile(t, src, "meow")
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	must.M(os.Chtimes(src, mtime, mtime))

	n, err := CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	b := must.M1(os.ReadFile(dst))
	assert.Equal(t, "meow", string(b))
	fi := must.M1(os.Stat(dst))
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
	assert.True(t, fi.ModTime().Equal(mtime), "mtime %v, want %v", fi.ModTime(), mtime)

	_, err = os.Stat(src)
	assert.NoError(t, err, "copy keeps the source")
}

func TestCopyFile_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a", "dog.1.jpg")
	dst := filepath.Join(dir, "b", "dog.1.jpg")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	_, err := CopyFile(src, dst)
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.Equal(t, "old", string(must.M1(os.ReadFile(dst))))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dog.2.jpg")
	dst := filepath.Join(dir, "dogs", "dog.2.jpg")
	writeFile(t, src, "woof")
	must.M(os.MkdirAll(filepath.Dir(dst), 0o755))

	n, err := MoveFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "woof", string(must.M1(os.ReadFile(dst))))
}

func TestMoveFile_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dog.2.jpg")
	dst := filepath.Join(dir, "dogs", "dog.2.jpg")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	_, err := MoveFile(src, dst)
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.Equal(t, "new", string(must.M1(os.ReadFile(src))), "source left in place")
	assert.Equal(t, "old", string(must.M1(os.ReadFile(dst))))
}

func TestRenameDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "train", "cats", "cat.1.jpg"), "x")
	require.NoError(t, RenameDir(filepath.Join(dir, "train"), filepath.Join(dir, "train_backup")))
	_, err := os.Stat(filepath.Join(dir, "train_backup", "cats", "cat.1.jpg"))
	assert.NoError(t, err)

	must.M(os.MkdirAll(filepath.Join(dir, "other"), 0o755))
	err = RenameDir(filepath.Join(dir, "other"), filepath.Join(dir, "train_backup"))
	assert.ErrorIs(t, err, ErrDestinationExists)
}

func TestResolvePath_MissingTail(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := ResolvePath(filepath.Join(dir, "val", "cats"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, "val", "cats"), got)
}

func TestReplaceTildeInDir(t *testing.T) {
	got, err := ReplaceTildeInDir("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	usr, err := user.Current()
	if err != nil {
		t.Skip("no current user")
	}
	got, err = ReplaceTildeInDir("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(usr.HomeDir, "data"), got)
}
