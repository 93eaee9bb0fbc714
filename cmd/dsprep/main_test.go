package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatDataset writes n cat and n dog files plus one unrecognized file
// directly into <root>/train.
func flatDataset(t *testing.T, n int) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "train")
	must.M(os.MkdirAll(src, 0o755))
	for i := 0; i < n; i++ {
		must.M(os.WriteFile(filepath.Join(src, fmt.Sprintf("cat.%d.jpg", i)), []byte("c"), 0o644))
		must.M(os.WriteFile(filepath.Join(src, fmt.Sprintf("dog.%d.jpg", i)), []byte("d"), 0o644))
	}
	must.M(os.WriteFile(filepath.Join(src, "frog.1.jpg"), []byte("f"), 0o644))
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func count(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestSortThenSplit(t *testing.T) {
	root := flatDataset(t, 10)

	out, err := execute(t, "sort", root, "--no-color", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "(skipped)")
	assert.Equal(t, 10, count(t, filepath.Join(root, "train", "cats")))
	assert.Equal(t, 10, count(t, filepath.Join(root, "train", "dogs")))

	out, err = execute(t, "split", root, "--no-color", "--no-progress", "--mode", "move")
	require.NoError(t, err)
	assert.Contains(t, out, "total")
	assert.Equal(t, 8, count(t, filepath.Join(root, "train", "cats")))
	assert.Equal(t, 1, count(t, filepath.Join(root, "val", "dogs")))
	assert.Equal(t, 1, count(t, filepath.Join(root, "test", "dogs")))
}

func TestSplit_CopyModeKeepsBackup(t *testing.T) {
	root := flatDataset(t, 10)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	_, err = execute(t, "split", "--root", root, "--no-color", "--split", "80%,10%,10%")
	require.NoError(t, err)
	assert.Equal(t, 8, count(t, filepath.Join(root, "train", "cats")))
	assert.Equal(t, 10, count(t, filepath.Join(root, "train_backup", "cats")))

	// A second run finds the backup and refuses to touch anything.
	_, err = execute(t, "split", "--root", root, "--no-color")
	require.Error(t, err)
	assert.Equal(t, 8, count(t, filepath.Join(root, "train", "cats")))
}

func TestSplit_BadProportionsRejected(t *testing.T) {
	root := flatDataset(t, 10)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	for _, split := range []string{"0.8,0.1,0.11", "NaN,0,0", "Inf,0,0"} {
		_, err = execute(t, "split", root, "--no-color", "--split", split)
		require.Error(t, err, "--split %s", split)
		assert.Contains(t, err.Error(), "sum to 1.0")
		_, statErr := os.Stat(filepath.Join(root, "val"))
		assert.True(t, os.IsNotExist(statErr))
		assert.Equal(t, 10, count(t, filepath.Join(root, "train", "cats")), "source untouched")
	}
}

func TestSplit_ConfigFileAndFlagOverride(t *testing.T) {
	root := flatDataset(t, 10)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	cfgPath := filepath.Join(t.TempDir(), "dsprep.yaml")
	must.M(os.WriteFile(cfgPath, []byte(fmt.Sprintf(
		"root: %s\nmode: copy\nsplit: {train: 0.5, val: 0.5, test: 0}\n", root)), 0o644))

	// The file asks for copy; the flag wins.
	_, err = execute(t, "split", "--config", cfgPath, "--mode", "move", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, 5, count(t, filepath.Join(root, "train", "cats")))
	assert.Equal(t, 5, count(t, filepath.Join(root, "val", "cats")))
	assert.Equal(t, 0, count(t, filepath.Join(root, "test", "cats")))
	_, statErr := os.Stat(filepath.Join(root, "train_backup"))
	assert.True(t, os.IsNotExist(statErr), "move mode makes no backup")
}

func TestSplit_DryRun(t *testing.T) {
	root := flatDataset(t, 10)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	_, err = execute(t, "split", root, "--no-color", "-d")
	require.NoError(t, err)
	assert.Equal(t, 3, count(t, filepath.Join(root, "train")), "cats, dogs, frog.1.jpg")
	_, statErr := os.Stat(filepath.Join(root, "val"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck_FailsOnUnreadable(t *testing.T) {
	root := flatDataset(t, 2)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	// The fixtures are not real JPEGs.
	_, err = execute(t, "check", root, "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset check failed")
	assert.Equal(t, 2, count(t, filepath.Join(root, "train", "cats")), "nothing moved without --quarantine")

	// Quarantining empties the class folders, which still fails the check.
	_, err = execute(t, "check", root, "--no-color", "--quarantine", filepath.Join(root, "invalid"))
	require.Error(t, err)
	assert.Equal(t, 2, count(t, filepath.Join(root, "invalid", "cats")))
	assert.Equal(t, 0, count(t, filepath.Join(root, "train", "cats")))
}

func TestRun_ExitCodes(t *testing.T) {
	assert.Equal(t, 0, run(context.Background(), []string{"version"}))
	assert.Equal(t, 1, run(context.Background(), []string{"split", filepath.Join(t.TempDir(), "nope"), "--no-color"}))
	assert.Equal(t, 1, run(context.Background(), []string{"split", "--mode", "teleport"}))
}

func TestRun_InterruptedExitCode(t *testing.T) {
	root := flatDataset(t, 3)
	_, err := execute(t, "sort", root, "--no-color")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range []string{"check", "split"} {
		assert.Equal(t, 130, run(ctx, []string{name, root, "--no-color", "--no-progress"}), name)
	}
	assert.Equal(t, 3, count(t, filepath.Join(root, "train", "cats")), "nothing moved")
	_, statErr := os.Stat(filepath.Join(root, "train_backup"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dsprep "+version)
}
