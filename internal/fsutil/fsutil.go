// Package fsutil contains utilities for working with the file system:
// existence checks, directory listing, and transfers that refuse to
// overwrite.
package fsutil

import (
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// ErrDestinationExists is returned when a transfer target is already present.
var ErrDestinationExists = errors.New("destination already exists")

// FileExists returns whether the file or directory exists or an error if
// something went wrong in the filesystem. Symlinks are not followed.
func FileExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to FileExists(%q)", path)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %q", path)
	}
	return fi.IsDir(), nil
}

// ReplaceTildeInDir by the user's home directory. Returns dir if it doesn't start with "~".
//
// It returns an error if `dir` has an unknown user (e.g: `~unknown/...`).
func ReplaceTildeInDir(dir string) (string, error) {
	if len(dir) == 0 || dir[0] != '~' {
		return dir, nil
	}
	var userName string
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		sepIdx := strings.IndexRune(dir, '/')
		if sepIdx == -1 {
			userName = dir[1:]
		} else {
			userName = dir[1:sepIdx]
		}
	}
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to lookup home directory for user in path %q", dir)
	}
	return filepath.Join(usr.HomeDir, dir[1+len(userName):]), nil
}

// ResolvePath returns the absolute, symlink-resolved form of path. When path
// (or a trailing part of it) doesn't exist yet, the nearest existing parent
// is resolved and the missing elements are re-appended, so that planned
// output directories compare correctly against existing ones.
func ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot resolve %q", path)
	}
	var missing []string
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "cannot resolve %q", path)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		missing = append(missing, filepath.Base(cur))
		cur = parent
	}
}

// ListFiles returns the regular files directly inside dir (no recursion)
// whose lowercase extension is in exts, sorted by name. Directory iteration
// order is not stable across platforms, so the sort makes listings canonical.
func ListFiles(dir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list %q", dir)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !exts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// EnsureNoClobber returns ErrDestinationExists (wrapped with the path) when
// dst is already present.
func EnsureNoClobber(dst string) error {
	exists, err := FileExists(dst)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrDestinationExists, "%s", dst)
	}
	return nil
}

// CopyFile copies src to dst, preserving permission bits and modification
// time. dst is created exclusively, so an existing file is never replaced.
// It returns the number of bytes copied.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot open %q", src)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "cannot stat %q", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, errors.Wrapf(ErrDestinationExists, "%s", dst)
		}
		return 0, errors.Wrapf(err, "cannot create %q", dst)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return 0, errors.Wrapf(err, "copying %q to %q", src, dst)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, errors.Wrapf(err, "failed closing %q", dst)
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return n, errors.Wrapf(err, "cannot set mode on %q", dst)
	}
	// Zero atime leaves it untouched; only mtime is carried over.
	if err := os.Chtimes(dst, time.Time{}, fi.ModTime()); err != nil {
		return n, errors.Wrapf(err, "cannot set times on %q", dst)
	}
	return n, nil
}

// MoveFile renames src to dst, refusing to replace an existing dst. When the
// two paths are on different devices it falls back to CopyFile followed by
// removing src. It returns the size of the moved file.
//
// The existence check and the rename are separate calls; a concurrent
// writer can still race between them.
func MoveFile(src, dst string) (int64, error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot stat %q", src)
	}
	if err := EnsureNoClobber(dst); err != nil {
		return 0, err
	}
	err = os.Rename(src, dst)
	if err == nil {
		return fi.Size(), nil
	}
	if !isCrossDevice(err) {
		return 0, errors.Wrapf(err, "cannot move %q to %q", src, dst)
	}
	n, err := CopyFile(src, dst)
	if err != nil {
		return 0, err
	}
	if err := os.Remove(src); err != nil {
		return n, errors.Wrapf(err, "copied %q to %q but cannot remove the source", src, dst)
	}
	return n, nil
}

// RenameDir renames a directory, refusing to replace an existing target.
func RenameDir(src, dst string) error {
	if err := EnsureNoClobber(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "cannot rename %q to %q", src, dst)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return false
}
