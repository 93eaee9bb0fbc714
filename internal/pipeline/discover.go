package pipeline

import (
	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/fsutil"
)

// Discover returns the regular files directly in dir whose lowercase
// extension is in exts, sorted lexicographically for deterministic
// processing order. Subdirectories are not descended into. A missing dir
// is ErrMissingInput.
func Discover(dir string, exts map[string]bool) ([]string, error) {
	isDir, err := fsutil.IsDir(dir)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, errors.Wrapf(ErrMissingInput, "%s", dir)
	}
	return fsutil.ListFiles(dir, exts)
}
