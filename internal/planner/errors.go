package planner

import "github.com/pkg/errors"

var (
	// ErrMissingInput is returned when the source root or a class folder
	// does not exist.
	ErrMissingInput = errors.New("missing input directory")

	// ErrEmptyClass is returned when a class folder has no eligible images.
	ErrEmptyClass = errors.New("no eligible images")

	// ErrBackupExists is returned when the copy-mode backup path is taken.
	ErrBackupExists = errors.New("backup directory already exists; remove it first")

	// ErrInterrupted is returned when the context is cancelled between
	// files. Work already done is not rolled back.
	ErrInterrupted = errors.New("interrupted")
)
