package pipeline

import "github.com/backmassage/dsprep/internal/planner"

// Sentinel errors returned by RunSort and RunSplit, wrapped with context.
// Match with errors.Is. Destination collisions surface as
// fsutil.ErrDestinationExists and bad proportions as config.ErrProportions.
var (
	ErrMissingInput = planner.ErrMissingInput
	ErrEmptyClass   = planner.ErrEmptyClass
	ErrBackupExists = planner.ErrBackupExists
	ErrInterrupted  = planner.ErrInterrupted
)
