package planner

import (
	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/fsutil"
)

// Preflight checks the plan against the filesystem before the first
// mutation: no pending destination may exist, and in swap mode the backup
// path must be free. The checks are not atomic with the transfers that
// follow, so the transfer step repeats the per-file check.
func (p *Plan) Preflight() error {
	for _, t := range p.Transfers {
		if t.Action == ActionKeep {
			continue
		}
		if err := fsutil.EnsureNoClobber(t.Dest); err != nil {
			return errors.WithMessagef(err, "%s/%s", t.Class, t.Segment)
		}
	}
	if p.Swap {
		exists, err := fsutil.FileExists(p.Paths.Backup)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrBackupExists, "%s", p.Paths.Backup)
		}
	}
	return nil
}
