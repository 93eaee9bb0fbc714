package planner

import (
	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/partition"
)

// Action describes what happens to a single file.
type Action int

const (
	ActionCopy Action = iota
	ActionMove
	ActionKeep // Already at its destination (move mode, in-place train).
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionMove:
		return "move"
	case ActionKeep:
		return "keep"
	}
	return "unknown"
}

// Transfer is one planned file operation.
type Transfer struct {
	Class   string
	Segment partition.Segment
	Source  string
	Dest    string
	Action  Action
}

// ClassPlan is the partition of one class folder.
type ClassPlan struct {
	Name  string
	Dir   string
	Split partition.Split
}

// Plan holds every decision for one splitter run. It is produced by
// BuildPlan and executed by the pipeline.
type Plan struct {
	Mode  config.TransferMode
	Paths config.SplitPaths // Resolved, absolute.

	Classes   []ClassPlan
	Transfers []Transfer // Class order, then train, val, test.

	// TrainOut is where train files are written: Paths.Staging when Swap is
	// set, Paths.Train otherwise.
	TrainOut string

	// Swap is set in copy mode when train output is the source: after all
	// transfers, Paths.Train is renamed to Paths.Backup and Paths.Staging to
	// Paths.Train.
	Swap bool

	// DestDirs are the <tree>/<class> directories to create before
	// transferring, one per tree and class.
	DestDirs []string
}

// Tree returns the output root for seg.
func (p *Plan) Tree(seg partition.Segment) string {
	switch seg {
	case partition.Train:
		return p.TrainOut
	case partition.Val:
		return p.Paths.Val
	default:
		return p.Paths.Test
	}
}

// Pending returns the transfers that touch the filesystem (everything but
// ActionKeep).
func (p *Plan) Pending() []Transfer {
	out := make([]Transfer, 0, len(p.Transfers))
	for _, t := range p.Transfers {
		if t.Action != ActionKeep {
			out = append(out, t)
		}
	}
	return out
}

// Total returns the number of files across all classes.
func (p *Plan) Total() int { return len(p.Transfers) }
