package pipeline

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/display"
	"github.com/backmassage/dsprep/internal/fsutil"
	"github.com/backmassage/dsprep/internal/logging"
	"github.com/backmassage/dsprep/internal/planner"
)

// RunSplit partitions every class folder under cfg.SourceDir into the
// train, val and test trees.
//
// Flow:
//  1. Build the full plan (listing, shuffle, destinations); nothing written
//  2. Preflight every destination and, for the swap, the backup path
//  3. Create <tree>/<class> directories
//  4. Transfer file by file, re-checking each destination
//  5. Copy mode with train == source: rename train to the backup path,
//     then the staging tree to train
//
// The two renames in step 5 are not atomic together. A crash between them
// leaves the original at the backup path, the new train split at the
// staging path, and nothing at the train path.
func RunSplit(ctx context.Context, cfg *config.Config, log *logging.Logger) (*SplitStats, error) {
	// --- 1. Plan ---
	plan, err := planner.BuildPlan(cfg)
	if err != nil {
		return nil, err
	}
	logPlan(cfg, log, plan)

	// --- 2. Preflight ---
	if err := plan.Preflight(); err != nil {
		return nil, err
	}

	stats := newSplitStats(plan)
	pending := plan.Pending()
	for _, t := range plan.Transfers {
		if t.Action == planner.ActionKeep {
			stats.record(t, 0)
		}
	}

	if cfg.DryRun {
		for _, t := range pending {
			log.Debug(cfg.Verbose, "[DRY] %s %s -> %s", t.Action, t.Source, t.Dest)
		}
		log.Warn("[DRY] Would %s %d files", cfg.Mode, len(pending))
		if plan.Swap {
			log.Warn("[DRY] Would rename %s -> %s and %s -> %s",
				plan.Paths.Train, plan.Paths.Backup, plan.Paths.Staging, plan.Paths.Train)
		}
		return stats, nil
	}

	// --- 3. Directories ---
	for _, dir := range plan.DestDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, errors.Wrapf(err, "cannot create %q", dir)
		}
	}

	// --- 4. Transfers ---
	desc := "copying"
	if cfg.Mode == config.ModeMove {
		desc = "moving"
	}
	bar := newProgress(cfg, len(pending), desc)
	for i, t := range pending {
		if ctx.Err() != nil {
			_ = bar.Finish()
			return stats, errors.Wrapf(ErrInterrupted, "%d of %d files transferred", i, len(pending))
		}
		n, err := transfer(t)
		if err != nil {
			_ = bar.Finish()
			return stats, errors.WithMessagef(err, "%s/%s", t.Class, t.Segment)
		}
		stats.record(t, n)
		log.Debug(cfg.Verbose, "%s/%s: %s", t.Class, t.Segment, t.Dest)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	// --- 5. Swap ---
	if plan.Swap {
		if ctx.Err() != nil {
			return stats, errors.Wrapf(ErrInterrupted, "before replacing %s; original is untouched, new split is in %s",
				plan.Paths.Train, plan.Paths.Staging)
		}
		if err := swapTrain(plan, log); err != nil {
			return stats, err
		}
		stats.Swapped = true
	}

	tot := stats.Totals()
	log.Success("Split %s files (%s transferred, %s)",
		display.FormatCount(tot.Sizes.Total()), display.FormatCount(tot.Transferred), display.FormatBytes(tot.Bytes))
	return stats, nil
}

func transfer(t planner.Transfer) (int64, error) {
	switch t.Action {
	case planner.ActionCopy:
		return fsutil.CopyFile(t.Source, t.Dest)
	case planner.ActionMove:
		return fsutil.MoveFile(t.Source, t.Dest)
	}
	return 0, nil
}

// swapTrain moves the original train tree to the backup path and promotes
// the staging tree in its place.
func swapTrain(plan *planner.Plan, log *logging.Logger) error {
	p := plan.Paths
	if err := fsutil.RenameDir(p.Train, p.Backup); err != nil {
		if errors.Is(err, fsutil.ErrDestinationExists) {
			return errors.Wrapf(ErrBackupExists, "%s", p.Backup)
		}
		return err
	}
	if err := fsutil.RenameDir(p.Staging, p.Train); err != nil {
		log.Error("Original train is at %s; new train split is at %s", p.Backup, p.Staging)
		return errors.WithMessage(err, "promoting the new train split")
	}
	log.Info("Original train directory saved to %s", p.Backup)
	return nil
}

func logPlan(cfg *config.Config, log *logging.Logger, plan *planner.Plan) {
	log.Info("Source: %s", plan.Paths.Source)
	log.Info("Split: %s (seed %d, mode %s)", cfg.Split, cfg.Seed, cfg.Mode)
	log.Info("Train: %s", plan.TrainOut)
	log.Info("Val:   %s", plan.Paths.Val)
	log.Info("Test:  %s", plan.Paths.Test)
	for _, cp := range plan.Classes {
		sz := cp.Split.Sizes()
		log.Info("  %s: %s files -> %d/%d/%d", cp.Name, display.FormatCount(sz.Total()), sz.Train, sz.Val, sz.Test)
		if (sz.Train == 0 && cfg.Split.Train > 0) || (sz.Val == 0 && cfg.Split.Val > 0) || (sz.Test == 0 && cfg.Split.Test > 0) {
			log.Warn("  %s has an empty segment (%d/%d/%d)", cp.Name, sz.Train, sz.Val, sz.Test)
		}
	}
	if plan.Swap {
		log.Info("Train is written to %s and swapped in at the end", plan.Paths.Staging)
	}
}
