package planner

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/fsutil"
	"github.com/backmassage/dsprep/internal/naming"
	"github.com/backmassage/dsprep/internal/partition"
)

// BuildPlan produces the complete split plan from cfg and a listing of the
// source tree. It reads directories but never writes.
//
// Flow:
//  1. Validate proportions and resolve every tree to an absolute path
//  2. Reject overlapping trees (config.ValidatePaths)
//  3. List each class folder in configured order; missing or empty is fatal
//  4. Partition every class with one random source seeded once
//  5. Map each file to <tree>/<class>/<name> and guard against duplicates
func BuildPlan(cfg *config.Config) (*Plan, error) {
	// --- 1. Proportions and paths ---
	if err := cfg.Split.Validate(); err != nil {
		return nil, err
	}
	paths, err := resolvePaths(cfg)
	if err != nil {
		return nil, err
	}

	// --- 2. Layout sanity ---
	if err := cfg.ValidatePaths(paths); err != nil {
		return nil, err
	}

	plan := &Plan{
		Mode:     cfg.Mode,
		Paths:    paths,
		TrainOut: paths.Train,
	}
	if cfg.Swaps(paths) {
		plan.Swap = true
		plan.TrainOut = paths.Staging
	}

	isDir, err := fsutil.IsDir(paths.Source)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, errors.Wrapf(ErrMissingInput, "%s", paths.Source)
	}

	// --- 3 + 4. List and partition, one class at a time ---
	exts := cfg.ExtensionSet()
	rng := partition.NewRand(cfg.Seed)
	for _, class := range cfg.ClassNames() {
		dir := filepath.Join(paths.Source, class)
		isDir, err := fsutil.IsDir(dir)
		if err != nil {
			return nil, err
		}
		if !isDir {
			return nil, errors.Wrapf(ErrMissingInput, "class folder %s", dir)
		}
		files, err := fsutil.ListFiles(dir, exts)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, errors.Wrapf(ErrEmptyClass, "%s", dir)
		}
		plan.Classes = append(plan.Classes, ClassPlan{
			Name:  class,
			Dir:   dir,
			Split: partition.Compute(files, cfg.Split, rng),
		})
	}

	// --- 5. Destinations ---
	guard := naming.NewCollisionGuard()
	for _, cp := range plan.Classes {
		for _, seg := range partition.Segments {
			plan.DestDirs = append(plan.DestDirs, filepath.Join(plan.Tree(seg), cp.Name))
			for _, src := range cp.Split.Files(seg) {
				t := Transfer{
					Class:   cp.Name,
					Segment: seg,
					Source:  src,
					Dest:    naming.OutputPath(plan.Tree(seg), cp.Name, src),
					Action:  transferAction(cfg.Mode),
				}
				if cfg.Mode == config.ModeMove && t.Dest == t.Source {
					t.Action = ActionKeep
				}
				if err := guard.Claim(t.Source, t.Dest); err != nil {
					return nil, err
				}
				plan.Transfers = append(plan.Transfers, t)
			}
		}
	}
	return plan, nil
}

func transferAction(mode config.TransferMode) Action {
	if mode == config.ModeMove {
		return ActionMove
	}
	return ActionCopy
}

// resolvePaths turns the configured trees into absolute, symlink-resolved
// paths so that equality checks (train == source) mean the same directory.
func resolvePaths(cfg *config.Config) (config.SplitPaths, error) {
	var p config.SplitPaths
	fields := []struct {
		dst *string
		src string
	}{
		{&p.Source, cfg.SourceDir},
		{&p.Train, cfg.TrainDir},
		{&p.Val, cfg.ValDir},
		{&p.Test, cfg.TestDir},
		{&p.Staging, cfg.StagingDir},
		{&p.Backup, cfg.BackupDir},
	}
	for _, f := range fields {
		if f.src == "" {
			return p, errors.New("split paths not resolved; call Config.ResolvePaths first")
		}
		abs, err := fsutil.ResolvePath(f.src)
		if err != nil {
			return p, err
		}
		*f.dst = abs
	}
	return p, nil
}
