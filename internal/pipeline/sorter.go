package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/fsutil"
	"github.com/backmassage/dsprep/internal/logging"
	"github.com/backmassage/dsprep/internal/naming"
)

// RunSort moves every eligible image directly in cfg.SourceDir into
// <source>/<class>/ by filename prefix. Unrecognized names stay in place and
// are counted as skipped; files with other extensions are ignored.
//
// Moves are renames with no rollback: an error or interruption leaves the
// files processed so far in their class folders. An existing file at a
// destination stops the run with fsutil.ErrDestinationExists.
func RunSort(ctx context.Context, cfg *config.Config, log *logging.Logger) (*SortStats, error) {
	src := cfg.SourceDir
	files, err := Discover(src, cfg.ExtensionSet())
	if err != nil {
		return nil, err
	}

	stats := newSortStats(cfg.ClassNames())
	log.Info("Found %d image files in %s", len(files), src)

	if !cfg.DryRun {
		for _, class := range stats.Classes {
			if err := os.MkdirAll(filepath.Join(src, class), 0o755); err != nil {
				return stats, errors.Wrapf(err, "cannot create class folder %q", class)
			}
		}
	}

	bar := newProgress(cfg, len(files), "sorting")
	defer func() { _ = bar.Finish() }()

	for i, path := range files {
		if ctx.Err() != nil {
			return stats, errors.Wrapf(ErrInterrupted, "sorted %d of %d files", i, len(files))
		}
		_ = bar.Add(1)

		name := filepath.Base(path)
		rule, ok := naming.Classify(name, cfg.Classes)
		if !ok {
			stats.Skipped++
			log.Debug(cfg.Verbose, "Skip (unrecognized): %s", name)
			continue
		}

		dest := naming.OutputPath(src, rule.Name, name)
		if cfg.DryRun {
			if err := fsutil.EnsureNoClobber(dest); err != nil {
				return stats, err
			}
			log.Debug(cfg.Verbose, "[DRY] %s -> %s/", name, rule.Name)
			stats.Moved[rule.Name]++
			continue
		}

		n, err := fsutil.MoveFile(path, dest)
		if err != nil {
			return stats, err
		}
		stats.Moved[rule.Name]++
		stats.Bytes[rule.Name] += n
		log.Debug(cfg.Verbose, "%s -> %s/", name, rule.Name)
	}
	return stats, nil
}
