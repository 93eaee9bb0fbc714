// Package check provides dataset diagnostics (the check command): every
// eligible image in each class folder is fully decoded, unreadable files are
// reported and optionally quarantined, and class balance is summarized.
package check

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/display"
	"github.com/backmassage/dsprep/internal/fsutil"
	"github.com/backmassage/dsprep/internal/naming"
	"github.com/backmassage/dsprep/internal/planner"
	"github.com/backmassage/dsprep/internal/probe"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// imbalanceRatio is the largest/smallest class size above which a warning
// is logged.
const imbalanceRatio = 1.5

// ClassReport is the outcome for one class folder.
type ClassReport struct {
	Name        string
	Dir         string
	Missing     bool
	Images      int // Eligible files found.
	Unreadable  []string
	Quarantined int
	Bytes       int64
	Formats     map[string]int
}

// Readable returns the number of images that decoded.
func (c *ClassReport) Readable() int { return c.Images - len(c.Unreadable) }

// Report is the outcome of a whole check run.
type Report struct {
	Source   string
	Classes  []ClassReport
	Unsorted int // Top-level files in Source that match a class prefix.
}

// OK reports whether the dataset is ready to split: every class folder
// exists and has readable images, and every unreadable image was
// quarantined.
func (r *Report) OK() bool {
	for _, c := range r.Classes {
		if c.Missing || c.Readable() == 0 || len(c.Unreadable) > c.Quarantined {
			return false
		}
	}
	return true
}

// Table renders per-class counts and share of the dataset.
func (r *Report) Table() *display.Table {
	t := &display.Table{Headers: []string{"Class", "Images", "Share", "Unreadable", "Size"}}
	var total, bad int
	var bytes int64
	for _, c := range r.Classes {
		total += c.Readable()
	}
	for _, c := range r.Classes {
		if c.Missing {
			t.AddRow(c.Name, "missing", "-", "-", "-")
			continue
		}
		t.AddRow(c.Name,
			display.FormatCount(c.Images),
			display.FormatPercent(c.Readable(), total),
			display.FormatCount(len(c.Unreadable)),
			display.FormatBytes(c.Bytes))
		bad += len(c.Unreadable)
		bytes += c.Bytes
	}
	t.Footer = []string{"total", display.FormatCount(total + bad), "", display.FormatCount(bad), display.FormatBytes(bytes)}
	return t
}

// RunCheck decodes every eligible image under <source>/<class>/ and logs
// per-class findings. With cfg.QuarantineDir set (and not a dry run),
// unreadable images are moved into <quarantine>/<class>/ without
// overwriting. Only I/O failures and cancellation (planner.ErrInterrupted)
// return an error; dataset problems are recorded in the Report.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) (*Report, error) {
	log.Info("=== Dataset Check ===")
	src := cfg.SourceDir
	isDir, err := fsutil.IsDir(src)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, errors.Errorf("source directory %s does not exist", src)
	}
	if err := validateQuarantine(cfg); err != nil {
		return nil, err
	}

	exts := cfg.ExtensionSet()
	report := &Report{Source: src}

	loose, err := fsutil.ListFiles(src, exts)
	if err != nil {
		return nil, err
	}
	for _, f := range loose {
		if _, ok := naming.Classify(f, cfg.Classes); ok {
			report.Unsorted++
		}
	}
	if report.Unsorted > 0 {
		log.Warn("%d unsorted images in %s; run the sort command first", report.Unsorted, src)
	}

	for _, class := range cfg.ClassNames() {
		cr, err := checkClass(ctx, cfg, log, class, exts)
		if err != nil {
			return report, err
		}
		report.Classes = append(report.Classes, *cr)
	}

	logBalance(log, report)
	if report.OK() {
		log.Success("Dataset looks good")
	} else {
		log.Error("Dataset has problems; see above")
	}
	return report, nil
}

func checkClass(ctx context.Context, cfg *config.Config, log Logger, class string, exts map[string]bool) (*ClassReport, error) {
	cr := &ClassReport{Name: class, Dir: filepath.Join(cfg.SourceDir, class), Formats: map[string]int{}}
	isDir, err := fsutil.IsDir(cr.Dir)
	if err != nil {
		return nil, err
	}
	if !isDir {
		cr.Missing = true
		log.Error("%s: missing folder %s", class, cr.Dir)
		return cr, nil
	}

	files, err := fsutil.ListFiles(cr.Dir, exts)
	if err != nil {
		return nil, err
	}
	cr.Images = len(files)

	for i, path := range files {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(planner.ErrInterrupted, "%s: checked %d of %d images", class, i, len(files))
		}
		info, err := probe.Probe(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrapf(planner.ErrInterrupted, "%s: checked %d of %d images", class, i, len(files))
			}
			if !errors.Is(err, probe.ErrUnreadable) {
				return nil, err
			}
			cr.Unreadable = append(cr.Unreadable, path)
			log.Warn("%s: unreadable %s", class, filepath.Base(path))
			log.Debug(cfg.Verbose, "  %v", err)
			continue
		}
		cr.Bytes += info.Size
		cr.Formats[info.Format]++
		log.Debug(cfg.Verbose, "%s: %s %s %s", class, filepath.Base(path), info.Format, info.Resolution())
	}

	switch {
	case cr.Images == 0:
		log.Error("%s: no eligible images in %s", class, cr.Dir)
	case len(cr.Unreadable) == 0:
		log.Success("%s: %s images, all readable (%s)", class, display.FormatCount(cr.Images), formatSummary(cr.Formats))
	default:
		log.Warn("%s: %d of %s images unreadable", class, len(cr.Unreadable), display.FormatCount(cr.Images))
	}

	if cfg.QuarantineDir != "" && len(cr.Unreadable) > 0 {
		if err := quarantine(cfg, log, cr); err != nil {
			return nil, err
		}
	}
	return cr, nil
}

func quarantine(cfg *config.Config, log Logger, cr *ClassReport) error {
	dest := filepath.Join(cfg.QuarantineDir, cr.Name)
	if cfg.DryRun {
		log.Info("[DRY] Would quarantine %d files into %s", len(cr.Unreadable), dest)
		return nil
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create quarantine folder %q", dest)
	}
	for _, path := range cr.Unreadable {
		if _, err := fsutil.MoveFile(path, filepath.Join(dest, filepath.Base(path))); err != nil {
			return err
		}
		cr.Quarantined++
	}
	log.Info("%s: quarantined %d files into %s", cr.Name, cr.Quarantined, dest)
	return nil
}

// validateQuarantine rejects a quarantine folder inside a class folder,
// where quarantined files would be listed again on the next run.
func validateQuarantine(cfg *config.Config) error {
	if cfg.QuarantineDir == "" {
		return nil
	}
	q, err := fsutil.ResolvePath(cfg.QuarantineDir)
	if err != nil {
		return err
	}
	for _, class := range cfg.ClassNames() {
		dir, err := fsutil.ResolvePath(filepath.Join(cfg.SourceDir, class))
		if err != nil {
			return err
		}
		if q == dir || strings.HasPrefix(q, dir+string(filepath.Separator)) {
			return errors.Errorf("quarantine directory %s must not be inside class folder %s", cfg.QuarantineDir, dir)
		}
	}
	return nil
}

func logBalance(log Logger, r *Report) {
	minN, maxN := -1, 0
	var minName, maxName string
	for _, c := range r.Classes {
		n := c.Readable()
		if c.Missing || n == 0 {
			continue
		}
		if minN < 0 || n < minN {
			minN, minName = n, c.Name
		}
		if n > maxN {
			maxN, maxName = n, c.Name
		}
	}
	if minN <= 0 || minName == maxName {
		return
	}
	ratio := float64(maxN) / float64(minN)
	if ratio > imbalanceRatio {
		log.Warn("Class imbalance: %s has %.1fx the images of %s", maxName, ratio, minName)
	} else {
		log.Info("Class balance: largest/smallest = %.2f", ratio)
	}
}

// formatSummary renders format counts as "jpeg 10, png 2", sorted by name.
func formatSummary(formats map[string]int) string {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + display.FormatCount(formats[k])
	}
	return strings.Join(parts, ", ")
}
