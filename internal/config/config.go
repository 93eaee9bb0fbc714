// Package config holds runtime configuration: defaults, CLI flag parsing,
// YAML file loading, and validation. Defaults match the original dataset
// preparation scripts (dogs-vs-cats layout, 80/10/10 split, seed 1337).
package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// --- Enum types for validated string fields ---

// TransferMode selects how split files reach their destination.
type TransferMode string

const (
	ModeCopy TransferMode = "copy" // Duplicate files, preserving metadata (default).
	ModeMove TransferMode = "move" // Relocate files by rename.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// proportionTolerance is how far the split fractions may drift from 1.0.
const proportionTolerance = 1e-9

// ErrProportions is returned when the split fractions are negative, not
// finite, or do not sum to 1.0.
var ErrProportions = errors.New("split proportions must be finite, non-negative and sum to 1.0")

// Proportions are the train/val/test fractions applied to every class.
type Proportions struct {
	Train float64 `yaml:"train"`
	Val   float64 `yaml:"val"`
	Test  float64 `yaml:"test"`
}

// Sum returns Train+Val+Test.
func (p Proportions) Sum() float64 { return p.Train + p.Val + p.Test }

// Validate rejects NaN, infinite and negative fractions, and sums outside
// 1.0 ± 1e-9.
func (p Proportions) Validate() error {
	for _, v := range []float64{p.Train, p.Val, p.Test} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrProportions, "got %s", p)
		}
	}
	if p.Train < 0 || p.Val < 0 || p.Test < 0 {
		return errors.Wrapf(ErrProportions, "got %s", p)
	}
	if math.Abs(p.Sum()-1.0) > proportionTolerance {
		return errors.Wrapf(ErrProportions, "got %s sum=%g", p, p.Sum())
	}
	return nil
}

func (p Proportions) String() string {
	return fmt.Sprintf("%g,%g,%g", p.Train, p.Val, p.Test)
}

// ClassRule names a class folder and the filename prefix that routes loose
// files into it (e.g. "cats" <- "cat.").
type ClassRule struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

// ParseClassRule parses "name=prefix".
func ParseClassRule(s string) (ClassRule, error) {
	name, prefix, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || prefix == "" {
		return ClassRule{}, errors.Errorf("invalid class %q (use name=prefix, e.g. cats=cat.)", s)
	}
	return ClassRule{Name: name, Prefix: prefix}, nil
}

func (r ClassRule) String() string { return r.Name + "=" + r.Prefix }

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then by explicitly set CLI flags, and
// finally passed by pointer to the sorter, splitter, and checker.
type Config struct {
	// Paths. Empty split paths are derived from Root by [Config.ResolvePaths].
	Root          string `yaml:"root"`
	SourceDir     string `yaml:"source"`  // Default: <root>/train. Flat dir for sort, class root for split.
	TrainDir      string `yaml:"train"`   // Default: <root>/train.
	ValDir        string `yaml:"val"`     // Default: <root>/val.
	TestDir       string `yaml:"test"`    // Default: <root>/test.
	StagingDir    string `yaml:"staging"` // Default: <root>/train_new. Copy-mode train staging.
	BackupDir     string `yaml:"backup"`  // Default: <root>/train_backup. Copy-mode original train.
	QuarantineDir string `yaml:"quarantine"`

	// Split settings.
	Split Proportions  `yaml:"split"`
	Seed  int64        `yaml:"seed"`
	Mode  TransferMode `yaml:"mode"`

	// Dataset shape.
	Extensions []string    `yaml:"extensions"` // Lowercase, with leading dot.
	Classes    []ClassRule `yaml:"classes"`

	// Behavior and display.
	DryRun       bool      `yaml:"dry_run"`
	Verbose      bool      `yaml:"verbose"`
	ShowProgress bool      `yaml:"progress"` // Default: true. Cleared by --no-progress.
	ColorMode    ColorMode `yaml:"color"`
	LogFile      string    `yaml:"log_file"`
}

// DefaultConfig returns a Config matching the original scripts' constants.
func DefaultConfig() Config {
	return Config{
		Root:       ".",
		Split:      Proportions{Train: 0.8, Val: 0.1, Test: 0.1},
		Seed:       1337,
		Mode:       ModeCopy,
		Extensions: []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"},
		Classes: []ClassRule{
			{Name: "cats", Prefix: "cat."},
			{Name: "dogs", Prefix: "dog."},
		},
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// NormalizeExt lowercases ext and ensures a leading dot ("JPG" -> ".jpg").
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ResolvePaths fills every empty path from Root using the original layout.
func (c *Config) ResolvePaths() {
	c.Root = NormalizeDirArg(c.Root)
	defaults := []struct {
		p    *string
		name string
	}{
		{&c.SourceDir, "train"},
		{&c.TrainDir, "train"},
		{&c.ValDir, "val"},
		{&c.TestDir, "test"},
		{&c.StagingDir, "train_new"},
		{&c.BackupDir, "train_backup"},
	}
	for _, d := range defaults {
		if *d.p == "" {
			*d.p = filepath.Join(c.Root, d.name)
		} else {
			*d.p = NormalizeDirArg(*d.p)
		}
	}
	if c.QuarantineDir != "" {
		c.QuarantineDir = NormalizeDirArg(c.QuarantineDir)
	}
}

// ExtensionSet returns the allowed extensions as a lookup set.
func (c *Config) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.Extensions))
	for _, e := range c.Extensions {
		set[NormalizeExt(e)] = true
	}
	return set
}

// ClassNames returns class folder names in configured order.
func (c *Config) ClassNames() []string {
	names := make([]string, len(c.Classes))
	for i, r := range c.Classes {
		names[i] = r.Name
	}
	return names
}

// Validate checks enum fields, proportions, the extension set, and the class
// table. It performs no I/O, so a bad config never mutates the filesystem.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeCopy, ModeMove:
		// valid
	default:
		return errors.Errorf("invalid mode %q (use 'copy' or 'move')", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if err := c.Split.Validate(); err != nil {
		return err
	}

	if len(c.Extensions) == 0 {
		return errors.New("at least one allowed extension is required")
	}
	for i, e := range c.Extensions {
		n := NormalizeExt(e)
		if n == "" || n == "." {
			return errors.Errorf("invalid extension %q", e)
		}
		c.Extensions[i] = n
	}

	if len(c.Classes) == 0 {
		return errors.New("at least one class is required")
	}
	seen := make(map[string]bool, len(c.Classes))
	for _, r := range c.Classes {
		if r.Name == "" || r.Prefix == "" {
			return errors.Errorf("class %q needs both a name and a prefix", r.String())
		}
		if r.Name == "." || r.Name == ".." || strings.ContainsRune(r.Name, filepath.Separator) || strings.Contains(r.Name, "/") {
			return errors.Errorf("class name %q must be a single directory name", r.Name)
		}
		if seen[r.Name] {
			return errors.Errorf("duplicate class %q", r.Name)
		}
		seen[r.Name] = true
	}

	if c.Root == "" && c.SourceDir == "" {
		return errors.New("need a dataset root or source directory")
	}
	return nil
}

// SplitPaths are the absolute, symlink-resolved locations the splitter reads
// and writes. Paths that don't exist yet are resolved through their nearest
// existing parent.
type SplitPaths struct {
	Source, Train, Val, Test, Staging, Backup string
}

// Swaps reports whether a split over p stages the new train tree and then
// swaps it in: copy mode with the train output at the source directory.
func (c *Config) Swaps(p SplitPaths) bool {
	return c.Mode == ModeCopy && p.Train == p.Source
}

// ValidatePaths ensures the split trees don't overlap in ways that would make
// the run destroy its own output. Train may equal Source (the in-place
// layout); every other tree must be distinct and must not live inside
// Source, because the swap renames Source to Backup and move mode empties
// it. Staging and Backup are only checked when the run swaps; otherwise
// they are never created.
func (c *Config) ValidatePaths(p SplitPaths) error {
	outputs := []struct {
		label, path string
	}{
		{"val", p.Val},
		{"test", p.Test},
	}
	if c.Swaps(p) {
		outputs = append(outputs,
			struct{ label, path string }{"staging", p.Staging},
			struct{ label, path string }{"backup", p.Backup},
		)
	}
	for _, o := range outputs {
		if isWithin(p.Source, o.path) {
			return errors.Errorf("%s directory %s must not be inside the source directory %s", o.label, o.path, p.Source)
		}
	}
	if p.Train != p.Source && isWithin(p.Source, p.Train) {
		return errors.Errorf("train directory %s must not be inside the source directory %s", p.Train, p.Source)
	}

	all := append([]struct{ label, path string }{{"train", p.Train}}, outputs...)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if all[i].path == all[j].path {
				return errors.Errorf("%s and %s directories must differ (both %s)", all[i].label, all[j].label, all[i].path)
			}
		}
	}
	return nil
}

// isWithin reports whether child equals parent or is nested below it.
func isWithin(parent, child string) bool {
	sep := string(filepath.Separator)
	return child == parent || strings.HasPrefix(child+sep, parent+sep)
}
