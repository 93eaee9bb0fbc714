package config

// This file implements CLI flag registration for the cobra commands.
// Flags bind to a Flags value rather than to Config so that values loaded
// from a config file survive; only flags the user actually set are copied
// onto Config by Apply (negated flags such as --no-progress included).

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Flags holds raw flag values between parsing and [Flags.Apply].
type Flags struct {
	ConfigFile string

	root, source        string
	train, val, test    string
	staging, backup     string
	quarantine          string
	split               Proportions
	seed                int64
	mode                TransferMode
	exts                []string
	classes             []string
	dryRun, verbose     bool
	forceColor, noColor bool
	noProgress          bool
	logFile             string
}

// NewFlags returns Flags whose defaults mirror cfg, so --help shows the
// effective defaults.
func NewFlags(cfg Config) *Flags {
	return &Flags{
		split: cfg.Split,
		seed:  cfg.Seed,
		mode:  cfg.Mode,
		exts:  append([]string(nil), cfg.Extensions...),
	}
}

// RegisterCommon registers flags shared by every command: paths, dataset
// shape, display, and logging.
func (f *Flags) RegisterCommon(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file (flags override it)")
	fs.StringVar(&f.root, "root", "", "Dataset root (default: .)")
	fs.StringVar(&f.source, "source", "", "Source directory (default: <root>/train)")
	fs.StringSliceVar(&f.exts, "ext", f.exts, "Allowed image extensions")
	fs.StringArrayVar(&f.classes, "class", nil, "Class folder and filename prefix as name=prefix (repeatable; default: cats=cat., dogs=dog.)")
	fs.BoolVarP(&f.dryRun, "dry-run", "d", false, "Preview only; do not move or copy files")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable the transfer progress bar")
	fs.StringVarP(&f.logFile, "log", "l", "", "Append JSON logs to file")
}

// RegisterSplit registers splitter-only flags.
func (f *Flags) RegisterSplit(fs *pflag.FlagSet) {
	fs.Var(&proportionsValue{&f.split}, "split", "Train,val,test fractions summing to 1.0")
	fs.Int64Var(&f.seed, "seed", f.seed, "Shuffle seed")
	fs.Var(&modeValue{&f.mode}, "mode", "Transfer mode: copy | move")
	fs.StringVar(&f.train, "train", "", "Train output directory (default: <root>/train)")
	fs.StringVar(&f.val, "val", "", "Validation output directory (default: <root>/val)")
	fs.StringVar(&f.test, "test", "", "Test output directory (default: <root>/test)")
	fs.StringVar(&f.staging, "staging", "", "Copy-mode train staging directory (default: <root>/train_new)")
	fs.StringVar(&f.backup, "backup", "", "Copy-mode backup of the original train directory (default: <root>/train_backup)")
}

// RegisterCheck registers check-only flags.
func (f *Flags) RegisterCheck(fs *pflag.FlagSet) {
	fs.StringVar(&f.quarantine, "quarantine", "", "Move unreadable images into <dir>/<class>/")
}

// Apply copies every flag that was set on fs onto cfg. Flags that were not
// registered on fs (another command's flags) are ignored.
func (f *Flags) Apply(cfg *Config, fs *pflag.FlagSet) error {
	set := func(name string) bool { return fs.Changed(name) }

	if set("root") {
		cfg.Root = NormalizeDirArg(f.root)
	}
	strs := []struct {
		name string
		src  string
		dst  *string
	}{
		{"source", f.source, &cfg.SourceDir},
		{"train", f.train, &cfg.TrainDir},
		{"val", f.val, &cfg.ValDir},
		{"test", f.test, &cfg.TestDir},
		{"staging", f.staging, &cfg.StagingDir},
		{"backup", f.backup, &cfg.BackupDir},
		{"quarantine", f.quarantine, &cfg.QuarantineDir},
		{"log", f.logFile, &cfg.LogFile},
	}
	for _, s := range strs {
		if set(s.name) {
			*s.dst = s.src
		}
	}

	if set("split") {
		cfg.Split = f.split
	}
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("mode") {
		cfg.Mode = f.mode
	}
	if set("ext") {
		cfg.Extensions = nil
		for _, e := range f.exts {
			cfg.Extensions = append(cfg.Extensions, NormalizeExt(e))
		}
	}
	if set("class") {
		cfg.Classes = nil
		for _, raw := range f.classes {
			r, err := ParseClassRule(raw)
			if err != nil {
				return err
			}
			cfg.Classes = append(cfg.Classes, r)
		}
	}
	if set("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if set("verbose") {
		cfg.Verbose = f.verbose
	}
	if f.noProgress {
		cfg.ShowProgress = false
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
	return nil
}

// ParseProportions parses "train,val,test" fractions, e.g. "0.8,0.1,0.1".
// Values ending in "%" are read as percentages. The sum is not checked here;
// see [Proportions.Validate].
func ParseProportions(s string) (Proportions, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Proportions{}, errors.Errorf("invalid split %q (use train,val,test e.g. 0.8,0.1,0.1)", s)
	}
	var vals [3]float64
	for i, part := range parts {
		part = strings.TrimSpace(part)
		scale := 1.0
		if strings.HasSuffix(part, "%") {
			part = strings.TrimSuffix(part, "%")
			scale = 100
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Proportions{}, errors.Errorf("invalid split value %q in %q", parts[i], s)
		}
		vals[i] = v / scale
	}
	return Proportions{Train: vals[0], Val: vals[1], Test: vals[2]}, nil
}

// pflag.Value adapters so enum and composite types can be used with fs.Var.

type proportionsValue struct{ p *Proportions }

func (v *proportionsValue) String() string { return v.p.String() }
func (v *proportionsValue) Type() string   { return "train,val,test" }
func (v *proportionsValue) Set(s string) error {
	p, err := ParseProportions(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

type modeValue struct{ p *TransferMode }

func (m *modeValue) String() string { return string(*m.p) }
func (m *modeValue) Type() string   { return "copy|move" }
func (m *modeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "copy":
		*m.p = ModeCopy
	case "move":
		*m.p = ModeMove
	default:
		return errors.Errorf("invalid mode %q (use 'copy' or 'move')", s)
	}
	return nil
}
