package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/display"
	"github.com/backmassage/dsprep/internal/fsutil"
	"github.com/backmassage/dsprep/internal/logging"
)

// reportedError marks an error that was already written through the
// logger, so run() doesn't print it a second time.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dsprep",
		Short: "Prepare image-classification datasets",
		Long: `dsprep sorts, splits and checks image-classification datasets.

Typical flow for a dogs-vs-cats style download:
  dsprep sort  data/dogs-vs-cats     # train/cat.1.jpg -> train/cats/cat.1.jpg
  dsprep check data/dogs-vs-cats     # every image decodes, classes balanced
  dsprep split data/dogs-vs-cats     # train/ -> train/ val/ test/ (80/10/10)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSortCmd(), newSplitCmd(), newCheckCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dsprep version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dsprep %s (%s)\n", version, commit)
		},
	}
}

// loadConfig builds the effective config: defaults, then the --config
// file, then explicitly set flags, then the optional positional root.
func loadConfig(cmd *cobra.Command, f *config.Flags, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.ConfigFile != "" {
		if err := config.LoadFile(f.ConfigFile, &cfg); err != nil {
			return nil, err
		}
	}
	if err := f.Apply(&cfg, cmd.Flags()); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	for _, p := range []*string{
		&cfg.Root, &cfg.SourceDir, &cfg.TrainDir, &cfg.ValDir, &cfg.TestDir,
		&cfg.StagingDir, &cfg.BackupDir, &cfg.QuarantineDir, &cfg.LogFile,
	} {
		expanded, err := fsutil.ReplaceTildeInDir(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}
	cfg.ResolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// session runs fn with a validated config, an open logger, and a context
// cancelled on SIGINT/SIGTERM. Errors returned by fn are logged and wrapped
// in reportedError.
func session(cmd *cobra.Command, f *config.Flags, args []string,
	fn func(ctx context.Context, cfg *config.Config, log *logging.Logger) error,
) error {
	// Phase 1: bootstrap; the logger doesn't exist yet, so errors go back
	// to run() which prints them to stderr.
	cfg, err := loadConfig(cmd, f, args)
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: all output goes through log from here on.
	display.PrintBanner(cmd.OutOrStdout())
	log.Info("=== dsprep v%s %s ===", version, cmd.Name())
	log.Debug(cfg.Verbose, "Run ID: %s", log.RunID())
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be moved or copied")
	}

	// Phase 3: cancel on SIGINT/SIGTERM so runners stop between files.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := fn(ctx, cfg, log); err != nil {
		log.Error("%v", err)
		return &reportedError{err: errors.WithStack(err)}
	}
	return nil
}
