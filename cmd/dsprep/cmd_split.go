package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/logging"
	"github.com/backmassage/dsprep/internal/pipeline"
)

func newSplitCmd() *cobra.Command {
	f := config.NewFlags(config.DefaultConfig())
	cmd := &cobra.Command{
		Use:   "split [root]",
		Short: "Split class folders into train/val/test trees",
		Long: `Shuffle each class folder under the source directory with a fixed seed
and partition it into train, val and test trees with the same class
subfolders. Train and val sizes are floor(n*fraction); test takes the rest.

In copy mode with train == source, the train split is built in the staging
directory and swapped in at the end; the original train directory is kept
at the backup path. In move mode files are renamed directly and train files
already in place stay put. Existing destination files abort the run before
anything is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cmd, f, args, func(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
				stats, err := pipeline.RunSplit(ctx, cfg, log)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), stats.Table().Render())
				if stats.Swapped {
					log.Success("Replaced %s with the train-only split", cfg.TrainDir)
				}
				return nil
			})
		},
	}
	f.RegisterCommon(cmd.Flags())
	f.RegisterSplit(cmd.Flags())
	return cmd
}
