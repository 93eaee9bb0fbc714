package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/display"
	"github.com/backmassage/dsprep/internal/logging"
	"github.com/backmassage/dsprep/internal/pipeline"
)

func newSortCmd() *cobra.Command {
	f := config.NewFlags(config.DefaultConfig())
	cmd := &cobra.Command{
		Use:   "sort [root]",
		Short: "Move loose images into class folders by filename prefix",
		Long: `Move every image directly in the source directory (default <root>/train)
into <source>/<class>/ when its name starts with the class prefix
(case-insensitive). Unrecognized names are left in place and counted as
skipped. An existing file at a destination stops the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cmd, f, args, func(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
				stats, err := pipeline.RunSort(ctx, cfg, log)
				if stats != nil {
					fmt.Fprintln(cmd.OutOrStdout(), stats.Table().Render())
				}
				if err != nil {
					return err
				}
				log.Success("Done: %d moved (%s), %d skipped (unrecognized filenames)",
					stats.TotalMoved(), display.FormatBytes(stats.TotalBytes()), stats.Skipped)
				return nil
			})
		},
	}
	f.RegisterCommon(cmd.Flags())
	return cmd
}
