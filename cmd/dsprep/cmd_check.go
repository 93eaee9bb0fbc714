package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/backmassage/dsprep/internal/check"
	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/logging"
)

func newCheckCmd() *cobra.Command {
	f := config.NewFlags(config.DefaultConfig())
	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Decode every image and report unreadable files and class balance",
		Long: `Fully decode every eligible image in each class folder under the source
directory. Unreadable images are reported and, with --quarantine, moved
into <quarantine>/<class>/. Exits non-zero while unreadable images remain
in the class folders or a class folder is missing or empty.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cmd, f, args, func(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
				report, err := check.RunCheck(ctx, cfg, log)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Table().Render())
				if !report.OK() {
					return errors.New("dataset check failed")
				}
				return nil
			})
		},
	}
	f.RegisterCommon(cmd.Flags())
	f.RegisterCheck(cmd.Flags())
	return cmd
}
