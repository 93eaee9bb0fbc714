// Command dsprep is the CLI entrypoint for preparing image-classification
// datasets: sort loose images into class folders, split class folders into
// train/val/test trees, and check that every image decodes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/backmassage/dsprep/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run executes the command line and maps the outcome to an exit status:
// 0 on success, 130 when interrupted, 1 otherwise.
func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var r *reportedError
	if !errors.As(err, &r) {
		// Bootstrap failures (flags, config) happen before the logger exists.
		fmt.Fprintf(os.Stderr, "dsprep: %v\n", err)
	}
	if errors.Is(err, pipeline.ErrInterrupted) {
		return 130
	}
	return 1
}
