package pipeline

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/term"
)

// newProgress returns a per-file progress bar on stderr. It is invisible
// for dry runs, in verbose mode (per-file log lines replace it), when
// disabled by --no-progress, or when stderr is not a terminal.
func newProgress(cfg *config.Config, total int, desc string) *progressbar.ProgressBar {
	visible := cfg.ShowProgress && !cfg.DryRun && !cfg.Verbose && term.IsTerminal(os.Stderr)
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(visible),
	)
}
