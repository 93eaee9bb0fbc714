// Package display renders the banner and run summaries: human-readable
// sizes and counts, and bordered per-class tables.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/dsprep/internal/term"
)

const banner = `     _                           
  __| |___ _ __  _ __ ___ _ __  
 / _` + "`" + ` / __| '_ \| '__/ _ \ '_ \ 
| (_| \__ \ |_) | | |  __/ |_) |
 \__,_|___/ .__/|_|  \___| .__/ 
          |_|            |_|    `

// PrintBanner prints the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Magenta.Render(banner))
}
