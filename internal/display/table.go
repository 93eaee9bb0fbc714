package display

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/backmassage/dsprep/internal/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// Table is a bordered summary table. The first column is left-aligned and
// every other column right-aligned. An optional footer row (totals) is
// rendered bold.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  []string
}

// AddRow appends a data row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render returns the table as a multi-line string.
func (t *Table) Render() string {
	rows := t.Rows
	footerIdx := -2 // never matches a data row
	if len(t.Footer) > 0 {
		footerIdx = len(rows)
		rows = append(append([][]string(nil), rows...), t.Footer)
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(term.Blue).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch row {
			case table.HeaderRow:
				s = headerStyle
			case footerIdx:
				s = footerStyle
			default:
				s = cellStyle
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return tbl.Render()
}
