package pipeline

import (
	"github.com/backmassage/dsprep/internal/display"
	"github.com/backmassage/dsprep/internal/partition"
	"github.com/backmassage/dsprep/internal/planner"
)

// SortStats tracks sorter counters. Moved and Bytes are keyed by class name;
// Classes keeps the configured order for reporting.
type SortStats struct {
	Classes []string
	Moved   map[string]int
	Bytes   map[string]int64
	Skipped int
}

func newSortStats(classes []string) *SortStats {
	s := &SortStats{
		Classes: classes,
		Moved:   make(map[string]int, len(classes)),
		Bytes:   make(map[string]int64, len(classes)),
	}
	for _, c := range classes {
		s.Moved[c] = 0
	}
	return s
}

// TotalBytes returns the size of every moved file.
func (s *SortStats) TotalBytes() int64 {
	var n int64
	for _, b := range s.Bytes {
		n += b
	}
	return n
}

// TotalMoved returns the number of files routed into any class.
func (s *SortStats) TotalMoved() int {
	n := 0
	for _, c := range s.Moved {
		n += c
	}
	return n
}

// Table renders per-class counts and sizes plus the skipped row.
func (s *SortStats) Table() *display.Table {
	t := &display.Table{Headers: []string{"Class", "Files", "Size"}}
	for _, c := range s.Classes {
		t.AddRow(c, display.FormatCount(s.Moved[c]), display.FormatBytes(s.Bytes[c]))
	}
	t.AddRow("(skipped)", display.FormatCount(s.Skipped), "-")
	t.Footer = []string{"total", display.FormatCount(s.TotalMoved() + s.Skipped), display.FormatBytes(s.TotalBytes())}
	return t
}

// ClassStats holds one class's split outcome.
type ClassStats struct {
	Name        string
	Sizes       partition.Sizes
	Transferred int   // Files copied or moved.
	Kept        int   // Files already at their destination.
	Bytes       int64 // Bytes copied or moved.
}

// SplitStats tracks splitter counters across classes.
type SplitStats struct {
	Classes []ClassStats
	Swapped bool // Copy mode promoted the staging tree.
	index   map[string]int
}

func newSplitStats(plan *planner.Plan) *SplitStats {
	s := &SplitStats{index: make(map[string]int, len(plan.Classes))}
	for i, cp := range plan.Classes {
		s.Classes = append(s.Classes, ClassStats{Name: cp.Name, Sizes: cp.Split.Sizes()})
		s.index[cp.Name] = i
	}
	return s
}

func (s *SplitStats) record(t planner.Transfer, bytes int64) {
	cs := &s.Classes[s.index[t.Class]]
	if t.Action == planner.ActionKeep {
		cs.Kept++
		return
	}
	cs.Transferred++
	cs.Bytes += bytes
}

// Totals sums every class.
func (s *SplitStats) Totals() ClassStats {
	var tot ClassStats
	for _, c := range s.Classes {
		tot.Sizes.Train += c.Sizes.Train
		tot.Sizes.Val += c.Sizes.Val
		tot.Sizes.Test += c.Sizes.Test
		tot.Transferred += c.Transferred
		tot.Kept += c.Kept
		tot.Bytes += c.Bytes
	}
	return tot
}

// Table renders per-class segment sizes, how many files were transferred or
// left in place, and the bytes transferred.
func (s *SplitStats) Table() *display.Table {
	t := &display.Table{Headers: []string{"Class", "Train", "Val", "Test", "Total", "Transferred", "Kept", "Size"}}
	row := func(name string, c ClassStats) []string {
		return []string{
			name,
			display.FormatCount(c.Sizes.Train),
			display.FormatCount(c.Sizes.Val),
			display.FormatCount(c.Sizes.Test),
			display.FormatCount(c.Sizes.Total()),
			display.FormatCount(c.Transferred),
			display.FormatCount(c.Kept),
			display.FormatBytes(c.Bytes),
		}
	}
	for _, c := range s.Classes {
		t.AddRow(row(c.Name, c)...)
	}
	t.Footer = row("total", s.Totals())
	return t
}
