// Package partition computes train/val/test splits of a file list. It is
// pure: no filesystem access, so split membership can be tested and
// previewed without touching any data.
//
// A split is fully determined by the input set, the proportions, and the
// state of the random source. Inputs are sorted before shuffling, so
// directory iteration order never leaks into the result.
package partition

import (
	"math"
	"math/rand"
	"sort"

	"github.com/backmassage/dsprep/internal/config"
)

// Segment names one of the three output partitions.
type Segment int

const (
	Train Segment = iota
	Val
	Test
)

// Segments lists every segment in output order.
var Segments = []Segment{Train, Val, Test}

func (s Segment) String() string {
	switch s {
	case Train:
		return "train"
	case Val:
		return "val"
	case Test:
		return "test"
	}
	return "unknown"
}

// Sizes holds per-segment counts.
type Sizes struct {
	Train, Val, Test int
}

// Total returns Train+Val+Test.
func (s Sizes) Total() int { return s.Train + s.Val + s.Test }

// SizesFor returns the segment sizes for n files: train and val are
// floor-truncated, test takes the remainder. All rounding error therefore
// lands in test, and small classes may get empty segments
// (n=3 at 0.8/0.1/0.1 gives 2/0/1).
func SizesFor(n int, p config.Proportions) Sizes {
	nTrain := int(math.Floor(float64(n) * p.Train))
	nVal := int(math.Floor(float64(n) * p.Val))
	if nTrain > n {
		nTrain = n
	}
	if nTrain+nVal > n {
		nVal = n - nTrain
	}
	return Sizes{Train: nTrain, Val: nVal, Test: n - nTrain - nVal}
}

// Split is one class's partition. The three slices are disjoint and their
// union is the input set.
type Split struct {
	Train, Val, Test []string
}

// Files returns the slice for seg.
func (s Split) Files(seg Segment) []string {
	switch seg {
	case Train:
		return s.Train
	case Val:
		return s.Val
	default:
		return s.Test
	}
}

// Sizes returns the per-segment counts.
func (s Split) Sizes() Sizes {
	return Sizes{Train: len(s.Train), Val: len(s.Val), Test: len(s.Test)}
}

// NewRand returns the random source used for shuffling. A single source is
// shared across classes and consumed in class order, so a given seed always
// yields the same splits for the same inputs.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Shuffle sorts files into canonical order and then shuffles them in place
// with rng (Fisher-Yates).
func Shuffle(files []string, rng *rand.Rand) {
	sort.Strings(files)
	rng.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
}

// Compute shuffles a copy of files with rng and slices it into contiguous
// train, val, and test segments sized by [SizesFor]. The input slice is not
// modified.
func Compute(files []string, p config.Proportions, rng *rand.Rand) Split {
	shuffled := append([]string(nil), files...)
	Shuffle(shuffled, rng)
	sz := SizesFor(len(shuffled), p)
	return Split{
		Train: shuffled[:sz.Train:sz.Train],
		Val:   shuffled[sz.Train : sz.Train+sz.Val : sz.Train+sz.Val],
		Test:  shuffled[sz.Train+sz.Val:],
	}
}
