package partition

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/backmassage/dsprep/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var p801010 = config.Proportions{Train: 0.8, Val: 0.1, Test: 0.1}

func computeSeeded(files []string, p config.Proportions, seed int64) Split {
	return Compute(files, p, NewRand(seed))
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s.%d.jpg", prefix, i)
	}
	return out
}

func TestSizesFor(t *testing.T) {
	tests := []struct {
		name string
		n    int
		p    config.Proportions
		want Sizes
	}{
		{"ten files", 10, p801010, Sizes{8, 1, 1}},
		{"three files", 3, p801010, Sizes{2, 0, 1}},
		{"one file", 1, p801010, Sizes{0, 0, 1}},
		{"zero files", 0, p801010, Sizes{0, 0, 0}},
		{"all train", 7, config.Proportions{Train: 1}, Sizes{7, 0, 0}},
		{"all test", 7, config.Proportions{Test: 1}, Sizes{0, 0, 7}},
		{"kaggle class", 12500, p801010, Sizes{10000, 1250, 1250}},
		{"remainder to test", 11, config.Proportions{Train: 0.5, Val: 0.25, Test: 0.25}, Sizes{5, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SizesFor(tt.n, tt.p)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.n, got.Total())
		})
	}
}

func TestCompute_ExactSizes(t *testing.T) {
	s := computeSeeded(names("cat", 10), p801010, 1337)
	assert.Equal(t, Sizes{8, 1, 1}, s.Sizes())

	s = computeSeeded(names("cat", 3), p801010, 1337)
	assert.Equal(t, Sizes{2, 0, 1}, s.Sizes())
}

func TestCompute_TotalAndDisjoint(t *testing.T) {
	props := []config.Proportions{
		p801010,
		{Train: 0.7, Val: 0.15, Test: 0.15},
		{Train: 1.0 / 3, Val: 1.0 / 3, Test: 1.0 / 3},
		{Train: 0, Val: 0.5, Test: 0.5},
	}
	for _, p := range props {
		for _, n := range []int{1, 2, 3, 10, 97} {
			t.Run(fmt.Sprintf("%s/n=%d", p, n), func(t *testing.T) {
				in := names("dog", n)
				s := computeSeeded(in, p, 7)
				require.Equal(t, n, len(s.Train)+len(s.Val)+len(s.Test))

				seen := make(map[string]Segment, n)
				for _, seg := range Segments {
					for _, f := range s.Files(seg) {
						prev, dup := seen[f]
						require.False(t, dup, "%s in both %s and %s", f, prev, seg)
						seen[f] = seg
					}
				}
				var union []string
				for f := range seen {
					union = append(union, f)
				}
				sort.Strings(union)
				want := append([]string(nil), in...)
				sort.Strings(want)
				if diff := cmp.Diff(want, union); diff != "" {
					t.Errorf("union mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := names("cat", 50)
	a := computeSeeded(in, p801010, 1337)
	b := computeSeeded(in, p801010, 1337)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different splits (-a +b):\n%s", diff)
	}
}

func TestCompute_IndependentOfInputOrder(t *testing.T) {
	in := names("cat", 30)
	reversed := make([]string, len(in))
	for i, f := range in {
		reversed[len(in)-1-i] = f
	}
	a := computeSeeded(in, p801010, 99)
	b := computeSeeded(reversed, p801010, 99)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("enumeration order leaked into the split (-a +b):\n%s", diff)
	}
}

func TestCompute_SeedChangesOrderNotSizes(t *testing.T) {
	in := names("dog", 100)
	a := computeSeeded(in, p801010, 1)
	b := computeSeeded(in, p801010, 2)
	assert.Equal(t, a.Sizes(), b.Sizes())
	assert.NotEqual(t, a.Train, b.Train)
}

func TestCompute_DoesNotModifyInput(t *testing.T) {
	in := []string{"c.jpg", "a.jpg", "b.jpg"}
	_ = computeSeeded(in, p801010, 5)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, in)
}

func TestCompute_SharedSourceAcrossClasses(t *testing.T) {
	cats, dogs := names("cat", 20), names("dog", 20)

	rng := NewRand(1337)
	c1 := Compute(cats, p801010, rng)
	d1 := Compute(dogs, p801010, rng)

	rng = NewRand(1337)
	c2 := Compute(cats, p801010, rng)
	d2 := Compute(dogs, p801010, rng)

	assert.Equal(t, c1, c2)
	assert.Equal(t, d1, d2)
}

func TestSegmentString(t *testing.T) {
	assert.Equal(t, "train", Train.String())
	assert.Equal(t, "val", Val.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "unknown", Segment(9).String())
}
