package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/dsprep/internal/config"
)

func TestClassify(t *testing.T) {
	rules := config.DefaultConfig().Classes
	cases := []struct {
		name     string
		file     string
		wantOK   bool
		wantName string
	}{
		{name: "cat", file: "cat.1.jpg", wantOK: true, wantName: "cats"},
		{name: "dog", file: "dog.2.jpg", wantOK: true, wantName: "dogs"},
		{name: "uppercase", file: "CAT.3.JPG", wantOK: true, wantName: "cats"},
		{name: "mixed case", file: "Dog.4.png", wantOK: true, wantName: "dogs"},
		{name: "full path uses base", file: "/data/dog.park/cat.5.jpg", wantOK: true, wantName: "cats"},
		{name: "unknown", file: "frog.3.jpg", wantOK: false},
		{name: "prefix without separator", file: "catalog.jpg", wantOK: false},
		{name: "prefix mid-name", file: "my.cat.1.jpg", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, ok := Classify(tc.file, rules)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantName, rule.Name)
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	rules := []config.ClassRule{
		{Name: "kittens", Prefix: "cat.kit"},
		{Name: "cats", Prefix: "cat."},
	}
	rule, ok := Classify("cat.kitten.jpg", rules)
	require.True(t, ok)
	assert.Equal(t, "kittens", rule.Name)

	rule, ok = Classify("cat.1.jpg", rules)
	require.True(t, ok)
	assert.Equal(t, "cats", rule.Name)
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/data/val", "cats", "/data/train/cats/cat.1.jpg")
	assert.Equal(t, filepath.Join("/data/val", "cats", "cat.1.jpg"), got)
}

func TestCollisionGuard(t *testing.T) {
	g := NewCollisionGuard()

	require.NoError(t, g.Claim("/in/cats/cat.1.jpg", "/out/cats/cat.1.jpg"))
	require.NoError(t, g.Claim("/in/cats/cat.1.jpg", "/out/cats/cat.1.jpg"), "same owner re-claims")
	require.NoError(t, g.Claim("/in/dogs/dog.1.jpg", "/out/dogs/dog.1.jpg"))

	err := g.Claim("/elsewhere/cat.1.jpg", "/out/cats/cat.1.jpg")
	assert.ErrorIs(t, err, ErrPlannedCollision)
	assert.Contains(t, err.Error(), "/in/cats/cat.1.jpg")

	// A rejected claim doesn't steal ownership.
	require.NoError(t, g.Claim("/in/cats/cat.1.jpg", "/out/cats/cat.1.jpg"))
}
