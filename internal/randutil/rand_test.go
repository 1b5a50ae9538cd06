package randutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a fixed sequence of draws and records the bounds it saw.
type scripted struct {
	draws  []int
	bounds []int
}

func (s *scripted) IntN(n int) int {
	s.bounds = append(s.bounds, n)
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v
}

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for range 16 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c := New(43)
	assert.NotEqual(t, New(42).Uint64(), c.Uint64())
}

func TestShuffleWalksDownFromLastIndex(t *testing.T) {
	src := &scripted{draws: []int{0, 0, 0}}
	s := []string{"a", "b", "c", "d"}

	Shuffle(src, s)

	// i=3 swaps with 0, i=2 swaps with 0, i=1 swaps with 0.
	assert.Equal(t, []int{4, 3, 2}, src.bounds)
	assert.Equal(t, []string{"b", "c", "d", "a"}, s)
}

func TestShuffleIdentityDraws(t *testing.T) {
	src := &scripted{draws: []int{3, 2, 1}}
	s := []int{10, 20, 30, 40}

	Shuffle(src, s)

	assert.Equal(t, []int{10, 20, 30, 40}, s)
}

func TestShuffleShortSlices(t *testing.T) {
	src := &scripted{}
	var empty []int
	Shuffle(src, empty)
	one := []int{7}
	Shuffle(src, one)

	assert.Empty(t, src.bounds)
	assert.Equal(t, []int{7}, one)
}

func TestPermIsPermutation(t *testing.T) {
	rng := New(7)
	for range 50 {
		p := Perm(rng, 10)
		require.Len(t, p, 10)
		sorted := slices.Clone(p)
		slices.Sort(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
	}
}

func TestReaderDeterministic(t *testing.T) {
	a := NewReader(New(1))
	b := NewReader(New(1))

	bufA := make([]byte, 21)
	bufB := make([]byte, 21)
	n, err := a.Read(bufA)
	require.NoError(t, err)
	require.Equal(t, 21, n)
	_, _ = b.Read(bufB[:5])
	_, _ = b.Read(bufB[5:])

	assert.Equal(t, bufA, bufB)
}
