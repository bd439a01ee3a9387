package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyOnly(t *testing.T) {
	p := mustPuzzle(t, "010\n1\n001\n")
	c := p.EmptyOnly()
	assert.Equal(t, Candidate{Empty, Occupied, Empty, Occupied, Empty, Empty, Occupied}, c)
	assert.True(t, p.Valid(c))
	assert.Zero(t, c.Pieces())
}

func TestRandomOnlyDensity(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, p.EmptyOnly(), p.RandomOnly(rng, 0))

	full := p.RandomOnly(rng, 1)
	require.True(t, p.Valid(full))
	assert.Equal(t, p.Layout.Size()-len(p.Image.OnCells()), full.Pieces())
}

func TestRandomOnlyReproducible(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	a := p.RandomOnly(rand.New(rand.NewSource(42)), 0.3)
	b := p.RandomOnly(rand.New(rand.NewSource(42)), 0.3)
	assert.Equal(t, a, b)
}

func TestRandomSearch(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	e := NewEvaluator(p, DefaultWeights, 0)
	rng := rand.New(rand.NewSource(2))

	c := p.RandomSearch(rng, 2000)
	require.True(t, p.Valid(c))
	assert.Greater(t, c.Pieces(), 0)
	assert.GreaterOrEqual(t, e.Fitness(c), e.Fitness(p.EmptyOnly()))
	// repaired after every insertion
	assert.Equal(t, c, p.Repair(c))
}

func TestRandomSearchZeroLimit(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	assert.Equal(t, p.EmptyOnly(), p.RandomSearch(rand.New(rand.NewSource(1)), 0))
}

func TestRandomSearchContextCancelled(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, p.EmptyOnly(), p.RandomSearchContext(ctx, rand.New(rand.NewSource(1)), 2000))
	assert.Equal(t, p.EmptyOnly(), p.Seed(ctx, rand.New(rand.NewSource(1)), StrategySearch, 0, 2000))
}

func TestRandomSearchNoFreeCells(t *testing.T) {
	p := mustPuzzle(t, "11\n11\n")
	assert.Equal(t, p.EmptyOnly(), p.RandomSearch(rand.New(rand.NewSource(1)), 100))
}

func TestWithRejectsOccupied(t *testing.T) {
	p := mustPuzzle(t, "01\n")
	c := p.EmptyOnly()
	assert.Panics(t, func() { c.With(1, King) })
	assert.Panics(t, func() { c.With(0, Occupied) })

	d := c.With(0, Rook)
	assert.Equal(t, Empty, c[0], "With must not alias")
	assert.Equal(t, Rook, d[0])
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"empty", "random", "search"} {
		got, err := ParseStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, Strategy(s), got)
	}
	_, err := ParseStrategy("greedy")
	assert.Error(t, err)
}
