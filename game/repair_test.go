package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repairImage = "0000000\n0011100\n0010000\n0011100\n0000100\n0011100\n0000000\n"

func TestRemoveUnusedAllOff(t *testing.T) {
	p := mustPuzzle(t, "000\n000\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: Queen, {1, 2}: Knight})
	assert.Equal(t, p.EmptyOnly(), p.RemoveUnused(c))
}

func TestRemoveUnusedKeepsReaching(t *testing.T) {
	p := mustPuzzle(t, "00000\n00000\n00100\n00000\n00000\n")
	c := place(t, p, map[Cell]PieceKind{
		{0, 1}: Knight, // reaches (2,2)
		{0, 0}: Knight, // does not
		{4, 4}: Bishop, // reaches along the diagonal
		{4, 3}: King,   // two rows away
	})
	got := p.RemoveUnused(c)
	want := place(t, p, map[Cell]PieceKind{{0, 1}: Knight, {4, 4}: Bishop})
	assert.Equal(t, want, got)
}

func TestRemoveUnusedIgnoresBlocking(t *testing.T) {
	p := mustPuzzle(t, "00001\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: Rook, {0, 2}: Rook})
	assert.Equal(t, c, p.RemoveUnused(c))
}

func TestRemoveUnusedIdempotent(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	rng := rand.New(rand.NewSource(11))
	for range 30 {
		c := p.RandomOnly(rng, 0.5)
		once := p.RemoveUnused(c)
		assert.Equal(t, once, p.RemoveUnused(once))
		assert.True(t, p.Valid(once))
	}
}

func TestRemoveHarmfulRestarts(t *testing.T) {
	p := mustPuzzle(t, "00000\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: Rook, {0, 4}: Rook})
	got := p.RemoveHarmful(c)
	assert.Equal(t, place(t, p, map[Cell]PieceKind{{0, 4}: Rook}), got)
	// input is untouched
	assert.Equal(t, 2, c.Pieces())
}

func TestRemoveHarmfulConverges(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	rng := rand.New(rand.NewSource(5))
	for range 30 {
		c := p.RandomOnly(rng, 0.5)
		once := p.RemoveHarmful(c)
		require.True(t, p.Valid(once))
		assert.LessOrEqual(t, once.Pieces(), c.Pieces())
		assert.Equal(t, once, p.RemoveHarmful(once))

		counts := p.Coverage(once)
		for i, row := range counts {
			for j, n := range row {
				if !p.Image[i][j] {
					assert.LessOrEqual(t, n, p.StrayLimit, "stray at (%d,%d)", i, j)
				}
			}
		}
	}
}

func TestRepairKeepsOccupied(t *testing.T) {
	p := mustPuzzle(t, repairImage)
	rng := rand.New(rand.NewSource(9))
	c := p.RandomOnly(rng, 1)
	assert.True(t, p.Valid(p.Repair(c)))
}
