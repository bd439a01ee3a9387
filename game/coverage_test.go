package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRookBlockedByRook(t *testing.T) {
	p := mustPuzzle(t, "00000\n")
	both := p.Coverage(place(t, p, map[Cell]PieceKind{{0, 0}: Rook, {0, 2}: Rook}))
	blocker := p.Coverage(place(t, p, map[Cell]PieceKind{{0, 2}: Rook}))

	// the (0,0) rook contributes the difference, except on its own square
	assert.Equal(t, 0, both[0][4]-blocker[0][4])
	assert.Equal(t, 1, both[0][1]-blocker[0][1])
	assert.Equal(t, 0, both[0][3]-blocker[0][3])
}

func TestRookBlockedByKnight(t *testing.T) {
	p := mustPuzzle(t, "00000\n")
	counts := p.Coverage(place(t, p, map[Cell]PieceKind{{0, 0}: Rook, {0, 2}: Knight}))
	assert.Equal(t, Grid{{0, 1, 0, 0, 0}}, counts)
}

func TestRaysPassOverOccupied(t *testing.T) {
	p := mustPuzzle(t, "00100\n")
	counts := p.Coverage(place(t, p, map[Cell]PieceKind{{0, 0}: Rook}))
	assert.Equal(t, Grid{{0, 1, 1, 1, 1}}, counts)
}

func TestKingSingleStep(t *testing.T) {
	p := mustPuzzle(t, "000\n000\n000\n")
	counts := p.Coverage(place(t, p, map[Cell]PieceKind{{1, 1}: King}))
	assert.Equal(t, Grid{{1, 1, 1}, {1, 0, 1}, {1, 1, 1}}, counts)

	p = mustPuzzle(t, "00000\n00000\n00000\n00000\n00000\n")
	counts = p.Coverage(place(t, p, map[Cell]PieceKind{{2, 2}: King}))
	for i, row := range counts {
		for j, n := range row {
			if abs(i-2) == 2 || abs(j-2) == 2 || (i == 2 && j == 2) {
				assert.Zero(t, n, "cell (%d,%d)", i, j)
			}
		}
	}
}

func TestCoverageRaggedRows(t *testing.T) {
	p := mustPuzzle(t, "0000\n0\n000\n")
	counts := p.Coverage(place(t, p, map[Cell]PieceKind{{0, 3}: Queen}))
	require.Len(t, counts, 3)
	assert.Len(t, counts[1], 1)
	// (1,2) and (2,3) do not exist; (2,1) is on the diagonal through them
	assert.Equal(t, Grid{{1, 1, 1, 0}, {0}, {0, 1, 0}}, counts)
}

func TestCoverageBounds(t *testing.T) {
	p := mustPuzzle(t, "0010011\n0100000\n0001000\n0000100\n1100000\n")
	rng := rand.New(rand.NewSource(7))
	for range 50 {
		c := p.RandomOnly(rng, 0.4)
		pieces := c.Pieces()
		for _, row := range p.Coverage(c) {
			for _, n := range row {
				assert.GreaterOrEqual(t, n, 0)
				assert.LessOrEqual(t, n, pieces)
			}
		}
	}
}

func TestUnbeaten(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	assert.Equal(t, 1, p.Unbeaten(p.EmptyOnly()))
	c := place(t, p, map[Cell]PieceKind{{0, 0}: King, {2, 2}: King})
	assert.Equal(t, 0, p.Unbeaten(c))
}
