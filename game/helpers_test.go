package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustImage(t *testing.T, text string) Image {
	t.Helper()
	img, err := ReadImage(strings.NewReader(text))
	require.NoError(t, err)
	return img
}

func mustPuzzle(t *testing.T, text string) *Puzzle {
	t.Helper()
	p, err := NewPuzzle(mustImage(t, text))
	require.NoError(t, err)
	return p
}

// place returns the empty candidate of p with the given pieces set.
func place(t *testing.T, p *Puzzle, pieces map[Cell]PieceKind) Candidate {
	t.Helper()
	c := p.EmptyOnly()
	for cell, kind := range pieces {
		idx, ok := p.Layout.Index(cell.Row, cell.Col)
		require.True(t, ok, "cell %v outside image", cell)
		c = c.With(idx, kind)
	}
	return c
}
