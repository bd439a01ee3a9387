package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBoardPlain(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: King, {2, 2}: Knight})
	assert.Equal(t, "K..\n...\n..N\n", BoardString(p, c, FormatOptions{}))
	assert.Equal(t, "K  \n   \n  N\n", BoardString(p, c, FormatOptions{Fill: ' '}))
}

func TestFormatBoardDebug(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: King, {2, 2}: King})
	want := "[K  ][   ][   ]\n" +
		"[   ][* 2][   ]\n" +
		"[   ][   ][K  ]\n"
	assert.Equal(t, want, BoardString(p, c, FormatOptions{Debug: true}))
}

func TestReadBoardRoundTrip(t *testing.T) {
	p := mustPuzzle(t, "0000\n0110\n00\n")
	c := place(t, p, map[Cell]PieceKind{{0, 0}: Queen, {0, 3}: Bishop, {2, 1}: Rook})
	got, err := ReadBoard(strings.NewReader(BoardString(p, c, FormatOptions{})), p, 0)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestReadBoardErrors(t *testing.T) {
	p := mustPuzzle(t, "00\n00\n")
	for _, text := range []string{"..\n.X\n", "...\n", "..\n..\nK.\n"} {
		_, err := ReadBoard(strings.NewReader(text), p, 0)
		assert.True(t, errors.Is(err, ErrMalformed), "%q: %v", text, err)
	}
}

func TestReadBoardKeepsOnCells(t *testing.T) {
	p := mustPuzzle(t, "01\n")
	got, err := ReadBoard(strings.NewReader("KQ\n"), p, 0)
	require.NoError(t, err)
	assert.Equal(t, Candidate{King, Occupied}, got)
}
