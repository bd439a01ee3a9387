package game

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImage(t *testing.T) {
	tests := []struct {
		text string
		want Image
		err  error
	}{
		{text: "01\n10\n", want: Image{{false, true}, {true, false}}},
		{text: "01\r\n1\r\n", want: Image{{false, true}, {true}}},
		{text: "1\n\n\n", want: Image{{true}}},
		{text: "0\n\n1\n", want: Image{{false}, {}, {true}}},
		{text: "", err: ErrEmptyImage},
		{text: "\n\n", err: ErrEmptyImage},
		{text: "01\n0x\n", err: ErrMalformed},
		{text: "012\n", err: ErrMalformed},
	}
	for _, tt := range tests {
		img, err := ReadImage(strings.NewReader(tt.text))
		if tt.err != nil {
			assert.True(t, errors.Is(err, tt.err), "%q: got %v", tt.text, err)
			continue
		}
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, img, tt.text)
	}
}

func TestWriteImageRoundTrip(t *testing.T) {
	text := "0110\n1\n00101\n"
	var buf bytes.Buffer
	require.NoError(t, WriteImage(&buf, mustImage(t, text)))
	assert.Equal(t, text, buf.String())
}

func TestImageWidth(t *testing.T) {
	assert.Equal(t, 5, mustImage(t, "0\n00000\n").Width())
	assert.Equal(t, 1, mustImage(t, "0\n0\n0\n").Width())
	assert.Equal(t, 10, mustImage(t, "0000000000\n0000000000\n0000000000\n").Width())
}

func TestImageExtent(t *testing.T) {
	assert.Equal(t, 5, mustImage(t, "0\n00000\n").Extent())
	assert.Equal(t, 3, mustImage(t, "0\n0\n0\n").Extent())
}

func TestLayoutRoundTrip(t *testing.T) {
	img := Image{{false, true, false}, {}, {true}, {false, false}}
	l := NewLayout(img)
	require.Equal(t, 6, l.Size())

	k := 0
	for i, row := range img {
		for j := range row {
			idx, ok := l.Index(i, j)
			require.True(t, ok)
			assert.Equal(t, k, idx)

			r, c, ok := l.Coord(idx)
			require.True(t, ok)
			assert.Equal(t, [2]int{i, j}, [2]int{r, c})
			k++
		}
	}

	_, ok := l.Index(1, 0)
	assert.False(t, ok)
	_, ok = l.Index(0, 3)
	assert.False(t, ok)
	_, _, ok = l.Coord(6)
	assert.False(t, ok)
	_, _, ok = l.Coord(-1)
	assert.False(t, ok)
}

func TestBoardMarksOnCells(t *testing.T) {
	p := mustPuzzle(t, "010\n11\n")
	board := p.Board(p.EmptyOnly())
	for i, row := range p.Image {
		for j, on := range row {
			assert.Equal(t, on, board[i][j] == Occupied)
		}
	}
}
