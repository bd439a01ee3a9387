package ui

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SvenDH/chess-nonogram/game"
)

// checker returns a w*h gray picture, dark where (x+y) is even.
func checker(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 20})
			} else {
				img.SetGray(x, y, color.Gray{Y: 230})
			}
		}
	}
	return img
}

func TestBinaryImage(t *testing.T) {
	got := BinaryImage(checker(3, 2), DefaultThreshold, 0, 0)
	want := game.Image{{true, false, true}, {false, true, false}}
	assert.Equal(t, want, got)
}

func TestBinaryImageThresholdEdges(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 128})
	src.SetGray(1, 0, color.Gray{Y: 129})
	assert.Equal(t, game.Image{{true, false}}, BinaryImage(src, 128, 0, 0))
	assert.Equal(t, game.Image{{true, true}}, BinaryImage(src, 255, 0, 0))
	assert.Equal(t, game.Image{{false, false}}, BinaryImage(src, 0, 0, 0))
}

func TestBinaryImageResize(t *testing.T) {
	img := BinaryImage(checker(8, 4), DefaultThreshold, 4, 0)
	require.Len(t, img, 2)
	assert.Len(t, img[0], 4)
}

func TestLoadBinaryImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, checker(4, 4)))
	require.NoError(t, file.Close())

	img, err := LoadBinaryImage(path, DefaultThreshold, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Cells())
	assert.Len(t, img.OnCells(), 8)

	_, err = LoadBinaryImage(filepath.Join(t.TempDir(), "missing.png"), DefaultThreshold, 0, 0)
	assert.Error(t, err)
}
