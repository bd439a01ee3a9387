package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/anthonynsimon/bild/transform"

	"github.com/SvenDH/chess-nonogram/game"
)

// DefaultThreshold splits gray levels into dark (on) and light (off) pixels.
const DefaultThreshold = 128

// BinaryImage converts a picture into a target grid. Pixels at or below
// threshold gray level become on-cells. When width or height is set the
// picture is resized first; a missing side keeps the aspect ratio.
func BinaryImage(src image.Image, threshold uint8, width, height int) game.Image {
	b := src.Bounds()
	switch {
	case width > 0 && height <= 0:
		height = max(1, b.Dy()*width/b.Dx())
	case height > 0 && width <= 0:
		width = max(1, b.Dx()*height/b.Dy())
	}
	if width > 0 && height > 0 {
		src = transform.Resize(src, width, height, transform.Lanczos)
	}

	gray := effect.Grayscale(src)
	var bw *image.Gray
	if threshold < 255 {
		bw = segment.Threshold(gray, threshold+1)
	}

	gb := gray.Bounds()
	img := make(game.Image, gb.Dy())
	for y := range gb.Dy() {
		img[y] = make([]bool, gb.Dx())
		for x := range gb.Dx() {
			img[y][x] = bw == nil || bw.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y == 0
		}
	}
	return img
}

// LoadBinaryImage decodes a PNG, JPEG or GIF file into a target grid.
func LoadBinaryImage(path string, threshold uint8, width, height int) (game.Image, error) {
	reader, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	src, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	img := BinaryImage(src, threshold, width, height)
	if img.Cells() == 0 {
		return nil, game.ErrEmptyImage
	}
	return img, nil
}
