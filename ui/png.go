package ui

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"

	"github.com/SvenDH/chess-nonogram/game"
)

var (
	colorOff    = color.RGBA{0xf4, 0xf1, 0xe8, 0xff}
	colorOn     = color.RGBA{0x30, 0x30, 0x38, 0xff}
	colorUnder  = color.RGBA{0xb0, 0x60, 0x30, 0xff}
	colorOver   = color.RGBA{0x50, 0x50, 0x90, 0xff}
	colorStray  = color.RGBA{0xe8, 0xa0, 0xa0, 0xff}
	colorPiece  = color.RGBA{0x10, 0x10, 0x10, 0xff}
	GridColor   = color.RGBA{0xd8, 0xd4, 0xc8, 0xff}
	boardFont   *truetype.Font
	loadFontErr error
	fontOnce    sync.Once
)

func pieceFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		boardFont, loadFontErr = truetype.Parse(gobold.TTF)
	})
	return boardFont, loadFontErr
}

// CellColor picks the background of a cell from its target and attack count.
func CellColor(p *game.Puzzle, on bool, n int) color.RGBA {
	switch {
	case on && n < p.Threshold:
		return colorUnder
	case on && n > p.Threshold:
		return colorOver
	case on:
		return colorOn
	case n > p.StrayLimit:
		return colorStray
	}
	return colorOff
}

// RenderBoard draws c as a grid of cellSize pixel squares with piece letters.
func RenderBoard(p *game.Puzzle, c game.Candidate, cellSize int) (*image.RGBA, error) {
	ttf, err := pieceFont()
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(cellSize) * 0.7,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	rows := p.Image.Rows()
	cols := 0
	for _, row := range p.Image {
		cols = max(cols, len(row))
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols*cellSize, rows*cellSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(GridColor), image.Point{}, draw.Src)

	counts := p.Coverage(c)
	board := p.Board(c)
	metrics := face.Metrics()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(colorPiece), Face: face}

	for i, row := range board {
		for j, kind := range row {
			cell := image.Rect(j*cellSize+1, i*cellSize+1, (j+1)*cellSize, (i+1)*cellSize)
			bg := CellColor(p, p.Image[i][j], counts[i][j])
			draw.Draw(dst, cell, image.NewUniform(bg), image.Point{}, draw.Src)
			if !kind.Movable() {
				continue
			}

			s := string(kind.Symbol())
			advance := d.MeasureString(s)
			x := fixed.I(j*cellSize) + (fixed.I(cellSize)-advance)/2
			y := fixed.I(i*cellSize) + (fixed.I(cellSize)+metrics.Ascent-metrics.Descent)/2
			d.Dot = fixed.Point26_6{X: x, Y: y}
			d.DrawString(s)
		}
	}
	return dst, nil
}

func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
