package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

var (
	ErrEmptyImage = errors.New("image has no cells")
	ErrMalformed  = errors.New("malformed image")
)

// Image is the binary target. Rows may differ in length.
type Image [][]bool

// Cell is a (row, col) coordinate.
type Cell struct {
	Row, Col int
}

func (img Image) Rows() int { return len(img) }

func (img Image) In(row, col int) bool {
	return row >= 0 && row < len(img) && col >= 0 && col < len(img[row])
}

func (img Image) On(row, col int) bool {
	return img.In(row, col) && img[row][col]
}

// Cells is the total number of cells over all rows.
func (img Image) Cells() int {
	n := 0
	for _, row := range img {
		n += len(row)
	}
	return n
}

// Width is the length of the widest row.
func (img Image) Width() int {
	width := 0
	for _, row := range img {
		width = max(width, len(row))
	}
	return width
}

// Extent is the longest side of the image, which bounds sliding ray length.
func (img Image) Extent() int {
	extent := len(img)
	for _, row := range img {
		if len(row) > extent {
			extent = len(row)
		}
	}
	return extent
}

func (img Image) OnCells() []Cell {
	var cells []Cell
	for i, row := range img {
		for j, on := range row {
			if on {
				cells = append(cells, Cell{i, j})
			}
		}
	}
	return cells
}

// ReadImage parses one row per line, '0' for off and '1' for on.
func ReadImage(r io.Reader) (Image, error) {
	var img Image
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		row := make([]bool, len(text))
		for col, ch := range []byte(text) {
			switch ch {
			case '0':
			case '1':
				row[col] = true
			default:
				return nil, fmt.Errorf("%w: line %d column %d: unexpected %q", ErrMalformed, line, col+1, ch)
			}
		}
		img = append(img, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	for len(img) > 0 && len(img[len(img)-1]) == 0 {
		img = img[:len(img)-1]
	}
	if img.Cells() == 0 {
		return nil, ErrEmptyImage
	}
	return img, nil
}

func LoadImage(path string) (Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := ReadImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func WriteImage(w io.Writer, img Image) error {
	bw := bufio.NewWriter(w)
	for _, row := range img {
		for _, on := range row {
			if on {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Layout converts between flat candidate indices and image coordinates.
type Layout struct {
	starts []int // flat index of the first cell of each row
	size   int
}

func NewLayout(img Image) Layout {
	starts := make([]int, len(img))
	size := 0
	for i, row := range img {
		starts[i] = size
		size += len(row)
	}
	return Layout{starts: starts, size: size}
}

func (l Layout) Size() int { return l.size }

func (l Layout) rowLen(row int) int {
	if row+1 < len(l.starts) {
		return l.starts[row+1] - l.starts[row]
	}
	return l.size - l.starts[row]
}

func (l Layout) Index(row, col int) (int, bool) {
	if row < 0 || row >= len(l.starts) || col < 0 || col >= l.rowLen(row) {
		return -1, false
	}
	return l.starts[row] + col, true
}

func (l Layout) Coord(index int) (row, col int, ok bool) {
	if index < 0 || index >= l.size {
		return -1, -1, false
	}
	// last row whose start is <= index; empty rows share a start with the next row
	row = sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > index }) - 1
	return row, index - l.starts[row], true
}
