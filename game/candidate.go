package game

import (
	"fmt"
	"strings"
)

// Candidate is one board assignment, one entry per image cell in row-major
// order. Entries of on-cells are always Occupied.
type Candidate []PieceKind

func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	copy(out, c)
	return out
}

// With returns a copy of c with index set to kind.
func (c Candidate) With(index int, kind PieceKind) Candidate {
	if c[index] == Occupied || kind == Occupied {
		panic(fmt.Sprintf("game: cell %d: occupied marker cannot be reassigned", index))
	}
	out := c.Clone()
	out[index] = kind
	return out
}

func (c Candidate) Pieces() int {
	n := 0
	for _, k := range c {
		if k.Movable() {
			n++
		}
	}
	return n
}

// Key is a compact identity used for caching.
func (c Candidate) Key() string {
	b := make([]byte, len(c))
	for i, k := range c {
		b[i] = byte(k)
	}
	return string(b)
}

func (c Candidate) String() string {
	var sb strings.Builder
	for _, k := range c {
		sb.WriteRune(k.Symbol())
	}
	return sb.String()
}

// Puzzle holds everything derived once from a target image.
type Puzzle struct {
	Image  Image
	Layout Layout
	Moves  MoveTable

	// Threshold is the number of attacks every on-cell should receive.
	Threshold int
	// StrayLimit is the most attacks an off-cell may take before it counts as
	// over-attacked.
	StrayLimit int
}

const (
	DefaultThreshold  = 2
	DefaultStrayLimit = 1
)

func NewPuzzle(img Image) (*Puzzle, error) {
	if img.Cells() == 0 {
		return nil, ErrEmptyImage
	}
	return &Puzzle{
		Image:      img,
		Layout:     NewLayout(img),
		Moves:      NewMoveTable(img.Extent()),
		Threshold:  DefaultThreshold,
		StrayLimit: DefaultStrayLimit,
	}, nil
}

// Valid reports whether c has the right length and carries the Occupied
// marker at exactly the on-cells.
func (p *Puzzle) Valid(c Candidate) bool {
	if len(c) != p.Layout.Size() {
		return false
	}
	k := 0
	for _, row := range p.Image {
		for _, on := range row {
			if on != (c[k] == Occupied) {
				return false
			}
			k++
		}
	}
	return true
}

// Board unpacks c into rows congruent with the image.
func (p *Puzzle) Board(c Candidate) [][]PieceKind {
	board := make([][]PieceKind, len(p.Image))
	k := 0
	for i, row := range p.Image {
		board[i] = make([]PieceKind, len(row))
		k += copy(board[i], c[k:k+len(row)])
	}
	return board
}
