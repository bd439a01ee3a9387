package game

import "fmt"

type PieceKind uint8

const (
	Empty PieceKind = iota
	Occupied
	King
	Queen
	Rook
	Bishop
	Knight
)

// Pieces lists the movable kinds in the order random draws index them.
var Pieces = []PieceKind{King, Queen, Rook, Bishop, Knight}

var pieceSymbols = [...]rune{
	Empty:    ' ',
	Occupied: '*',
	King:     'K',
	Queen:    'Q',
	Rook:     'R',
	Bishop:   'B',
	Knight:   'N',
}

var pieceNames = [...]string{
	Empty:    "empty",
	Occupied: "occupied",
	King:     "king",
	Queen:    "queen",
	Rook:     "rook",
	Bishop:   "bishop",
	Knight:   "knight",
}

// Movable reports whether k is a piece that projects attacks and blocks rays.
func (k PieceKind) Movable() bool {
	return k >= King && k <= Knight
}

func (k PieceKind) Symbol() rune {
	if int(k) >= len(pieceSymbols) {
		return '?'
	}
	return pieceSymbols[k]
}

func (k PieceKind) String() string {
	if int(k) >= len(pieceNames) {
		return fmt.Sprintf("PieceKind(%d)", k)
	}
	return pieceNames[k]
}

// PieceFromSymbol maps a board letter back to its kind. Lower case is accepted.
func PieceFromSymbol(r rune) (PieceKind, bool) {
	switch r {
	case 'K', 'k':
		return King, true
	case 'Q', 'q':
		return Queen, true
	case 'R', 'r':
		return Rook, true
	case 'B', 'b':
		return Bishop, true
	case 'N', 'n':
		return Knight, true
	}
	return Empty, false
}
