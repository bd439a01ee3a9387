package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveTableShapes(t *testing.T) {
	table := NewMoveTable(5)

	tests := []struct {
		kind   PieceKind
		rays   int
		length int
	}{
		{King, 8, 1},
		{Knight, 8, 1},
		{Bishop, 4, 4},
		{Rook, 4, 4},
		{Queen, 8, 4},
		{Empty, 0, 0},
		{Occupied, 0, 0},
	}
	for _, tt := range tests {
		rays := table.Rays(tt.kind)
		assert.Len(t, rays, tt.rays, tt.kind.String())
		for _, ray := range rays {
			assert.Len(t, ray, tt.length, tt.kind.String())
		}
	}
}

func TestSlidingRaysNearestFirst(t *testing.T) {
	table := NewMoveTable(4)
	for _, ray := range table.Rays(Rook) {
		d := ray[0]
		for n, step := range ray {
			assert.Equal(t, Step{d.DRow * (n + 1), d.DCol * (n + 1)}, step)
		}
	}
}

func TestQueenIsBishopPlusRook(t *testing.T) {
	table := NewMoveTable(6)
	want := append(append([]Ray{}, table.Rays(Bishop)...), table.Rays(Rook)...)
	assert.Equal(t, want, table.Rays(Queen))
}

func TestMoveTableDeterministic(t *testing.T) {
	assert.Equal(t, NewMoveTable(7), NewMoveTable(7))
}

func TestKnightOffsets(t *testing.T) {
	for _, ray := range NewMoveTable(8).Rays(Knight) {
		s := ray[0]
		dr, dc := abs(s.DRow), abs(s.DCol)
		assert.True(t, (dr == 1 && dc == 2) || (dr == 2 && dc == 1), "bad knight step %v", s)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
