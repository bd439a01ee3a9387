package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitnessTable(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	e := NewEvaluator(p, DefaultWeights, 0)

	tests := []struct {
		name   string
		pieces map[Cell]PieceKind
		want   Report
	}{
		{
			name: "empty",
			want: Report{Score: 10, Under: 1},
		},
		{
			name:   "one king",
			pieces: map[Cell]PieceKind{{0, 0}: King},
			want:   Report{Score: 10, Under: 1, Pieces: 1},
		},
		{
			name:   "two kings exact",
			pieces: map[Cell]PieceKind{{0, 0}: King, {2, 2}: King},
			want:   Report{Score: 100, Best: 1, Pieces: 2},
		},
		{
			name:   "three kings over",
			pieces: map[Cell]PieceKind{{0, 0}: King, {2, 2}: King, {0, 2}: King},
			// (0,1) and (1,2) take two attacks each
			want: Report{Score: 50 - 2*150, Good: 1, Stray: 2, Pieces: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := place(t, p, tt.pieces)
			assert.Equal(t, tt.want, e.Report(c))
			assert.Equal(t, tt.want.Score, e.Fitness(c))
		})
	}
}

func TestFitnessTwoKnightsBeatOne(t *testing.T) {
	p := mustPuzzle(t, "00000\n00000\n00100\n00000\n00000\n")
	e := NewEvaluator(p, DefaultWeights, 0)

	empty := e.Fitness(p.EmptyOnly())
	one := e.Fitness(place(t, p, map[Cell]PieceKind{{0, 1}: Knight}))
	two := e.Fitness(place(t, p, map[Cell]PieceKind{{0, 1}: Knight, {0, 3}: Knight}))

	assert.GreaterOrEqual(t, two, one)
	assert.Greater(t, two, empty)
}

func TestFitnessTwoKingsBeatOne(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	e := NewEvaluator(p, DefaultWeights, 0)

	empty := e.Fitness(p.EmptyOnly())
	one := e.Fitness(place(t, p, map[Cell]PieceKind{{0, 0}: King}))
	two := e.Fitness(place(t, p, map[Cell]PieceKind{{0, 0}: King, {2, 2}: King}))

	assert.GreaterOrEqual(t, two, one)
	assert.Greater(t, two, empty)
}

func TestFitnessEmptyOnlyAllUnder(t *testing.T) {
	p := mustPuzzle(t, "0110\n1001\n0110\n")
	r := NewEvaluator(p, DefaultWeights, 0).Report(p.EmptyOnly())
	assert.Equal(t, len(p.Image.OnCells()), r.Under)
	assert.Zero(t, r.Stray)
	assert.Zero(t, r.Best+r.Good)
	assert.Equal(t, r.Under*DefaultWeights.Under, r.Score)
}

func TestFitnessDeterministic(t *testing.T) {
	p := mustPuzzle(t, "0010011\n0100000\n0001000\n0000100\n1100000\n")
	plain := NewEvaluator(p, DefaultWeights, 0)
	cached := NewEvaluator(p, DefaultWeights, 16)
	rng := rand.New(rand.NewSource(3))
	for range 40 {
		c := p.RandomOnly(rng, 0.3)
		want := plain.Fitness(c)
		require.Equal(t, want, plain.Fitness(c))
		require.Equal(t, want, cached.Fitness(c))
		require.Equal(t, want, cached.Fitness(c.Clone()))
	}
}

func TestFitnessCustomWeights(t *testing.T) {
	p := mustPuzzle(t, "000\n010\n000\n")
	w := Weights{Best: 7, Good: 3, Under: -5, Stray: -1}
	e := NewEvaluator(p, w, 0)
	assert.Equal(t, -5, e.Fitness(p.EmptyOnly()))
	assert.Equal(t, 7, e.Fitness(place(t, p, map[Cell]PieceKind{{0, 0}: King, {2, 2}: King})))
}
