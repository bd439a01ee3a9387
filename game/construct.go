package game

import (
	"context"
	"fmt"
	"math/rand"
)

// Strategy names a way of building starting candidates.
type Strategy string

const (
	StrategyEmpty  Strategy = "empty"
	StrategyRandom Strategy = "random"
	StrategySearch Strategy = "search"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEmpty, StrategyRandom, StrategySearch:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown seeding strategy %q (want empty, random or search)", s)
}

func RandomPiece(rng *rand.Rand) PieceKind {
	return Pieces[rng.Intn(len(Pieces))]
}

// EmptyOnly marks the on-cells and leaves everything else empty.
func (p *Puzzle) EmptyOnly() Candidate {
	c := make(Candidate, 0, p.Layout.Size())
	for _, row := range p.Image {
		for _, on := range row {
			if on {
				c = append(c, Occupied)
			} else {
				c = append(c, Empty)
			}
		}
	}
	return c
}

// RandomOnly puts a random piece on each off-cell with probability density.
func (p *Puzzle) RandomOnly(rng *rand.Rand, density float64) Candidate {
	c := p.EmptyOnly()
	for idx, kind := range c {
		if kind == Occupied {
			continue
		}
		piece := RandomPiece(rng)
		if rng.Float64() < density {
			c[idx] = piece
		}
	}
	return c
}

// RandomSearch drops random pieces on empty cells one at a time, repairing
// after each, until every on-cell is covered or limit insertions were made.
func (p *Puzzle) RandomSearch(rng *rand.Rand, limit int) Candidate {
	return p.RandomSearchContext(context.Background(), rng, limit)
}

// RandomSearchContext is RandomSearch that also stops, keeping what it has
// placed so far, once ctx is done.
func (p *Puzzle) RandomSearchContext(ctx context.Context, rng *rand.Rand, limit int) Candidate {
	c := p.EmptyOnly()
	free := make([]int, 0, len(c))

	for l := 0; l < limit && p.Unbeaten(c) > 0; l++ {
		if ctx.Err() != nil {
			break
		}
		free = free[:0]
		for idx, kind := range c {
			if kind == Empty {
				free = append(free, idx)
			}
		}
		if len(free) == 0 {
			break
		}
		idx := free[rng.Intn(len(free))]
		c = p.Repair(c.With(idx, RandomPiece(rng)))
	}
	return c
}

// Seed builds one candidate with the named strategy. A search seed is cut
// short when ctx is done.
func (p *Puzzle) Seed(ctx context.Context, rng *rand.Rand, s Strategy, density float64, limit int) Candidate {
	switch s {
	case StrategyEmpty:
		return p.EmptyOnly()
	case StrategySearch:
		return p.RandomSearchContext(ctx, rng, limit)
	default:
		return p.RandomOnly(rng, density)
	}
}
