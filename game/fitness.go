package game

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Weights are the per-cell score terms. Tuning their balance trades tight
// exact covers against loose over-covers.
type Weights struct {
	Best  int // on-cell attacked exactly Threshold times
	Good  int // on-cell attacked more than Threshold times
	Under int // on-cell attacked fewer than Threshold times
	Stray int // off-cell attacked more than StrayLimit times
}

var DefaultWeights = Weights{
	Best:  100,
	Good:  50,
	Under: 10,
	Stray: -150,
}

// Report breaks a score down by table row.
type Report struct {
	Score  int `json:"score"`
	Best   int `json:"best"`
	Good   int `json:"good"`
	Under  int `json:"under"`
	Stray  int `json:"stray"`
	Pieces int `json:"pieces"`
}

// Evaluator scores candidates of one puzzle. It is safe for concurrent use.
type Evaluator struct {
	puzzle  *Puzzle
	weights Weights
	cache   *lru.Cache[string, int]
}

// NewEvaluator creates an evaluator. A cacheSize of zero disables memoisation.
func NewEvaluator(p *Puzzle, w Weights, cacheSize int) *Evaluator {
	e := &Evaluator{puzzle: p, weights: w}
	if cacheSize > 0 {
		// only fails for a non-positive size
		e.cache, _ = lru.New[string, int](cacheSize)
	}
	return e
}

func (e *Evaluator) Weights() Weights { return e.weights }

func (e *Evaluator) Fitness(c Candidate) int {
	if e.cache == nil {
		return e.Report(c).Score
	}
	key := c.Key()
	if score, ok := e.cache.Get(key); ok {
		return score
	}
	score := e.Report(c).Score
	e.cache.Add(key, score)
	return score
}

func (e *Evaluator) Report(c Candidate) Report {
	p := e.puzzle
	counts := p.Coverage(c)
	board := p.Board(c)
	w := e.weights

	r := Report{Pieces: c.Pieces()}
	for i, row := range counts {
		for j, n := range row {
			if board[i][j] == Occupied {
				switch {
				case n == p.Threshold:
					r.Best++
				case n > p.Threshold:
					r.Good++
				default:
					r.Under++
				}
			}
			if !p.Image[i][j] && n > p.StrayLimit {
				r.Stray++
			}
		}
	}
	r.Score = r.Best*w.Best + r.Good*w.Good + r.Under*w.Under + r.Stray*w.Stray
	return r
}
