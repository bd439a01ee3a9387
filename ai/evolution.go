package ai

import (
	"context"
	"log"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/SvenDH/chess-nonogram/game"
)

// Config holds the genetic algorithm parameters.
type Config struct {
	PopulationSize    int
	Generations       int
	TournamentSize    int
	CrossoverRate     float64
	UniformRatio      float64 // per-gene swap probability in uniform crossover
	MutationRate      float64
	MutationPieceRate float64 // chance a mutation places a piece rather than clearing
	ElitismRate       float64
	DiversifyRate     float64 // chance an offspring is replaced by a fresh random search

	Seeding     game.Strategy
	Density     float64
	SearchLimit int

	Workers    int
	TimeBudget time.Duration
	LogEvery   int
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:    83,
		Generations:       10_000,
		TournamentSize:    3,
		CrossoverRate:     0.9,
		UniformRatio:      0.5,
		MutationRate:      0.01,
		MutationPieceRate: 0.5,
		ElitismRate:       0.05,
		Seeding:           game.StrategyRandom,
		Density:           0.09,
		SearchLimit:       10_000,
		Workers:           runtime.GOMAXPROCS(0),
		LogEvery:          100,
	}
}

// Individual represents a candidate solution in the population
type Individual struct {
	Genes   game.Candidate
	Fitness int

	evaluated bool
}

func (ind Individual) clone() Individual {
	return Individual{Genes: ind.Genes.Clone(), Fitness: ind.Fitness, evaluated: ind.evaluated}
}

// Stats summarises one generation.
type Stats struct {
	Generation int           `json:"generation"`
	Best       int           `json:"best"`
	Average    float64       `json:"average"`
	Worst      int           `json:"worst"`
	Elapsed    time.Duration `json:"elapsed"`
}

// EvolutionarySearch evolves piece placements for one puzzle.
type EvolutionarySearch struct {
	puzzle    *game.Puzzle
	evaluator *game.Evaluator
	cfg       Config
	rng       *rand.Rand

	population     []Individual
	bestIndividual *Individual
	generation     int
	history        []Stats

	// OnGeneration, when set, is called after every evaluated generation with
	// a copy of the best individual seen so far.
	OnGeneration func(Stats, Individual)
}

// NewEvolutionarySearch creates a new evolutionary search optimizer
func NewEvolutionarySearch(p *game.Puzzle, e *game.Evaluator, cfg Config, rng *rand.Rand) *EvolutionarySearch {
	if cfg.PopulationSize < 2 {
		cfg.PopulationSize = 2
	}
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &EvolutionarySearch{
		puzzle:    p,
		evaluator: e,
		cfg:       cfg,
		rng:       rng,
	}
}

func (es *EvolutionarySearch) Config() Config { return es.cfg }

func (es *EvolutionarySearch) Population() []Individual { return es.population }

func (es *EvolutionarySearch) Generation() int { return es.generation }

func (es *EvolutionarySearch) History() []Stats { return es.history }

// populationLimit is the size every generation after the first grows to.
func (es *EvolutionarySearch) populationLimit() int {
	return 2 * es.cfg.PopulationSize
}

// InitializePopulation seeds the population with the configured strategy.
// Once ctx is done the remaining individuals start empty.
func (es *EvolutionarySearch) InitializePopulation(ctx context.Context) {
	cfg := es.cfg
	es.population = make([]Individual, cfg.PopulationSize)
	for i := range es.population {
		if ctx.Err() != nil {
			es.population[i] = Individual{Genes: es.puzzle.EmptyOnly()}
			continue
		}
		es.population[i] = Individual{
			Genes: es.puzzle.Seed(ctx, es.rng, cfg.Seeding, cfg.Density, cfg.SearchLimit),
		}
	}
	es.generation = 0
	es.bestIndividual = nil
	es.history = nil
}

// EvaluateFitness scores every unevaluated individual in parallel, then sorts
// the population best first.
func (es *EvolutionarySearch) EvaluateFitness() {
	workers := es.cfg.Workers
	chunkSize := (len(es.population) + workers - 1) / workers

	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < len(es.population); start += chunkSize {
		chunk := es.population[start:min(start+chunkSize, len(es.population))]
		p.Go(func() {
			for i := range chunk {
				if chunk[i].evaluated {
					continue
				}
				chunk[i].Fitness = es.evaluator.Fitness(chunk[i].Genes)
				chunk[i].evaluated = true
			}
		})
	}
	p.Wait()

	sort.SliceStable(es.population, func(i, j int) bool {
		return es.population[i].Fitness > es.population[j].Fitness
	})

	if es.bestIndividual == nil || es.population[0].Fitness > es.bestIndividual.Fitness {
		best := es.population[0].clone()
		es.bestIndividual = &best
	}
}

// TournamentSelection returns the fittest of TournamentSize uniform draws.
func (es *EvolutionarySearch) TournamentSelection() *Individual {
	best := es.rng.Intn(len(es.population))
	for i := 1; i < es.cfg.TournamentSize; i++ {
		contestant := es.rng.Intn(len(es.population))
		if es.population[contestant].Fitness > es.population[best].Fitness {
			best = contestant
		}
	}
	return &es.population[best]
}

// Crossover performs uniform crossover, swapping each gene with probability
// UniformRatio. Occupied markers sit at the same indices in both parents so
// they survive unchanged.
func (es *EvolutionarySearch) Crossover(parent1, parent2 *Individual) (Individual, Individual) {
	child1 := parent1.Genes.Clone()
	child2 := parent2.Genes.Clone()
	for i := range child1 {
		if es.rng.Float64() < es.cfg.UniformRatio {
			child1[i], child2[i] = child2[i], child1[i]
		}
	}
	return Individual{Genes: child1}, Individual{Genes: child2}
}

// Mutate returns a copy of ind with one random gene reassigned, unless that
// gene marks an on-cell.
func (es *EvolutionarySearch) Mutate(ind Individual) Individual {
	idx := es.rng.Intn(len(ind.Genes))
	if ind.Genes[idx] == game.Occupied {
		return ind
	}
	kind := game.Empty
	if es.rng.Float64() < es.cfg.MutationPieceRate {
		kind = game.RandomPiece(es.rng)
	}
	return Individual{Genes: ind.Genes.With(idx, kind)}
}

func (es *EvolutionarySearch) offspring(ind Individual) Individual {
	if es.rng.Float64() < es.cfg.MutationRate {
		ind = es.Mutate(ind)
	}
	if es.cfg.DiversifyRate > 0 && es.rng.Float64() < es.cfg.DiversifyRate {
		ind = Individual{Genes: es.puzzle.RandomSearch(es.rng, es.cfg.SearchLimit)}
	}
	return ind
}

func (es *EvolutionarySearch) eliteCount() int {
	n := int(es.cfg.ElitismRate * float64(len(es.population)))
	if n == 0 && es.cfg.ElitismRate > 0 {
		n = 1
	}
	return min(n, len(es.population))
}

// Evolve runs the evolutionary algorithm for one generation. The population
// must be sorted best first.
func (es *EvolutionarySearch) Evolve() {
	es.generation++

	limit := es.populationLimit()
	next := make([]Individual, 0, limit)

	// Elitism: Keep best individuals
	for i := range es.eliteCount() {
		next = append(next, es.population[i].clone())
	}

	for len(next) < limit {
		parent1 := es.TournamentSelection()
		parent2 := es.TournamentSelection()

		var child1, child2 Individual
		if es.rng.Float64() < es.cfg.CrossoverRate {
			child1, child2 = es.Crossover(parent1, parent2)
		} else {
			child1, child2 = parent1.clone(), parent2.clone()
		}

		next = append(next, es.offspring(child1))
		if len(next) < limit {
			next = append(next, es.offspring(child2))
		}
	}

	es.population = next
}

func (es *EvolutionarySearch) record(start time.Time) Stats {
	total := 0
	for _, ind := range es.population {
		total += ind.Fitness
	}
	stats := Stats{
		Generation: es.generation,
		Best:       es.population[0].Fitness,
		Average:    float64(total) / float64(len(es.population)),
		Worst:      es.population[len(es.population)-1].Fitness,
		Elapsed:    time.Since(start),
	}
	es.history = append(es.history, stats)
	if es.OnGeneration != nil {
		es.OnGeneration(stats, es.bestIndividual.clone())
	}
	return stats
}

// Run executes the full evolutionary algorithm and returns the best
// individual observed. It stops early when ctx is done or the time budget
// is spent; both are only checked between generations.
func (es *EvolutionarySearch) Run(ctx context.Context) *Individual {
	start := time.Now()
	cfg := es.cfg

	es.InitializePopulation(ctx)
	es.EvaluateFitness()
	initial := es.record(start)
	log.Printf("Initial best fitness: %d (population %d, seeding %s)", initial.Best, len(es.population), cfg.Seeding)

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			log.Printf("Evolution stopped at generation %d: %v", es.generation, err)
			break
		}
		if cfg.TimeBudget > 0 && time.Since(start) > cfg.TimeBudget {
			log.Printf("Evolution stopped at generation %d: time budget %v spent", es.generation, cfg.TimeBudget)
			break
		}

		es.Evolve()
		es.EvaluateFitness()
		stats := es.record(start)

		if cfg.LogEvery > 0 && (gen%cfg.LogEvery == 0 || gen == cfg.Generations-1) {
			log.Printf("Gen %d/%d: Best=%d, Avg=%.2f, Worst=%d",
				gen+1, cfg.Generations, stats.Best, stats.Average, stats.Worst)
		}
	}

	log.Printf("Evolution complete after %v: best fitness %d (from %d)",
		time.Since(start).Round(time.Millisecond), es.bestIndividual.Fitness, initial.Best)
	return es.Best()
}

// Best returns a copy of the fittest individual observed so far.
func (es *EvolutionarySearch) Best() *Individual {
	if es.bestIndividual == nil {
		return nil
	}
	best := es.bestIndividual.clone()
	return &best
}

// Finish strips pieces the search tolerated but that do not help: the best
// candidate is repaired and rescored.
func (es *EvolutionarySearch) Finish() *Individual {
	best := es.Best()
	if best == nil {
		return nil
	}
	genes := es.puzzle.Repair(best.Genes)
	return &Individual{Genes: genes, Fitness: es.evaluator.Fitness(genes), evaluated: true}
}
