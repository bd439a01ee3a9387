/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/config"
	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui"
)

var (
	profilePath string
	seed        int64
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chess-nonogram",
	Short: "Place chess pieces so their attacks draw a picture",
	Long: `Solves chess nonograms: given a black and white picture, place chess pieces
on the white cells so that the dark cells are exactly the ones attacked at
least twice. Boards are searched with a genetic algorithm and cleaned up
by repair passes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Solver profile file (defaults are used when empty)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every generation and source locations")
}

// loadSettings returns the defaults with --profile applied.
func loadSettings() config.Settings {
	if profilePath == "" {
		return config.Default()
	}
	s, err := config.Load(profilePath)
	if err != nil {
		log.Fatalf("Failed to load profile: %v", err)
	}
	return s
}

func newRand() *rand.Rand {
	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
		log.Printf("Seed: %d", s)
	}
	return rand.New(rand.NewSource(s))
}

// loadImage reads a 0/1 text image, or converts a picture file.
func loadImage(path string, threshold uint8) game.Image {
	var img game.Image
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		img, err = ui.LoadBinaryImage(path, threshold, 0, 0)
	default:
		img, err = game.LoadImage(path)
	}
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	return img
}

func loadPuzzle(s config.Settings, path string, threshold uint8) *game.Puzzle {
	p, err := s.Puzzle(loadImage(path, threshold))
	if err != nil {
		log.Fatalf("Invalid puzzle: %v", err)
	}
	return p
}

func printReport(w io.Writer, r game.Report) {
	fmt.Fprintf(w, "Score: %s (pieces %d, exact %d, extra %d, under %d, stray %d)\n",
		humanize.Comma(int64(r.Score)), r.Pieces, r.Best, r.Good, r.Under, r.Stray)
}

// searchFlags are the evolutionary search settings shared by solve and watch.
// They override the profile only when given.
type searchFlags struct {
	generations  int
	popSize      int
	tournament   int
	searchLimit  int
	threshold    int
	seeding      string
	density      float64
	mutation     float64
	crossover    float64
	elitism      float64
	diversify    float64
	timeBudget   time.Duration
	pngThreshold uint8
}

func (f *searchFlags) register(cmd *cobra.Command) {
	d := ai.DefaultConfig()
	fl := cmd.Flags()
	fl.IntVarP(&f.generations, "generations", "g", d.Generations, "Number of generations")
	fl.IntVarP(&f.popSize, "pop-size", "p", d.PopulationSize, "Initial population size")
	fl.IntVar(&f.tournament, "tournament", d.TournamentSize, "Tournament size for selection")
	fl.IntVar(&f.searchLimit, "search-limit", d.SearchLimit, "Attempts for random search seeding")
	fl.IntVar(&f.threshold, "threshold", game.DefaultThreshold, "Attacks needed to blacken a cell")
	fl.StringVar(&f.seeding, "seeding", string(d.Seeding), "Initial population: empty, random or search")
	fl.Float64Var(&f.density, "density", d.Density, "Piece density for random seeding")
	fl.Float64Var(&f.mutation, "mutation", d.MutationRate, "Mutation rate")
	fl.Float64Var(&f.crossover, "crossover", d.CrossoverRate, "Crossover rate")
	fl.Float64Var(&f.elitism, "elitism", d.ElitismRate, "Share of the population kept as elite")
	fl.Float64Var(&f.diversify, "diversify", d.DiversifyRate, "Chance an offspring is replaced by a random search")
	fl.DurationVar(&f.timeBudget, "time-budget", 0, "Stop after this long (0 for no limit)")
	fl.Uint8Var(&f.pngThreshold, "png-threshold", ui.DefaultThreshold, "Gray level splitting on and off pixels of picture input")
}

func (f *searchFlags) apply(cmd *cobra.Command, s *config.Settings) error {
	fl := cmd.Flags()
	cfg := &s.Search
	if fl.Changed("generations") {
		cfg.Generations = f.generations
	}
	if fl.Changed("pop-size") {
		cfg.PopulationSize = f.popSize
	}
	if fl.Changed("tournament") {
		cfg.TournamentSize = f.tournament
	}
	if fl.Changed("search-limit") {
		cfg.SearchLimit = f.searchLimit
	}
	if fl.Changed("threshold") {
		s.Threshold = f.threshold
	}
	if fl.Changed("seeding") {
		st, err := game.ParseStrategy(f.seeding)
		if err != nil {
			return err
		}
		cfg.Seeding = st
	}
	if fl.Changed("density") {
		cfg.Density = f.density
	}
	if fl.Changed("mutation") {
		cfg.MutationRate = f.mutation
	}
	if fl.Changed("crossover") {
		cfg.CrossoverRate = f.crossover
	}
	if fl.Changed("elitism") {
		cfg.ElitismRate = f.elitism
	}
	if fl.Changed("diversify") {
		cfg.DiversifyRate = f.diversify
	}
	if fl.Changed("time-budget") {
		cfg.TimeBudget = f.timeBudget
	}
	if verbose {
		cfg.LogEvery = 1
	}
	return nil
}
