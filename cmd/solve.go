/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/config"
	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/server"
)

var (
	solveSearch searchFlags
	solvePlot   string
	solveDb     string
	solveFill   string
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <image> [out.chess]",
	Short: "Search a board for an image with the genetic algorithm",
	Long: `Evolves boards for the image, repairs the best one and prints it with
attack counts. The plain board is written to out.chess when given.
The image is a 0/1 text file or a picture (png, jpeg, gif).`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		if err := solveSearch.apply(cmd, &settings); err != nil {
			log.Fatal(err)
		}
		if cmd.Flags().Changed("fill") {
			if len([]rune(solveFill)) != 1 {
				log.Fatalf("--fill must be a single character, got %q", solveFill)
			}
			settings.Fill = []rune(solveFill)[0]
		}
		p := loadPuzzle(settings, args[0], solveSearch.pngThreshold)
		eval := settings.Evaluator(p)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		es := ai.NewEvolutionarySearch(p, eval, settings.Search, newRand())
		es.Run(ctx)
		best := es.Finish()
		report := eval.Report(best.Genes)

		printReport(os.Stdout, report)
		game.FormatBoard(os.Stdout, p, best.Genes, game.FormatOptions{Debug: true, Fill: settings.Fill})

		if len(args) > 1 {
			if err := game.SaveBoard(args[1], p, best.Genes, settings.Fill); err != nil {
				log.Fatalf("Failed to save board: %v", err)
			}
			log.Printf("Saved board to %s", args[1])
		}
		if solvePlot != "" {
			if err := ai.SaveFitnessPlot(es.History(), solvePlot); err != nil {
				log.Printf("Failed to save plot: %v", err)
			} else {
				log.Printf("Saved fitness plot to %s", solvePlot)
			}
		}
		if solveDb != "" {
			if err := saveRun(solveDb, p, best.Genes, report, settings, es.Generation()); err != nil {
				log.Printf("Failed to store run: %v", err)
			}
		}
	},
}

func saveRun(path string, p *game.Puzzle, c game.Candidate, r game.Report, s config.Settings, generations int) error {
	repo, err := server.OpenRepository(path)
	if err != nil {
		return err
	}
	defer repo.Close()

	var image strings.Builder
	if err := game.WriteImage(&image, p.Image); err != nil {
		return err
	}
	run := &server.Run{
		Id:          ulid.Make().String(),
		Owner:       "cli",
		Created:     time.Now().UTC(),
		Rows:        p.Image.Rows(),
		Cols:        p.Image.Width(),
		Generations: generations,
		Score:       r.Score,
		Pieces:      r.Pieces,
		Image:       image.String(),
		Board:       game.BoardString(p, c, game.FormatOptions{Fill: s.Fill}),
	}
	if err := repo.SaveRun(run); err != nil {
		return err
	}
	log.Printf("Stored run %s in %s", run.Id, path)
	return nil
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveSearch.register(solveCmd)
	solveCmd.Flags().StringVar(&solvePlot, "plot", "", "Save a fitness curve PNG")
	solveCmd.Flags().StringVar(&solveDb, "db", "", "Store the run in this sqlite database")
	solveCmd.Flags().StringVar(&solveFill, "fill", string(game.DefaultFill), "Character for cells outside the image")
}
