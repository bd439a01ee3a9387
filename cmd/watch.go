/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui/screens"
)

var (
	watchSearch searchFlags
	watchCell   int
	watchOut    string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <image>",
	Short: "Run the search in a window showing the best board live",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		if err := watchSearch.apply(cmd, &settings); err != nil {
			log.Fatal(err)
		}
		p := loadPuzzle(settings, args[0], watchSearch.pngThreshold)
		eval := settings.Evaluator(p)
		view := screens.NewBoardView(p, watchCell)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		es := ai.NewEvolutionarySearch(p, eval, settings.Search, newRand())
		es.OnGeneration = view.Progress
		done := make(chan *ai.Individual, 1)
		go func() {
			es.Run(ctx)
			best := es.Finish()
			view.Finish(best)
			done <- best
		}()

		w, h := view.Size()
		ebiten.SetWindowSize(w*2, h*2)
		ebiten.SetWindowTitle("Chess nonogram")
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		if err := ebiten.RunGame(view); err != nil {
			log.Fatal(err)
		}

		// closing the window stops the search
		cancel()
		best := <-done
		printReport(log.Writer(), eval.Report(best.Genes))
		if watchOut != "" {
			if err := game.SaveBoard(watchOut, p, best.Genes, settings.Fill); err != nil {
				log.Fatalf("Failed to save board: %v", err)
			}
			log.Printf("Saved board to %s", watchOut)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchSearch.register(watchCmd)
	watchCmd.Flags().IntVarP(&watchCell, "cell", "c", 24, "Cell size in pixels")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "Save the final board to a file")
}
