/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui"
)

var (
	searchLimit        int
	searchNoRepair     bool
	searchPngThreshold uint8
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <image> [out.chess]",
	Short: "Build a board by random search alone",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		p := loadPuzzle(settings, args[0], searchPngThreshold)
		eval := settings.Evaluator(p)

		c := p.RandomSearch(newRand(), searchLimit)
		if !searchNoRepair {
			c = p.Repair(c)
		}
		printReport(os.Stdout, eval.Report(c))
		game.FormatBoard(os.Stdout, p, c, game.FormatOptions{Debug: true, Fill: settings.Fill})

		if len(args) > 1 {
			if err := game.SaveBoard(args[1], p, c, settings.Fill); err != nil {
				log.Fatalf("Failed to save board: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10_000, "Random placement attempts")
	searchCmd.Flags().BoolVar(&searchNoRepair, "no-repair", false, "Print the raw search result")
	searchCmd.Flags().Uint8Var(&searchPngThreshold, "png-threshold", ui.DefaultThreshold, "Gray level splitting on and off pixels of picture input")
}
