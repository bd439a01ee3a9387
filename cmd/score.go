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

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <image> <board.chess>",
	Short: "Score an existing board against an image",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		p := loadPuzzle(settings, args[0], ui.DefaultThreshold)
		c, err := game.LoadBoard(args[1], p, settings.Fill)
		if err != nil {
			log.Fatalf("Failed to load board: %v", err)
		}
		printReport(os.Stdout, settings.Evaluator(p).Report(c))
		game.FormatBoard(os.Stdout, p, c, game.FormatOptions{Debug: true, Fill: settings.Fill})
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
