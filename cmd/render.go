/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui"
)

var renderCell int

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <image> <board.chess> <out.png>",
	Short: "Draw a board as a PNG",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		p := loadPuzzle(settings, args[0], ui.DefaultThreshold)
		c, err := game.LoadBoard(args[1], p, settings.Fill)
		if err != nil {
			log.Fatalf("Failed to load board: %v", err)
		}
		img, err := ui.RenderBoard(p, c, renderCell)
		if err != nil {
			log.Fatal(err)
		}
		if err := ui.SavePNG(args[2], img); err != nil {
			log.Fatal(err)
		}
		log.Printf("Saved %s", args[2])
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVarP(&renderCell, "cell", "c", 32, "Cell size in pixels")
}
