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

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <image> <board.chess>",
	Short: "Display a board in the terminal",
	Long:  `Shows the board with attack counts coloured by how well each cell matches the image. Press q or Esc to quit.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		p := loadPuzzle(settings, args[0], ui.DefaultThreshold)
		c, err := game.LoadBoard(args[1], p, settings.Fill)
		if err != nil {
			log.Fatal(err)
		}
		if err := ui.ShowBoard(p, c, settings.Evaluator(p).Report(c)); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
