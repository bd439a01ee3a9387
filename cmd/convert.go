/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/game"
	"github.com/SvenDH/chess-nonogram/ui"
)

var (
	convertThreshold uint8
	convertWidth     int
	convertHeight    int
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <picture> <out.bin>",
	Short: "Turn a picture into a 0/1 image file",
	Long: `Converts a png, jpeg or gif into the text image format. Dark pixels become
1 (cells to be attacked). Use --width or --height to scale the picture first.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		img, err := ui.LoadBinaryImage(args[0], convertThreshold, convertWidth, convertHeight)
		if err != nil {
			log.Fatalf("Failed to convert: %v", err)
		}
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := game.WriteImage(f, img); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %s: %dx%d, %s of %s cells on", args[1], img.Width(), img.Rows(),
			humanize.Comma(int64(len(img.OnCells()))), humanize.Comma(int64(img.Cells())))
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().Uint8VarP(&convertThreshold, "threshold", "t", ui.DefaultThreshold, "Gray level at or below which a pixel is on")
	convertCmd.Flags().IntVarP(&convertWidth, "width", "W", 0, "Resize to this many columns")
	convertCmd.Flags().IntVarP(&convertHeight, "height", "H", 0, "Resize to this many rows")
}
