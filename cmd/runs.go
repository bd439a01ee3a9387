/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/server"
)

var (
	runsDb    string
	runsLimit int
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := server.OpenRepository(runsDb)
		if err != nil {
			log.Fatal(err)
		}
		defer repo.Close()

		runs, err := repo.ListRuns(runsLimit)
		if err != nil {
			log.Fatal(err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOWNER\tSIZE\tGENERATIONS\tSCORE\tPIECES\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%s\t%d\t%s\n", r.Id, r.Owner, r.Cols, r.Rows,
				humanize.Comma(int64(r.Generations)), humanize.Comma(int64(r.Score)), r.Pieces,
				humanize.Time(r.Created))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsDb, "db", "runs.db", "sqlite database holding the runs")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
}
