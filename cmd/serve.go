/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SvenDH/chess-nonogram/server"
)

var (
	serveAddr   string
	serveDb     string
	serveSecret string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the solve service",
	Long: `Serves account, run history and websocket endpoints. Clients submit
images over the websocket and receive progress and the final board.
The token secret comes from --secret or NONOGRAM_SECRET.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		secret := serveSecret
		if secret == "" {
			secret = os.Getenv("NONOGRAM_SECRET")
		}
		if secret == "" {
			log.Fatal("A token secret is required (--secret or NONOGRAM_SECRET)")
		}
		repo, err := server.OpenRepository(serveDb)
		if err != nil {
			log.Fatal(err)
		}
		defer repo.Close()

		broker := server.NewMemoryBroker()
		wsServer := server.NewWebsocketServer(broker, repo, loadSettings())
		router := server.NewRouter(serveAddr, broker, repo, wsServer, server.NewAuth(secret))
		router.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDb, "db", "runs.db", "sqlite database for users and runs")
	serveCmd.Flags().StringVar(&serveSecret, "secret", "", "Token signing secret")
}
