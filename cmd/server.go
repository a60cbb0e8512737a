package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	app "time-tracker/internal"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the time tracking API server",
	Run: func(cmd *cobra.Command, args []string) {
		server, err := app.HTTPServer(provider)
		if err != nil {
			slog.Error("Failed to initialize HTTP server", "error", err)
			os.Exit(1)
		}

		slog.Info("Starting time tracking server", "addr", serverAddr)
		if err := server.Run(serverAddr); err != nil {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", ":8000", "address to listen on")
	rootCmd.AddCommand(serverCmd)
}
