package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"time-tracker/internal/config"
	"time-tracker/internal/storage"
)

var (
	cfgFile  string
	provider storage.Provider
)

var rootCmd = &cobra.Command{
	Use:   "time-tracker",
	Short: "Employee time tracking backend",
	Long:  `Backend service for employee time tracking with session management and screenshot monitoring.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()

		var err error
		if cfgFile != "" {
			config.Cfg, err = config.LoadConfig(cfgFile)
		} else {
			config.Cfg, err = config.LoadConfig()
		}
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}

		initLogger(config.Cfg)

		provider = storage.NewProvider(&config.Cfg.Storage)
		if provider == nil {
			slog.Error("Failed to initialize storage provider")
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if provider != nil {
			provider.Close()
		}
	},
}

func initLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./instance/config.yaml)")
}
