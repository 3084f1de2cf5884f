package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/reelbox/internal/config"
	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           constants.AppName,
	Short:         "Media browser data core for set-top boxes",
	Long:          "reelbox keeps resume points, favorites, playlists, history and thumbnails for a set-top-box media browser and serves them to the host UI over a local JSON bridge.",
	Version:       constants.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.AddCommand(serveCmd, cleanupCmd, thumbsCmd, statsCmd, backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *store.DB
}

func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.log.Warn("Failed to close store", "error", err)
		}
	}
}

func setup() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	db, err := store.Open(store.Options{
		Candidates: cfg.DBPaths,
		Fallback:   cfg.DBFallbackPath,
		MaxRecent:  cfg.MaxRecentFiles,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}
