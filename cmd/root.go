package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/category"
	"github.com/slurve/dugout/internal/config"
	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/storage"
)

var (
	dbPath  string
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "dugout",
	Short: "Baseball game stat aggregation and ranking service",
	Long: `Track per-game, per-character baseball stats: list games, build user
profiles with per-category leaderboards, and drill into detailed stat trees.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// buildEngine opens the store and wires the engine. The caller owns the DB.
func buildEngine(cfg *config.Config, log *zap.Logger) (*engine.Engine, *storage.DB, error) {
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	table := category.Table{
		RankedTagID:    cfg.Categories.RankedTagID,
		UnrankedTagID:  cfg.Categories.UnrankedTagID,
		NormalTagID:    cfg.Categories.NormalTagID,
		SuperstarTagID: cfg.Categories.SuperstarTagID,
	}
	return engine.New(db, table, cfg.Profile.RecentGames, log), db, nil
}
