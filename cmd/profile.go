package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/report"
)

var profileRecent int

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Show a user's totals and leaderboards per category",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().IntVar(&profileRecent, "recent", 0, "recent games to list (default from config)")
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, db, err := buildEngine(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := eng.Profile(context.Background(), engine.ProfileQuery{
		Username: args[0],
		Recent:   profileRecent,
	})
	if err != nil {
		return err
	}
	report.PrintProfile(os.Stdout, result)
	report.PrintGamesTable(os.Stdout, result.RecentGames)
	return nil
}
