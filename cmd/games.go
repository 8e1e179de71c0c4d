package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/filter"
	"github.com/slurve/dugout/internal/report"
)

var (
	gamesUsers    []string
	gamesVs       []string
	gamesTags     []string
	gamesExcluded []string
	gamesStart    string
	gamesEnd      string
	gamesRecent   int
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List games matching the given filters",
	Args:  cobra.NoArgs,
	RunE:  runGames,
}

func init() {
	gamesCmd.Flags().StringSliceVar(&gamesUsers, "username", nil, "participant username (repeatable)")
	gamesCmd.Flags().StringSliceVar(&gamesVs, "vs", nil, "opponent username (repeatable)")
	gamesCmd.Flags().StringSliceVar(&gamesTags, "tag", nil, "required tag (repeatable)")
	gamesCmd.Flags().StringSliceVar(&gamesExcluded, "exclude-tag", nil, "excluded tag (repeatable)")
	gamesCmd.Flags().StringVar(&gamesStart, "start", "", "latest date, exclusive (YYYY-MM-DD)")
	gamesCmd.Flags().StringVar(&gamesEnd, "end", "", "earliest date (YYYY-MM-DD)")
	gamesCmd.Flags().IntVar(&gamesRecent, "recent", 0, "keep only the most recent N games")
}

func runGames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, db, err := buildEngine(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := eng.Games(context.Background(), filter.Request{
		Users:       gamesUsers,
		VsUsers:     gamesVs,
		Tags:        gamesTags,
		ExcludeTags: gamesExcluded,
		StartDate:   gamesStart,
		EndDate:     gamesEnd,
		Limit:       gamesRecent,
	})
	if err != nil {
		return err
	}
	report.PrintGamesTable(os.Stdout, games)
	return nil
}
