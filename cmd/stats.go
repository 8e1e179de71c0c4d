package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/filter"
)

var (
	statsGames     []int64
	statsUsers     []string
	statsChars     []int64
	statsTags      []string
	statsExcluded  []string
	statsStart     string
	statsEnd       string
	statsRecent    int
	statsByUser    bool
	statsByChar    bool
	statsBySwing   bool
	statsNoNonFair bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the detailed stat tree as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int64SliceVar(&statsGames, "game", nil, "explicit game id (repeatable)")
	statsCmd.Flags().StringSliceVar(&statsUsers, "username", nil, "restrict to username (repeatable)")
	statsCmd.Flags().Int64SliceVar(&statsChars, "character", nil, "restrict to character id (repeatable)")
	statsCmd.Flags().StringSliceVar(&statsTags, "tag", nil, "required tag (repeatable)")
	statsCmd.Flags().StringSliceVar(&statsExcluded, "exclude-tag", nil, "excluded tag (repeatable)")
	statsCmd.Flags().StringVar(&statsStart, "start", "", "latest date, exclusive (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsEnd, "end", "", "earliest date (YYYY-MM-DD)")
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "keep only the most recent N games")
	statsCmd.Flags().BoolVar(&statsByUser, "by-user", false, "group by user")
	statsCmd.Flags().BoolVar(&statsByChar, "by-char", false, "group by character")
	statsCmd.Flags().BoolVar(&statsBySwing, "by-swing", false, "group batting by swing type")
	statsCmd.Flags().BoolVar(&statsNoNonFair, "exclude-nonfair", false, "drop foul/unknown contact")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, db, err := buildEngine(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := eng.Detailed(context.Background(), engine.DetailedQuery{
		GameIDs: statsGames,
		Filter: filter.Request{
			Users:       statsUsers,
			Tags:        statsTags,
			ExcludeTags: statsExcluded,
			StartDate:   statsStart,
			EndDate:     statsEnd,
			Limit:       statsRecent,
		},
		Users:          statsUsers,
		CharIDs:        statsChars,
		ByUser:         statsByUser,
		ByChar:         statsByChar,
		BySwing:        statsBySwing,
		ExcludeNonFair: statsNoNonFair,
	})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
