package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Load a stat fixture file into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

// fixture is the import file layout. Sections are optional and loaded in
// dependency order.
type fixture struct {
	Users []struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"users"`
	Characters []model.Character `json:"characters"`
	Tags       []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"tags"`
	Games []struct {
		ID              int64   `json:"game_id"`
		DateTime        int64   `json:"date_time"`
		AwayPlayerID    int64   `json:"away_player_id"`
		HomePlayerID    int64   `json:"home_player_id"`
		AwayScore       int     `json:"away_score"`
		HomeScore       int     `json:"home_score"`
		InningsPlayed   int     `json:"innings_played"`
		InningsSelected int     `json:"innings_selected"`
		TagIDs          []int64 `json:"tags"`
	} `json:"games"`
	Summaries []storage.CharGameRow `json:"char_game_summaries"`
	Swings    []storage.SwingRow    `json:"swing_summaries"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	for _, u := range f.Users {
		if err := db.InsertUser(u.ID, u.Username); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}
	if len(f.Characters) > 0 {
		if err := db.SeedCharacters(f.Characters); err != nil {
			return err
		}
	}
	for _, t := range f.Tags {
		if err := db.InsertTag(t.ID, t.Name); err != nil {
			return fmt.Errorf("insert tag %q: %w", t.Name, err)
		}
	}
	for _, g := range f.Games {
		game := model.Game{
			ID:              g.ID,
			Timestamp:       g.DateTime,
			AwayUserID:      g.AwayPlayerID,
			HomeUserID:      g.HomePlayerID,
			AwayScore:       g.AwayScore,
			HomeScore:       g.HomeScore,
			InningsPlayed:   g.InningsPlayed,
			InningsSelected: g.InningsSelected,
		}
		if err := db.InsertGame(game); err != nil {
			return fmt.Errorf("insert game %d: %w", g.ID, err)
		}
		for _, tagID := range g.TagIDs {
			if err := db.TagGame(g.ID, tagID); err != nil {
				return fmt.Errorf("tag game %d: %w", g.ID, err)
			}
		}
	}
	if err := db.InsertCharGameRows(f.Summaries); err != nil {
		return err
	}
	if err := db.InsertSwingRows(f.Swings); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "imported %d users, %d characters, %d tags, %d games, %d stat rows, %d swing rows\n",
		len(f.Users), len(f.Characters), len(f.Tags), len(f.Games), len(f.Summaries), len(f.Swings))
	return nil
}
