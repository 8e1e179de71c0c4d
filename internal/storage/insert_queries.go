package storage

import (
	"fmt"

	"github.com/slurve/dugout/internal/model"
)

// CharGameRow is the stored ledger for one (game, user, character), as loaded
// from import fixtures. The nested count groups reuse the engine's line types.
type CharGameRow struct {
	GameID  int64 `json:"game_id"`
	UserID  int64 `json:"user_id"`
	CharID  int64 `json:"char_id"`
	Captain bool  `json:"captain"`

	Hits       int `json:"hits"`
	AtBats     int `json:"at_bats"`
	WalksBB    int `json:"walks_bb"`
	WalksHit   int `json:"walks_hit"`
	RBI        int `json:"rbi"`
	Singles    int `json:"singles"`
	Doubles    int `json:"doubles"`
	Triples    int `json:"triples"`
	Homeruns   int `json:"homeruns"`
	Strikeouts int `json:"strikeouts"`

	Pitching model.PitchingSummary  `json:"pitching"`
	Pitches  model.PitchBreakdown   `json:"pitches"`
	Stars    model.Misc             `json:"stars"`
	Action   model.FieldingAction   `json:"fielding_action"`
	Position model.FieldingPosition `json:"fielding_position"`
}

// SwingRow is one stored per-swing contact line.
type SwingRow struct {
	GameID int64                `json:"game_id"`
	UserID int64                `json:"user_id"`
	CharID int64                `json:"char_id"`
	Swing  int                  `json:"swing"`
	Line   model.BattingContact `json:"counts"`
}

// InsertUser stores a user. The lowercase column backs case-insensitive lookup.
func (db *DB) InsertUser(id int64, username string) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO users (id, username, username_lower)
		VALUES (?, ?, LOWER(?))`, id, username, username)
	return err
}

// InsertTag stores a tag.
func (db *DB) InsertTag(id int64, name string) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO tags (id, name, name_lower)
		VALUES (?, ?, LOWER(?))`, id, name, name)
	return err
}

// SeedCharacters stores the roster, replacing names on conflict.
func (db *DB) SeedCharacters(chars []model.Character) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO characters (char_id, name) VALUES (?, ?)
		ON CONFLICT(char_id) DO UPDATE SET name = excluded.name`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, c := range chars {
		if _, err := stmt.Exec(c.ID, c.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed character %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// InsertGame stores a game header.
func (db *DB) InsertGame(g model.Game) error {
	_, err := db.conn.Exec(`
		INSERT INTO games (game_id, date_time, away_player_id, home_player_id,
		                   away_score, home_score, innings_played, innings_selected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Timestamp, g.AwayUserID, g.HomeUserID,
		g.AwayScore, g.HomeScore, g.InningsPlayed, g.InningsSelected)
	return err
}

// TagGame attaches a tag to a game.
func (db *DB) TagGame(gameID, tagID int64) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO game_tags (game_id, tag_id) VALUES (?, ?)`,
		gameID, tagID)
	return err
}

// InsertCharGameRows stores a batch of per-character ledgers in one transaction.
func (db *DB) InsertCharGameRows(rows []CharGameRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO char_game_summaries (
			game_id, user_id, char_id, captain,
			hits, at_bats, walks_bb, walks_hit, rbi,
			singles, doubles, triples, homeruns, strikeouts,
			batters_faced, runs_allowed, hits_allowed,
			strikeouts_pitched, star_pitches_thrown,
			outs_pitched, pitches_thrown,
			walks_allowed, balls_thrown, strikes_thrown,
			defensive_star_successes, defensive_star_chances,
			defensive_star_chances_won, offensive_stars_put_in_play,
			offensive_star_successes, offensive_star_chances,
			offensive_star_chances_won,
			jump_catches, diving_catches, wall_jumps, swap_successes, bobbles,
			pitches_at_p, pitches_at_c, pitches_at_1b,
			pitches_at_2b, pitches_at_3b, pitches_at_ss,
			pitches_at_lf, pitches_at_cf, pitches_at_rf,
			outs_at_p, outs_at_c, outs_at_1b,
			outs_at_2b, outs_at_3b, outs_at_ss,
			outs_at_lf, outs_at_cf, outs_at_rf
		) VALUES (` + placeholders(54) + `)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		captain := 0
		if r.Captain {
			captain = 1
		}
		_, err = stmt.Exec(
			r.GameID, r.UserID, r.CharID, captain,
			r.Hits, r.AtBats, r.WalksBB, r.WalksHit, r.RBI,
			r.Singles, r.Doubles, r.Triples, r.Homeruns, r.Strikeouts,
			r.Pitching.BattersFaced, r.Pitching.RunsAllowed, r.Pitching.HitsAllowed,
			r.Pitching.StrikeoutsPitched, r.Pitching.StarPitchesThrown,
			r.Pitching.OutsPitched, r.Pitching.PitchesThrown,
			r.Pitches.Walks, r.Pitches.Balls, r.Pitches.Strikes,
			r.Stars.DefensiveStarSuccesses, r.Stars.DefensiveStarChances,
			r.Stars.DefensiveStarChancesWon, r.Stars.OffensiveStarsPutInPlay,
			r.Stars.OffensiveStarSuccesses, r.Stars.OffensiveStarChances,
			r.Stars.OffensiveStarChancesWon,
			r.Action.JumpCatches, r.Action.DivingCatches, r.Action.WallJumps,
			r.Action.SwapSuccesses, r.Action.Bobbles,
			r.Position.PitchesAtP, r.Position.PitchesAtC, r.Position.PitchesAt1B,
			r.Position.PitchesAt2B, r.Position.PitchesAt3B, r.Position.PitchesAtSS,
			r.Position.PitchesAtLF, r.Position.PitchesAtCF, r.Position.PitchesAtRF,
			r.Position.OutsAtP, r.Position.OutsAtC, r.Position.OutsAt1B,
			r.Position.OutsAt2B, r.Position.OutsAt3B, r.Position.OutsAtSS,
			r.Position.OutsAtLF, r.Position.OutsAtCF, r.Position.OutsAtRF,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert char summary game=%d user=%d char=%d: %w",
				r.GameID, r.UserID, r.CharID, err)
		}
	}
	return tx.Commit()
}

// InsertSwingRows stores a batch of per-swing contact lines in one transaction.
func (db *DB) InsertSwingRows(rows []SwingRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO swing_summaries (
			game_id, user_id, char_id, swing,
			outs, foul_hits, fair_hits, unknown_hits,
			sour_hits, nice_hits, perfect_hits,
			singles, doubles, triples, homeruns,
			multi_out, sacflys, plate_appearances, rbi
		) VALUES (` + placeholders(19) + `)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.GameID, r.UserID, r.CharID, r.Swing,
			r.Line.Outs, r.Line.FoulHits, r.Line.FairHits, r.Line.UnknownHits,
			r.Line.SourHits, r.Line.NiceHits, r.Line.PerfectHits,
			r.Line.Singles, r.Line.Doubles, r.Line.Triples, r.Line.Homeruns,
			r.Line.MultiOut, r.Line.SacFlys, r.Line.PlateAppearances, r.Line.RBI,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert swing summary game=%d user=%d char=%d swing=%d: %w",
				r.GameID, r.UserID, r.CharID, r.Swing, err)
		}
	}
	return tx.Commit()
}
