package storage

import (
	"fmt"
	"strings"

	"github.com/slurve/dugout/internal/model"
)

// RowID identifies the (game, user, character) a stat row belongs to. Names
// are joined in so the engine never does per-row lookups.
type RowID struct {
	GameID   int64
	UserID   int64
	Username string
	CharID   int64
	CharName string
}

// SummaryRow is one character's counting line in one game, for the profile
// and leaderboard paths. Wins and losses are not stored; the engine derives
// them from the game result.
type SummaryRow struct {
	RowID
	Captain bool
	Line    model.Summary
}

// BattingContactRow is one per-swing contact line.
type BattingContactRow struct {
	RowID
	Swing model.SwingType
	Line  model.BattingContact
}

// BattingNonContactRow carries walk and strikeout counts.
type BattingNonContactRow struct {
	RowID
	Line model.BattingNonContact
}

// PitchingSummaryRow carries the pitching ledger counts.
type PitchingSummaryRow struct {
	RowID
	Line model.PitchingSummary
}

// PitchBreakdownRow carries per-pitch result counts.
type PitchBreakdownRow struct {
	RowID
	Line model.PitchBreakdown
}

// FieldingPositionRow carries per-position fielding counts.
type FieldingPositionRow struct {
	RowID
	Line model.FieldingPosition
}

// FieldingActionRow carries notable-play counts.
type FieldingActionRow struct {
	RowID
	Line model.FieldingAction
}

// MiscRow carries star-power counts plus the captain flag the engine needs to
// attribute the game result exactly once per (game, user).
type MiscRow struct {
	RowID
	Captain bool
	Line    model.Misc
}

// rowScope builds the optional id filters shared by every stat fetch. Empty
// slices are wildcards.
func rowScope(alias string, gameIDs, userIDs, charIDs []int64) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if n := len(gameIDs); n > 0 {
		where = append(where, fmt.Sprintf("%s.game_id IN (%s)", alias, placeholders(n)))
		args = int64Args(args, gameIDs)
	}
	if n := len(userIDs); n > 0 {
		where = append(where, fmt.Sprintf("%s.user_id IN (%s)", alias, placeholders(n)))
		args = int64Args(args, userIDs)
	}
	if n := len(charIDs); n > 0 {
		where = append(where, fmt.Sprintf("%s.char_id IN (%s)", alias, placeholders(n)))
		args = int64Args(args, charIDs)
	}
	if len(where) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(where, " AND "), args
}

const rowIdentity = `s.game_id, s.user_id, u.username, s.char_id, c.name`

const rowJoins = `
		FROM char_game_summaries s
		JOIN users u ON u.id = s.user_id
		JOIN characters c ON c.char_id = s.char_id`

// SummaryRows returns the counting lines matching the given scope.
func (db *DB) SummaryRows(gameIDs, userIDs, charIDs []int64) ([]SummaryRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `, s.captain,
		       s.runs_allowed, s.outs_pitched,
		       s.hits, s.at_bats, s.walks_bb, s.walks_hit, s.rbi,
		       s.singles, s.doubles, s.triples, s.homeruns` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var r SummaryRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName, &r.Captain,
			&r.Line.RunsAllowed, &r.Line.OutsPitched,
			&r.Line.Hits, &r.Line.AtBats, &r.Line.WalksBB, &r.Line.WalksHit, &r.Line.RBI,
			&r.Line.Singles, &r.Line.Doubles, &r.Line.Triples, &r.Line.Homeruns,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BattingContactRows returns per-swing contact lines. When includeNonFair is
// false the foul and unknown contact counts are dropped at the source, so they
// never reach a sum.
func (db *DB) BattingContactRows(gameIDs, userIDs, charIDs []int64, includeNonFair bool) ([]BattingContactRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	foulCols := "s.foul_hits, s.unknown_hits"
	if !includeNonFair {
		foulCols = "0, 0"
	}
	query := `
		SELECT s.game_id, s.user_id, u.username, s.char_id, c.name, s.swing,
		       s.outs, ` + foulCols + `, s.fair_hits,
		       s.sour_hits, s.nice_hits, s.perfect_hits,
		       s.singles, s.doubles, s.triples, s.homeruns,
		       s.multi_out, s.sacflys, s.plate_appearances, s.rbi
		FROM swing_summaries s
		JOIN users u ON u.id = s.user_id
		JOIN characters c ON c.char_id = s.char_id` + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BattingContactRow
	for rows.Next() {
		var r BattingContactRow
		var swing int
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName, &swing,
			&r.Line.Outs,
			&r.Line.FoulHits, &r.Line.UnknownHits, &r.Line.FairHits,
			&r.Line.SourHits, &r.Line.NiceHits, &r.Line.PerfectHits,
			&r.Line.Singles, &r.Line.Doubles, &r.Line.Triples, &r.Line.Homeruns,
			&r.Line.MultiOut, &r.Line.SacFlys, &r.Line.PlateAppearances, &r.Line.RBI,
		); err != nil {
			return nil, err
		}
		r.Swing = model.SwingType(swing)
		out = append(out, r)
	}
	return out, rows.Err()
}

// BattingNonContactRows returns walk and strikeout lines.
func (db *DB) BattingNonContactRows(gameIDs, userIDs, charIDs []int64) ([]BattingNonContactRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `,
		       s.walks_bb, s.walks_hit, s.strikeouts` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BattingNonContactRow
	for rows.Next() {
		var r BattingNonContactRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName,
			&r.Line.WalksBB, &r.Line.WalksHBP, &r.Line.Strikeouts,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PitchingSummaryRows returns the pitching ledger lines.
func (db *DB) PitchingSummaryRows(gameIDs, userIDs, charIDs []int64) ([]PitchingSummaryRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `,
		       s.batters_faced, s.runs_allowed, s.hits_allowed,
		       s.strikeouts_pitched, s.star_pitches_thrown,
		       s.outs_pitched, s.pitches_thrown` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PitchingSummaryRow
	for rows.Next() {
		var r PitchingSummaryRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName,
			&r.Line.BattersFaced, &r.Line.RunsAllowed, &r.Line.HitsAllowed,
			&r.Line.StrikeoutsPitched, &r.Line.StarPitchesThrown,
			&r.Line.OutsPitched, &r.Line.PitchesThrown,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PitchBreakdownRows returns per-pitch result lines from the pitcher's side.
func (db *DB) PitchBreakdownRows(gameIDs, userIDs, charIDs []int64) ([]PitchBreakdownRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `,
		       s.walks_allowed, s.balls_thrown, s.strikes_thrown` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PitchBreakdownRow
	for rows.Next() {
		var r PitchBreakdownRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName,
			&r.Line.Walks, &r.Line.Balls, &r.Line.Strikes,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FieldingPositionRows returns per-position fielding lines.
func (db *DB) FieldingPositionRows(gameIDs, userIDs, charIDs []int64) ([]FieldingPositionRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `,
		       s.pitches_at_p, s.pitches_at_c, s.pitches_at_1b,
		       s.pitches_at_2b, s.pitches_at_3b, s.pitches_at_ss,
		       s.pitches_at_lf, s.pitches_at_cf, s.pitches_at_rf,
		       s.outs_at_p, s.outs_at_c, s.outs_at_1b,
		       s.outs_at_2b, s.outs_at_3b, s.outs_at_ss,
		       s.outs_at_lf, s.outs_at_cf, s.outs_at_rf` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldingPositionRow
	for rows.Next() {
		var r FieldingPositionRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName,
			&r.Line.PitchesAtP, &r.Line.PitchesAtC, &r.Line.PitchesAt1B,
			&r.Line.PitchesAt2B, &r.Line.PitchesAt3B, &r.Line.PitchesAtSS,
			&r.Line.PitchesAtLF, &r.Line.PitchesAtCF, &r.Line.PitchesAtRF,
			&r.Line.OutsAtP, &r.Line.OutsAtC, &r.Line.OutsAt1B,
			&r.Line.OutsAt2B, &r.Line.OutsAt3B, &r.Line.OutsAtSS,
			&r.Line.OutsAtLF, &r.Line.OutsAtCF, &r.Line.OutsAtRF,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FieldingActionRows returns notable-play lines.
func (db *DB) FieldingActionRows(gameIDs, userIDs, charIDs []int64) ([]FieldingActionRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `,
		       s.jump_catches, s.diving_catches, s.wall_jumps,
		       s.swap_successes, s.bobbles` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldingActionRow
	for rows.Next() {
		var r FieldingActionRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName,
			&r.Line.JumpCatches, &r.Line.DivingCatches, &r.Line.WallJumps,
			&r.Line.SwapSuccesses, &r.Line.Bobbles,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MiscRows returns star-power lines with the captain flag.
func (db *DB) MiscRows(gameIDs, userIDs, charIDs []int64) ([]MiscRow, error) {
	where, args := rowScope("s", gameIDs, userIDs, charIDs)
	query := `
		SELECT ` + rowIdentity + `, s.captain,
		       s.defensive_star_successes, s.defensive_star_chances,
		       s.defensive_star_chances_won, s.offensive_stars_put_in_play,
		       s.offensive_star_successes, s.offensive_star_chances,
		       s.offensive_star_chances_won` + rowJoins + where

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MiscRow
	for rows.Next() {
		var r MiscRow
		if err := rows.Scan(
			&r.GameID, &r.UserID, &r.Username, &r.CharID, &r.CharName, &r.Captain,
			&r.Line.DefensiveStarSuccesses, &r.Line.DefensiveStarChances,
			&r.Line.DefensiveStarChancesWon, &r.Line.OffensiveStarsPutInPlay,
			&r.Line.OffensiveStarSuccesses, &r.Line.OffensiveStarChances,
			&r.Line.OffensiveStarChancesWon,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
