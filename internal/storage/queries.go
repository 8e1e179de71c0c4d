package storage

import (
	"fmt"
	"strings"

	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/model"
)

// ResolveTags maps tag names (case-insensitive) to their ids, preserving input
// order. Any name with no matching tag fails the whole lookup.
func (db *DB) ResolveTags(names []string) ([]int64, error) {
	return db.resolveNames("tags", "tag", names)
}

// ResolveUsers maps usernames (case-insensitive) to user ids, preserving input
// order.
func (db *DB) ResolveUsers(names []string) ([]int64, error) {
	return db.resolveNames("users", "username", names)
}

func (db *DB) resolveNames(table, kind string, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowerCol := "name_lower"
	if table == "users" {
		lowerCol = "username_lower"
	}
	args := make([]interface{}, 0, len(names))
	for _, n := range names {
		args = append(args, strings.ToLower(n))
	}
	query := fmt.Sprintf(`SELECT id, %s FROM %s WHERE %s IN (%s)`,
		lowerCol, table, lowerCol, placeholders(len(names)))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byLower := make(map[string]int64, len(names))
	for rows.Next() {
		var id int64
		var lower string
		if err := rows.Scan(&id, &lower); err != nil {
			return nil, err
		}
		byLower[lower] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(names))
	for _, n := range names {
		id, ok := byLower[strings.ToLower(n)]
		if !ok {
			return nil, &apperr.UnknownReference{Kind: kind, Value: n}
		}
		out = append(out, id)
	}
	return out, nil
}

// ListCharacters returns the full roster ordered by id.
func (db *DB) ListCharacters() ([]model.Character, error) {
	rows, err := db.conn.Query(`SELECT char_id, name FROM characters ORDER BY char_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Character
	for rows.Next() {
		var c model.Character
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CharacterNames returns the id-to-name mapping for the roster.
func (db *DB) CharacterNames() (map[int64]string, error) {
	chars, err := db.ListCharacters()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(chars))
	for _, c := range chars {
		out[c.ID] = c.Name
	}
	return out, nil
}

// GamesFilter is the resolved, id-level game selection. Empty slices are
// wildcards. The window is half-open: EndUnix <= date_time < StartUnix, with
// a zero bound meaning unbounded on that side.
type GamesFilter struct {
	GameIDs        []int64 // explicit selection; other predicates still apply
	ParticipantIDs []int64 // either seat
	VsUserIDs      []int64 // games where a participant met one of these
	RequiredTagIDs []int64 // game must carry every one
	ExcludedTagIDs []int64 // game must carry none
	StartUnix      int64   // exclusive upper bound
	EndUnix        int64   // inclusive lower bound
	Limit          int     // keep only the most recent N, 0 = all
}

// FetchGames returns games matching the filter, newest first, with usernames,
// captain character names, and tags annotated. The query is assembled from
// fixed clause templates; every caller value travels as a bind parameter.
func (db *DB) FetchGames(f GamesFilter) ([]model.Game, error) {
	var (
		where []string
		args  []interface{}
	)

	if n := len(f.GameIDs); n > 0 {
		where = append(where, fmt.Sprintf("g.game_id IN (%s)", placeholders(n)))
		args = int64Args(args, f.GameIDs)
	}
	if n := len(f.ParticipantIDs); n > 0 {
		ph := placeholders(n)
		where = append(where,
			fmt.Sprintf("(g.away_player_id IN (%s) OR g.home_player_id IN (%s))", ph, ph))
		args = int64Args(args, f.ParticipantIDs)
		args = int64Args(args, f.ParticipantIDs)
	}
	if n := len(f.VsUserIDs); n > 0 {
		ph := placeholders(n)
		where = append(where,
			fmt.Sprintf("(g.away_player_id IN (%s) OR g.home_player_id IN (%s))", ph, ph))
		args = int64Args(args, f.VsUserIDs)
		args = int64Args(args, f.VsUserIDs)
	}
	if n := len(f.RequiredTagIDs); n > 0 {
		where = append(where, fmt.Sprintf(
			"(SELECT COUNT(DISTINCT gt.tag_id) FROM game_tags gt WHERE gt.game_id = g.game_id AND gt.tag_id IN (%s)) = %d",
			placeholders(n), n))
		args = int64Args(args, f.RequiredTagIDs)
	}
	if n := len(f.ExcludedTagIDs); n > 0 {
		where = append(where, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM game_tags gt WHERE gt.game_id = g.game_id AND gt.tag_id IN (%s))",
			placeholders(n)))
		args = int64Args(args, f.ExcludedTagIDs)
	}
	if f.EndUnix > 0 {
		where = append(where, "g.date_time >= ?")
		args = append(args, f.EndUnix)
	}
	if f.StartUnix > 0 {
		where = append(where, "g.date_time < ?")
		args = append(args, f.StartUnix)
	}

	query := `
		SELECT g.game_id, g.date_time,
		       g.away_player_id, g.home_player_id,
		       au.username, hu.username,
		       COALESCE(ac.name, ''), COALESCE(hc.name, ''),
		       g.away_score, g.home_score,
		       g.innings_played, g.innings_selected
		FROM games g
		JOIN users au ON au.id = g.away_player_id
		JOIN users hu ON hu.id = g.home_player_id
		LEFT JOIN char_game_summaries acs
		       ON acs.game_id = g.game_id AND acs.user_id = g.away_player_id AND acs.captain = 1
		LEFT JOIN characters ac ON ac.char_id = acs.char_id
		LEFT JOIN char_game_summaries hcs
		       ON hcs.game_id = g.game_id AND hcs.user_id = g.home_player_id AND hcs.captain = 1
		LEFT JOIN characters hc ON hc.char_id = hcs.char_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, "\n\t\t  AND ")
	}
	query += "\n\t\tORDER BY g.date_time DESC, g.game_id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(
			&g.ID, &g.Timestamp,
			&g.AwayUserID, &g.HomeUserID,
			&g.AwayUser, &g.HomeUser,
			&g.AwayCaptain, &g.HomeCaptain,
			&g.AwayScore, &g.HomeScore,
			&g.InningsPlayed, &g.InningsSelected,
		); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := db.annotateTags(games); err != nil {
		return nil, err
	}
	return games, nil
}

// annotateTags fills TagIDs and Tags on each game in place.
func (db *DB) annotateTags(games []model.Game) error {
	if len(games) == 0 {
		return nil
	}
	ids := make([]int64, len(games))
	index := make(map[int64]int, len(games))
	for i, g := range games {
		ids[i] = g.ID
		index[g.ID] = i
	}
	query := fmt.Sprintf(`
		SELECT gt.game_id, t.id, t.name
		FROM game_tags gt
		JOIN tags t ON t.id = gt.tag_id
		WHERE gt.game_id IN (%s)
		ORDER BY gt.game_id, t.id`, placeholders(len(ids)))

	rows, err := db.conn.Query(query, int64Args(nil, ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var gameID, tagID int64
		var name string
		if err := rows.Scan(&gameID, &tagID, &name); err != nil {
			return err
		}
		i := index[gameID]
		games[i].TagIDs = append(games[i].TagIDs, tagID)
		games[i].Tags = append(games[i].Tags, name)
	}
	return rows.Err()
}

// GamesExist verifies every given game id is stored, reporting the first
// missing one.
func (db *DB) GamesExist(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`SELECT game_id FROM games WHERE game_id IN (%s)`,
		placeholders(len(ids)))
	rows, err := db.conn.Query(query, int64Args(nil, ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if !found[id] {
			return &apperr.UnknownReference{Kind: "game", Value: fmt.Sprintf("%d", id)}
		}
	}
	return nil
}
