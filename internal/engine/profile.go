package engine

import (
	"context"

	"github.com/slurve/dugout/internal/aggregator"
	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/rank"
	"github.com/slurve/dugout/internal/storage"
)

// ProfileQuery selects one user's profile. Recent overrides the configured
// recent-game count when positive.
type ProfileQuery struct {
	Username string
	Recent   int
}

// CategoryProfile is one category slice of a profile: the user's totals and
// the per-character leaderboards within that category.
type CategoryProfile struct {
	Category string              `json:"category"`
	Games    int                 `json:"games"`
	Totals   model.Summary       `json:"totals"`
	WinRate  float64             `json:"win_rate"`
	Captains []model.RankedEntry `json:"top_captains"`
	Pitchers []model.RankedEntry `json:"top_pitchers"`
	Batters  []model.RankedEntry `json:"top_batters"`
}

// ProfileResult is the full profile payload: recent games, the four named
// category slices, and an all-games roll-up. Uncategorized games count only
// toward the roll-up and the recent listing.
type ProfileResult struct {
	Username    string            `json:"username"`
	RecentGames []model.Game      `json:"recent_games"`
	Categories  []CategoryProfile `json:"categories"`
	All         CategoryProfile   `json:"all"`
}

// Profile builds one user's profile across every game they played.
func (e *Engine) Profile(ctx context.Context, q ProfileQuery) (*ProfileResult, error) {
	ids, err := e.store.ResolveUsers([]string{q.Username})
	if err != nil {
		return nil, storeErr("resolve user", err)
	}
	userID := ids[0]

	games, err := e.store.FetchGames(storage.GamesFilter{ParticipantIDs: ids})
	if err != nil {
		return nil, storeErr("fetch games", err)
	}

	recent := q.Recent
	if recent <= 0 {
		recent = e.recent
	}
	recentGames := games
	if len(recentGames) > recent {
		recentGames = recentGames[:recent]
	}

	cats := e.table.ClassifyGames(games)
	byID := make(map[int64]*model.Game, len(games))
	gameIDs := make([]int64, len(games))
	catGames := make(map[model.Category]int)
	for i := range games {
		byID[games[i].ID] = &games[i]
		gameIDs[i] = games[i].ID
		catGames[cats[games[i].ID]]++
	}

	var rows []storage.SummaryRow
	if len(gameIDs) > 0 {
		rows, err = e.store.SummaryRows(gameIDs, ids, nil)
		if err != nil {
			return nil, storeErr("fetch summaries", err)
		}
	}

	// The game result lands on the captain's row only, so summing a
	// category never multiplies the record by the roster size.
	for i := range rows {
		if !rows[i].Captain {
			continue
		}
		g := byID[rows[i].GameID]
		if g.WonBy(userID) {
			rows[i].Line.Wins = 1
		} else if g.LostBy(userID) {
			rows[i].Line.Losses = 1
		}
	}

	// Captain boards sum captain rows only: a character's record as captain,
	// not its full usage. Batter and pitcher boards rank every row.
	perChar := aggregator.NewSet[model.Summary](
		aggregator.NewProjection(aggregator.Flags{ByCategory: true, ByChar: true}))
	captainChar := aggregator.NewSet[model.Summary](
		aggregator.NewProjection(aggregator.Flags{ByCategory: true, ByChar: true}))
	totals := aggregator.NewSet[model.Summary](
		aggregator.NewProjection(aggregator.Flags{ByCategory: true}))
	allChar := aggregator.NewSet[model.Summary](
		aggregator.NewProjection(aggregator.Flags{ByChar: true}))
	allCaptainChar := aggregator.NewSet[model.Summary](
		aggregator.NewProjection(aggregator.Flags{ByChar: true}))
	var all model.Summary

	for _, r := range rows {
		d := aggregator.Dims{
			Category: cats[r.GameID],
			UserID:   r.UserID,
			Username: r.Username,
			CharID:   r.CharID,
			CharName: r.CharName,
		}
		allChar.Add(d, r.Line)
		all = all.Add(r.Line)
		if r.Captain {
			allCaptainChar.Add(d, r.Line)
		}
		if d.Category == model.Uncategorized {
			continue
		}
		perChar.Add(d, r.Line)
		totals.Add(d, r.Line)
		if r.Captain {
			captainChar.Add(d, r.Line)
		}
	}

	out := &ProfileResult{
		Username:    q.Username,
		RecentGames: recentGames,
		All: categoryProfile("all", len(games), all,
			candidates(allCaptainChar, nil), candidates(allChar, nil)),
	}
	for _, c := range model.Categories() {
		var sum model.Summary
		for _, b := range totals.Buckets() {
			if b.Key.Category == int(c) {
				sum = b.Line
			}
		}
		out.Categories = append(out.Categories,
			categoryProfile(c.String(), catGames[c], sum,
				candidates(captainChar, &c), candidates(perChar, &c)))
	}
	return out, nil
}

// candidates projects a bucket set into leaderboard candidates, optionally
// restricted to one category.
func candidates(set *aggregator.Set[model.Summary], cat *model.Category) []rank.Candidate {
	var out []rank.Candidate
	for _, b := range set.Buckets() {
		if cat != nil && b.Key.Category != int(*cat) {
			continue
		}
		out = append(out, rank.Candidate{Name: b.Dims.CharName, Line: b.Line})
	}
	return out
}

func categoryProfile(name string, games int, sum model.Summary, captains, cands []rank.Candidate) CategoryProfile {
	return CategoryProfile{
		Category: name,
		Games:    games,
		Totals:   sum,
		WinRate:  sum.WinRate(),
		Captains: rank.Captains(captains),
		Pitchers: rank.Pitchers(cands),
		Batters:  rank.Batters(cands),
	}
}
