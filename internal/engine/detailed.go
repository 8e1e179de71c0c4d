package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/slurve/dugout/internal/aggregator"
	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/filter"
	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/storage"
	"github.com/slurve/dugout/internal/tree"
)

// Stat domain names, the innermost fixed level of the result tree.
const (
	domainBatting  = "Batting"
	domainPitching = "Pitching"
	domainFielding = "Fielding"
	domainMisc     = "Misc"
)

// DetailedQuery selects the game set (explicit ids, or filter params when the
// list is empty), restricts to users and characters, and picks the grouping.
type DetailedQuery struct {
	GameIDs []int64
	Filter  filter.Request
	Users   []string
	CharIDs []int64

	ByUser         bool
	ByChar         bool
	BySwing        bool
	ExcludeNonFair bool
}

// Detailed runs the four stat domains over the selected games and merges
// their buckets into one result tree. The domain fetches run concurrently;
// any failure aborts the request before the tree is built.
func (e *Engine) Detailed(ctx context.Context, q DetailedQuery) (tree.Tree, error) {
	for _, id := range q.CharIDs {
		if id < 0 || id > model.MaxCharacterID {
			return nil, &apperr.RangeError{
				Field:  "char_id",
				Reason: fmt.Sprintf("%d outside 0..%d", id, model.MaxCharacterID),
			}
		}
	}
	userIDs, err := e.store.ResolveUsers(q.Users)
	if err != nil {
		return nil, storeErr("resolve users", err)
	}

	var games []model.Game
	if len(q.GameIDs) > 0 {
		if err := e.store.GamesExist(q.GameIDs); err != nil {
			return nil, storeErr("verify games", err)
		}
		games, err = e.store.FetchGames(storage.GamesFilter{GameIDs: q.GameIDs})
		if err != nil {
			return nil, storeErr("fetch games", err)
		}
	} else {
		resolved, rerr := e.resolver.Resolve(q.Filter)
		if rerr != nil {
			return nil, rerr
		}
		games, err = e.store.FetchGames(resolved.Games)
		if err != nil {
			return nil, storeErr("fetch games", err)
		}
	}
	if len(games) == 0 {
		return tree.New(), nil
	}
	gameIDs := make([]int64, len(games))
	byID := make(map[int64]*model.Game, len(games))
	for i := range games {
		gameIDs[i] = games[i].ID
		byID[games[i].ID] = &games[i]
	}

	var (
		contact    []storage.BattingContactRow
		noncontact []storage.BattingNonContactRow
		pitching   []storage.PitchingSummaryRow
		pitches    []storage.PitchBreakdownRow
		positions  []storage.FieldingPositionRow
		actions    []storage.FieldingActionRow
		miscRows   []storage.MiscRow
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if contact, err = e.store.BattingContactRows(gameIDs, userIDs, q.CharIDs, !q.ExcludeNonFair); err != nil {
			return storeErr("fetch batting contact", err)
		}
		if noncontact, err = e.store.BattingNonContactRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch batting noncontact", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if pitching, err = e.store.PitchingSummaryRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch pitching summary", err)
		}
		if pitches, err = e.store.PitchBreakdownRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch pitch breakdown", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if positions, err = e.store.FieldingPositionRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch fielding position", err)
		}
		if actions, err = e.store.FieldingActionRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch fielding action", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if miscRows, err = e.store.MiscRows(gameIDs, userIDs, q.CharIDs); err != nil {
			return storeErr("fetch misc", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Attribute the game result once per (game, user), on the captain row.
	for i := range miscRows {
		if !miscRows[i].Captain {
			continue
		}
		gm := byID[miscRows[i].GameID]
		if gm.WonBy(miscRows[i].UserID) {
			miscRows[i].Line.Wins = 1
		} else if gm.LostBy(miscRows[i].UserID) {
			miscRows[i].Line.Losses = 1
		}
	}

	flags := aggregator.Flags{ByUser: q.ByUser, ByChar: q.ByChar}
	swingFlags := flags
	swingFlags.BySwing = q.BySwing
	t := tree.New()

	cset := aggregator.NewSet[model.BattingContact](aggregator.NewProjection(swingFlags))
	for _, r := range contact {
		cset.Add(aggregator.Dims{
			UserID: r.UserID, Username: r.Username,
			CharID: r.CharID, CharName: r.CharName,
			Swing: r.Swing,
		}, r.Line)
	}
	for _, b := range cset.Buckets() {
		t.Put(e.log, e.path(q, b.Dims, domainBatting, q.BySwing), b.Line.Metrics())
	}

	merge(t, e, q, noncontact, domainBatting, flags,
		func(r storage.BattingNonContactRow) (storage.RowID, model.BattingNonContact) { return r.RowID, r.Line })
	merge(t, e, q, pitching, domainPitching, flags,
		func(r storage.PitchingSummaryRow) (storage.RowID, model.PitchingSummary) { return r.RowID, r.Line })
	merge(t, e, q, pitches, domainPitching, flags,
		func(r storage.PitchBreakdownRow) (storage.RowID, model.PitchBreakdown) { return r.RowID, r.Line })
	merge(t, e, q, positions, domainFielding, flags,
		func(r storage.FieldingPositionRow) (storage.RowID, model.FieldingPosition) { return r.RowID, r.Line })
	merge(t, e, q, actions, domainFielding, flags,
		func(r storage.FieldingActionRow) (storage.RowID, model.FieldingAction) { return r.RowID, r.Line })
	merge(t, e, q, miscRows, domainMisc, flags,
		func(r storage.MiscRow) (storage.RowID, model.Misc) { return r.RowID, r.Line })

	return t, nil
}

// metricLine is a counting line that can render its tree leaf.
type metricLine[T any] interface {
	aggregator.Line[T]
	Metrics() map[string]any
}

// merge aggregates one row slice and writes its buckets into the tree.
func merge[R any, T metricLine[T]](t tree.Tree, e *Engine, q DetailedQuery, rows []R, domain string, flags aggregator.Flags, split func(R) (storage.RowID, T)) {
	set := aggregator.NewSet[T](aggregator.NewProjection(flags))
	for _, r := range rows {
		id, line := split(r)
		set.Add(aggregator.Dims{
			UserID: id.UserID, Username: id.Username,
			CharID: id.CharID, CharName: id.CharName,
		}, line)
	}
	for _, b := range set.Buckets() {
		t.Put(e.log, e.path(q, b.Dims, domain, false), b.Line.Metrics())
	}
}

// path builds a leaf's key path: username, character name, domain, then the
// swing name for by-swing batting buckets. Inactive levels are skipped.
func (e *Engine) path(q DetailedQuery, d aggregator.Dims, domain string, swing bool) []string {
	path := make([]string, 0, 4)
	if q.ByUser {
		path = append(path, d.Username)
	}
	if q.ByChar {
		path = append(path, d.CharName)
	}
	path = append(path, domain)
	if swing && q.BySwing {
		path = append(path, d.Swing.String())
	}
	return path
}
