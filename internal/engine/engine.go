// Package engine orchestrates a request end to end: resolve and validate the
// selection, classify games, fetch and aggregate stat rows, derive and rank.
// All validation happens before any stat row is fetched; a fetch failure
// aborts the whole request with no partial result.
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/category"
	"github.com/slurve/dugout/internal/filter"
	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/storage"
)

// Store is the read surface the engine aggregates over.
type Store interface {
	ResolveTags(names []string) ([]int64, error)
	ResolveUsers(names []string) ([]int64, error)
	FetchGames(f storage.GamesFilter) ([]model.Game, error)
	GamesExist(ids []int64) error
	ListCharacters() ([]model.Character, error)
	SummaryRows(gameIDs, userIDs, charIDs []int64) ([]storage.SummaryRow, error)
	BattingContactRows(gameIDs, userIDs, charIDs []int64, includeNonFair bool) ([]storage.BattingContactRow, error)
	BattingNonContactRows(gameIDs, userIDs, charIDs []int64) ([]storage.BattingNonContactRow, error)
	PitchingSummaryRows(gameIDs, userIDs, charIDs []int64) ([]storage.PitchingSummaryRow, error)
	PitchBreakdownRows(gameIDs, userIDs, charIDs []int64) ([]storage.PitchBreakdownRow, error)
	FieldingPositionRows(gameIDs, userIDs, charIDs []int64) ([]storage.FieldingPositionRow, error)
	FieldingActionRows(gameIDs, userIDs, charIDs []int64) ([]storage.FieldingActionRow, error)
	MiscRows(gameIDs, userIDs, charIDs []int64) ([]storage.MiscRow, error)
}

// Engine is the stat pipeline orchestrator. It holds no per-request state.
type Engine struct {
	store    Store
	resolver *filter.Resolver
	table    category.Table
	log      *zap.Logger
	recent   int
}

// New builds an engine. recentGames bounds the profile's recent-game listing.
func New(store Store, table category.Table, recentGames int, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if recentGames <= 0 {
		recentGames = 10
	}
	return &Engine{
		store:    store,
		resolver: filter.NewResolver(store),
		table:    table,
		log:      log,
		recent:   recentGames,
	}
}

// Games resolves the filter and returns the matching games, newest first,
// annotated with tags and captain names.
func (e *Engine) Games(ctx context.Context, req filter.Request) ([]model.Game, error) {
	resolved, err := e.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}
	games, err := e.store.FetchGames(resolved.Games)
	if err != nil {
		return nil, storeErr("fetch games", err)
	}
	return games, nil
}

// Characters returns the roster.
func (e *Engine) Characters(ctx context.Context) ([]model.Character, error) {
	chars, err := e.store.ListCharacters()
	if err != nil {
		return nil, storeErr("list characters", err)
	}
	return chars, nil
}

// storeErr passes typed validation errors through untouched and wraps
// everything else as an upstream failure.
func storeErr(op string, err error) error {
	var ur *apperr.UnknownReference
	if errors.As(err, &ur) {
		return err
	}
	return &apperr.UpstreamFailure{Op: op, Err: err}
}
