// Package filter turns caller-supplied names, dates, and ids into a validated,
// id-level game selection. All validation happens here, before any stat row
// is fetched.
package filter

import (
	"fmt"
	"time"

	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/storage"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Store is the name-resolution surface the resolver needs.
type Store interface {
	ResolveTags(names []string) ([]int64, error)
	ResolveUsers(names []string) ([]int64, error)
}

// Request is the raw, name-level selection as it arrives from a handler or
// CLI flag. Empty fields are wildcards.
type Request struct {
	Users       []string
	VsUsers     []string
	Tags        []string
	ExcludeTags []string
	StartDate   string // exclusive upper bound, newest side
	EndDate     string // inclusive lower bound, oldest side
	CharIDs     []int64
	Limit       int
}

// Resolved is the id-level selection ready for storage.
type Resolved struct {
	Games   storage.GamesFilter
	UserIDs []int64
	CharIDs []int64
}

// Resolver validates requests against the store's known names.
type Resolver struct {
	store Store
	now   func() time.Time
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve validates the request and maps every name to its id. The first
// failure wins; nothing is fetched on a partial resolution.
func (r *Resolver) Resolve(req Request) (*Resolved, error) {
	for _, id := range req.CharIDs {
		if id < 0 || id > model.MaxCharacterID {
			return nil, &apperr.RangeError{
				Field:  "char_id",
				Reason: fmt.Sprintf("%d outside 0..%d", id, model.MaxCharacterID),
			}
		}
	}
	if req.Limit < 0 {
		return nil, &apperr.RangeError{Field: "limit", Reason: "must not be negative"}
	}

	start, end, err := r.window(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	userIDs, err := r.store.ResolveUsers(req.Users)
	if err != nil {
		return nil, err
	}
	vsIDs, err := r.store.ResolveUsers(req.VsUsers)
	if err != nil {
		return nil, err
	}
	tagIDs, err := r.store.ResolveTags(req.Tags)
	if err != nil {
		return nil, err
	}
	excludeIDs, err := r.store.ResolveTags(req.ExcludeTags)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Games: storage.GamesFilter{
			ParticipantIDs: userIDs,
			VsUserIDs:      vsIDs,
			RequiredTagIDs: tagIDs,
			ExcludedTagIDs: excludeIDs,
			StartUnix:      start,
			EndUnix:        end,
			Limit:          req.Limit,
		},
		UserIDs: userIDs,
		CharIDs: req.CharIDs,
	}, nil
}

// window parses the half-open date window [end, start). Dates are midnight
// UTC; an absent start means now, an absent end means unbounded. Dates at or
// before the epoch are rejected outright: a non-positive unix value reads as
// "unbounded" downstream and would drop the bound silently.
func (r *Resolver) window(startDate, endDate string) (start, end int64, err error) {
	start = r.now().Unix()
	if startDate != "" {
		if start, err = parseDate("start_date", startDate); err != nil {
			return 0, 0, err
		}
	}
	if endDate != "" {
		if end, err = parseDate("end_date", endDate); err != nil {
			return 0, 0, err
		}
	}
	if end > 0 && end >= start {
		return 0, 0, &apperr.RangeError{
			Field:  "date window",
			Reason: "end_date must fall before start_date",
		}
	}
	return start, end, nil
}

func parseDate(field, value string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return 0, &apperr.InvalidDate{Value: value}
	}
	unix := t.Unix()
	if unix <= 0 {
		return 0, &apperr.RangeError{Field: field, Reason: "must fall after 1970-01-01"}
	}
	return unix, nil
}
