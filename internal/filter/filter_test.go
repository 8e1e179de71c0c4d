package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slurve/dugout/internal/apperr"
)

// fakeStore resolves from fixed maps the way storage does: case-insensitive,
// typed error on a miss.
type fakeStore struct {
	tags  map[string]int64
	users map[string]int64
}

func (f *fakeStore) ResolveTags(names []string) ([]int64, error) {
	return resolve(f.tags, "tag", names)
}

func (f *fakeStore) ResolveUsers(names []string) ([]int64, error) {
	return resolve(f.users, "username", names)
}

func resolve(m map[string]int64, kind string, names []string) ([]int64, error) {
	var out []int64
	for _, n := range names {
		id, ok := m[strings.ToLower(n)]
		if !ok {
			return nil, &apperr.UnknownReference{Kind: kind, Value: n}
		}
		out = append(out, id)
	}
	return out, nil
}

func newTestResolver() *Resolver {
	r := NewResolver(&fakeStore{
		tags:  map[string]int64{"ranked": 1, "stars off": 4},
		users: map[string]int64{"alice": 10, "bob": 11},
	})
	r.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return r
}

func TestResolveWildcards(t *testing.T) {
	r := newTestResolver()
	got, err := r.Resolve(Request{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	g := got.Games
	if g.ParticipantIDs != nil || g.VsUserIDs != nil || g.RequiredTagIDs != nil || g.ExcludedTagIDs != nil {
		t.Errorf("empty lists must stay wildcards: %+v", g)
	}
	if g.EndUnix != 0 {
		t.Errorf("absent end date must be unbounded, got %d", g.EndUnix)
	}
	if g.StartUnix != r.now().Unix() {
		t.Errorf("absent start date must default to now")
	}
}

func TestResolveNames(t *testing.T) {
	r := newTestResolver()
	got, err := r.Resolve(Request{
		Users:   []string{"Alice"},
		VsUsers: []string{"BOB"},
		Tags:    []string{"Ranked"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Games.ParticipantIDs) != 1 || got.Games.ParticipantIDs[0] != 10 {
		t.Errorf("participants = %v", got.Games.ParticipantIDs)
	}
	if len(got.Games.VsUserIDs) != 1 || got.Games.VsUserIDs[0] != 11 {
		t.Errorf("opponents = %v", got.Games.VsUserIDs)
	}
	if len(got.Games.RequiredTagIDs) != 1 || got.Games.RequiredTagIDs[0] != 1 {
		t.Errorf("tags = %v", got.Games.RequiredTagIDs)
	}
}

func TestUnknownReferences(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(Request{Tags: []string{"ranked", "nope"}})
	var ur *apperr.UnknownReference
	if !errors.As(err, &ur) {
		t.Fatalf("unknown tag: got %v, want UnknownReference", err)
	}
	if ur.Kind != "tag" || ur.Value != "nope" {
		t.Errorf("error must name the offender: %+v", ur)
	}

	_, err = r.Resolve(Request{Users: []string{"mallory"}})
	if !errors.As(err, &ur) || ur.Kind != "username" {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestDateWindow(t *testing.T) {
	r := newTestResolver()
	got, err := r.Resolve(Request{StartDate: "2026-03-01", EndDate: "2026-01-15"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC).Unix()
	if got.Games.StartUnix != start || got.Games.EndUnix != end {
		t.Errorf("window = [%d, %d), want [%d, %d)", got.Games.EndUnix, got.Games.StartUnix, end, start)
	}
}

func TestMalformedDate(t *testing.T) {
	r := newTestResolver()
	for _, bad := range []string{"01/15/2026", "2026-13-40", "yesterday"} {
		_, err := r.Resolve(Request{EndDate: bad})
		var id *apperr.InvalidDate
		if !errors.As(err, &id) {
			t.Errorf("date %q: got %v, want InvalidDate", bad, err)
		}
	}
}

func TestInvertedWindow(t *testing.T) {
	r := newTestResolver()
	_, err := r.Resolve(Request{StartDate: "2026-01-01", EndDate: "2026-02-01"})
	var re *apperr.RangeError
	if !errors.As(err, &re) {
		t.Fatalf("inverted window: got %v, want RangeError", err)
	}
	// end after an implicit now-start is also inverted when in the future
	_, err = r.Resolve(Request{EndDate: "2027-01-01"})
	if !errors.As(err, &re) {
		t.Errorf("future end date against now: got %v, want RangeError", err)
	}
}

func TestPreEpochDatesRejected(t *testing.T) {
	r := newTestResolver()
	var re *apperr.RangeError
	// At or before 1970-01-01 the unix value is <= 0, which downstream reads
	// as an absent bound. Must fail loudly instead.
	for _, bad := range []string{"1970-01-01", "1969-12-31", "1900-06-15"} {
		if _, err := r.Resolve(Request{EndDate: bad}); !errors.As(err, &re) {
			t.Errorf("end %q: got %v, want RangeError", bad, err)
		}
		if _, err := r.Resolve(Request{StartDate: bad}); !errors.As(err, &re) {
			t.Errorf("start %q: got %v, want RangeError", bad, err)
		}
	}
	if _, err := r.Resolve(Request{EndDate: "1970-01-02"}); err != nil {
		t.Errorf("first post-epoch day is valid: %v", err)
	}
}

func TestCharIDRange(t *testing.T) {
	r := newTestResolver()
	if _, err := r.Resolve(Request{CharIDs: []int64{0, 54}}); err != nil {
		t.Errorf("boundary ids are valid: %v", err)
	}
	var re *apperr.RangeError
	if _, err := r.Resolve(Request{CharIDs: []int64{55}}); !errors.As(err, &re) {
		t.Errorf("id 55: got %v, want RangeError", err)
	}
	if _, err := r.Resolve(Request{CharIDs: []int64{-1}}); !errors.As(err, &re) {
		t.Errorf("id -1: got %v, want RangeError", err)
	}
}

func TestNegativeLimit(t *testing.T) {
	r := newTestResolver()
	var re *apperr.RangeError
	if _, err := r.Resolve(Request{Limit: -3}); !errors.As(err, &re) {
		t.Errorf("negative limit: got %v, want RangeError", err)
	}
}
