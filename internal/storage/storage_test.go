package storage

import (
	"errors"
	"testing"

	"github.com/slurve/dugout/internal/apperr"
	"github.com/slurve/dugout/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seed loads two users, three characters, the four axis tags, and two games:
// game 1 (newer, ranked normal, alice beats bob 5-3, alice captains Mario)
// game 2 (older, unranked superstar, bob beats alice 2-1, alice captains Peach)
func seed(t *testing.T, db *DB) {
	t.Helper()
	for id, name := range map[int64]string{10: "Alice", 11: "Bob"} {
		if err := db.InsertUser(id, name); err != nil {
			t.Fatalf("InsertUser: %v", err)
		}
	}
	chars := []model.Character{{ID: 0, Name: "Mario"}, {ID: 1, Name: "Luigi"}, {ID: 14, Name: "Peach"}}
	if err := db.SeedCharacters(chars); err != nil {
		t.Fatalf("SeedCharacters: %v", err)
	}
	for id, name := range map[int64]string{1: "Ranked", 2: "Unranked", 3: "Stars On", 4: "Stars Off"} {
		if err := db.InsertTag(id, name); err != nil {
			t.Fatalf("InsertTag: %v", err)
		}
	}

	games := []model.Game{
		{ID: 1, Timestamp: 2000, AwayUserID: 10, HomeUserID: 11, AwayScore: 5, HomeScore: 3, InningsPlayed: 9, InningsSelected: 9},
		{ID: 2, Timestamp: 1000, AwayUserID: 11, HomeUserID: 10, AwayScore: 2, HomeScore: 1, InningsPlayed: 7, InningsSelected: 9},
	}
	for _, g := range games {
		if err := db.InsertGame(g); err != nil {
			t.Fatalf("InsertGame: %v", err)
		}
	}
	for _, gt := range [][2]int64{{1, 1}, {1, 4}, {2, 2}, {2, 3}} {
		if err := db.TagGame(gt[0], gt[1]); err != nil {
			t.Fatalf("TagGame: %v", err)
		}
	}

	rows := []CharGameRow{
		{GameID: 1, UserID: 10, CharID: 0, Captain: true,
			Hits: 2, AtBats: 4, RBI: 3, Singles: 1, Homeruns: 1,
			Pitching: model.PitchingSummary{RunsAllowed: 3, OutsPitched: 27, PitchesThrown: 80}},
		{GameID: 1, UserID: 10, CharID: 1,
			Hits: 1, AtBats: 3, Singles: 1},
		{GameID: 1, UserID: 11, CharID: 14, Captain: true,
			Hits: 3, AtBats: 5, RBI: 1, Singles: 3},
		{GameID: 2, UserID: 10, CharID: 14, Captain: true,
			Hits: 1, AtBats: 4, Singles: 1},
	}
	if err := db.InsertCharGameRows(rows); err != nil {
		t.Fatalf("InsertCharGameRows: %v", err)
	}

	swings := []SwingRow{
		{GameID: 1, UserID: 10, CharID: 0, Swing: int(model.SwingSlap),
			Line: model.BattingContact{FairHits: 2, FoulHits: 1, UnknownHits: 1, Singles: 1, PlateAppearances: 3}},
		{GameID: 1, UserID: 10, CharID: 0, Swing: int(model.SwingCharge),
			Line: model.BattingContact{FairHits: 1, Homeruns: 1, PlateAppearances: 1, RBI: 2}},
	}
	if err := db.InsertSwingRows(swings); err != nil {
		t.Fatalf("InsertSwingRows: %v", err)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	ids, err := db.ResolveUsers([]string{"alice", "BOB"})
	if err != nil {
		t.Fatalf("ResolveUsers: %v", err)
	}
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 11 {
		t.Errorf("ids = %v, want [10 11] in input order", ids)
	}

	tagIDs, err := db.ResolveTags([]string{"stars off", "RANKED"})
	if err != nil {
		t.Fatalf("ResolveTags: %v", err)
	}
	if len(tagIDs) != 2 || tagIDs[0] != 4 || tagIDs[1] != 1 {
		t.Errorf("tag ids = %v, want [4 1]", tagIDs)
	}
}

func TestResolveUnknown(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	_, err := db.ResolveUsers([]string{"alice", "mallory"})
	var ur *apperr.UnknownReference
	if !errors.As(err, &ur) {
		t.Fatalf("got %v, want UnknownReference", err)
	}
	if ur.Kind != "username" || ur.Value != "mallory" {
		t.Errorf("offender = %+v", ur)
	}

	if _, err := db.ResolveTags([]string{"casual"}); !errors.As(err, &ur) || ur.Kind != "tag" {
		t.Errorf("unknown tag: got %v", err)
	}
}

func TestFetchGamesNewestFirstWithAnnotations(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	games, err := db.FetchGames(GamesFilter{})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 2 || games[0].ID != 1 || games[1].ID != 2 {
		t.Fatalf("order = %v, want newest first", games)
	}
	g := games[0]
	if g.AwayUser != "Alice" || g.HomeUser != "Bob" {
		t.Errorf("usernames = %q vs %q", g.AwayUser, g.HomeUser)
	}
	if g.AwayCaptain != "Mario" || g.HomeCaptain != "Peach" {
		t.Errorf("captains = %q vs %q", g.AwayCaptain, g.HomeCaptain)
	}
	if len(g.TagIDs) != 2 || len(g.Tags) != 2 {
		t.Errorf("tags not annotated: %v %v", g.TagIDs, g.Tags)
	}
}

func TestFetchGamesPredicates(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	// required tag superset
	games, err := db.FetchGames(GamesFilter{RequiredTagIDs: []int64{1, 4}})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 1 {
		t.Errorf("tag superset: got %v", games)
	}

	// excluded tag
	games, err = db.FetchGames(GamesFilter{ExcludedTagIDs: []int64{3}})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 1 {
		t.Errorf("excluded tag: got %v", games)
	}

	// window [1500, 2500) keeps only the newer game
	games, err = db.FetchGames(GamesFilter{EndUnix: 1500, StartUnix: 2500})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 1 {
		t.Errorf("window: got %v", games)
	}

	// limit after ordering
	games, err = db.FetchGames(GamesFilter{Limit: 1})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 1 {
		t.Errorf("limit: got %v", games)
	}

	// explicit ids
	games, err = db.FetchGames(GamesFilter{GameIDs: []int64{2}})
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 2 {
		t.Errorf("explicit ids: got %v", games)
	}
}

func TestGamesExist(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	if err := db.GamesExist([]int64{1, 2}); err != nil {
		t.Errorf("existing games: %v", err)
	}
	err := db.GamesExist([]int64{1, 99})
	var ur *apperr.UnknownReference
	if !errors.As(err, &ur) || ur.Kind != "game" || ur.Value != "99" {
		t.Errorf("missing game: got %v", err)
	}
}

func TestListCharacters(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	chars, err := db.ListCharacters()
	if err != nil {
		t.Fatalf("ListCharacters: %v", err)
	}
	if len(chars) != 3 || chars[0].Name != "Mario" || chars[2].Name != "Peach" {
		t.Errorf("roster = %v", chars)
	}
}

func TestSummaryRowsScoped(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	rows, err := db.SummaryRows(nil, []int64{10}, nil)
	if err != nil {
		t.Fatalf("SummaryRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	var captains int
	for _, r := range rows {
		if r.Username != "Alice" {
			t.Errorf("row user = %q", r.Username)
		}
		if r.Line.Wins != 0 || r.Line.Losses != 0 {
			t.Errorf("win/loss must not come from storage: %+v", r.Line)
		}
		if r.Captain {
			captains++
		}
	}
	if captains != 2 {
		t.Errorf("captain rows = %d, want 2", captains)
	}

	// character scope
	rows, err = db.SummaryRows(nil, []int64{10}, []int64{0})
	if err != nil {
		t.Fatalf("SummaryRows: %v", err)
	}
	if len(rows) != 1 || rows[0].CharName != "Mario" || rows[0].Line.RBI != 3 {
		t.Errorf("char scope: %+v", rows)
	}
}

func TestBattingContactRowsNonFair(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	rows, err := db.BattingContactRows(nil, nil, nil, true)
	if err != nil {
		t.Fatalf("BattingContactRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	var foul int
	for _, r := range rows {
		foul += r.Line.FoulHits + r.Line.UnknownHits
	}
	if foul != 2 {
		t.Errorf("included non-fair count = %d, want 2", foul)
	}

	rows, err = db.BattingContactRows(nil, nil, nil, false)
	if err != nil {
		t.Fatalf("BattingContactRows: %v", err)
	}
	for _, r := range rows {
		if r.Line.FoulHits != 0 || r.Line.UnknownHits != 0 {
			t.Errorf("non-fair counts must be dropped at the source: %+v", r.Line)
		}
		if r.Line.FairHits == 0 {
			t.Errorf("fair hits must survive: %+v", r.Line)
		}
	}
}

func TestPitchingRows(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	rows, err := db.PitchingSummaryRows([]int64{1}, []int64{10}, nil)
	if err != nil {
		t.Fatalf("PitchingSummaryRows: %v", err)
	}
	var found bool
	for _, r := range rows {
		if r.CharID == 0 {
			found = true
			if r.Line.RunsAllowed != 3 || r.Line.OutsPitched != 27 || r.Line.PitchesThrown != 80 {
				t.Errorf("pitching line = %+v", r.Line)
			}
		}
	}
	if !found {
		t.Error("no pitching row for Mario")
	}
}

func TestMiscRowsCarryCaptainFlag(t *testing.T) {
	db := openMemDB(t)
	seed(t, db)

	rows, err := db.MiscRows([]int64{1}, []int64{10}, nil)
	if err != nil {
		t.Fatalf("MiscRows: %v", err)
	}
	flags := map[int64]bool{}
	for _, r := range rows {
		flags[r.CharID] = r.Captain
		if r.Line.Wins != 0 || r.Line.Losses != 0 {
			t.Errorf("result must not come from storage: %+v", r.Line)
		}
	}
	if !flags[0] || flags[1] {
		t.Errorf("captain flags = %v, want Mario only", flags)
	}
}
