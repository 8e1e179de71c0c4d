package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/category"
	"github.com/slurve/dugout/internal/config"
	"github.com/slurve/dugout/internal/engine"
	"github.com/slurve/dugout/internal/model"
	"github.com/slurve/dugout/internal/storage"
)

// newTestRouter stands up the full stack over an in-memory database:
// two users, three characters, the four axis tags and two finished games.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

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
	rows := []storage.CharGameRow{
		{GameID: 1, UserID: 10, CharID: 0, Captain: true,
			Hits: 2, AtBats: 4, RBI: 3, Singles: 1, Homeruns: 1,
			Pitching: model.PitchingSummary{RunsAllowed: 3, OutsPitched: 27, PitchesThrown: 80}},
		{GameID: 1, UserID: 11, CharID: 14, Captain: true,
			Hits: 3, AtBats: 5, RBI: 1, Singles: 3},
		{GameID: 2, UserID: 10, CharID: 14, Captain: true,
			Hits: 1, AtBats: 4, Singles: 1},
	}
	if err := db.InsertCharGameRows(rows); err != nil {
		t.Fatalf("InsertCharGameRows: %v", err)
	}

	log := zap.NewNop()
	eng := engine.New(db, category.DefaultTable(), 10, log)
	return New(&config.Config{}, eng, log).Router()
}

func get(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := get(t, router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode(t, w); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestCharactersRoute(t *testing.T) {
	router := newTestRouter(t)
	w := get(t, router, "/characters/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	chars, _ := decode(t, w)["characters"].([]any)
	if len(chars) != 3 {
		t.Fatalf("characters = %v", chars)
	}
	first, _ := chars[0].(map[string]any)
	if first["name"] != "Mario" {
		t.Errorf("first character = %v, want the roster in id order", first)
	}
}

func TestGamesRoute(t *testing.T) {
	router := newTestRouter(t)
	w := get(t, router, "/games/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	games, _ := decode(t, w)["games"].([]any)
	if len(games) != 2 {
		t.Fatalf("games = %v", games)
	}
	newest, _ := games[0].(map[string]any)
	if newest["id"] != float64(1) || newest["away_user"] != "Alice" {
		t.Errorf("newest game = %v", newest)
	}

	w = get(t, router, "/games/?username=alice&recent=1")
	if w.Code != http.StatusOK {
		t.Fatalf("filtered status = %d: %s", w.Code, w.Body.String())
	}
	if games, _ = decode(t, w)["games"].([]any); len(games) != 1 {
		t.Errorf("filtered games = %v, want 1", games)
	}
}

func TestGamesRejectsBadParams(t *testing.T) {
	router := newTestRouter(t)
	if w := get(t, router, "/games/?recent=soon"); w.Code != http.StatusBadRequest {
		t.Errorf("bad recent: status = %d", w.Code)
	}
	if w := get(t, router, "/games/?start_time=yesterday"); w.Code != http.StatusBadRequest {
		t.Errorf("bad start_time: status = %d", w.Code)
	}
	if w := get(t, router, "/games/?username=mallory"); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d", w.Code)
	}
}

func TestProfileRequiresUsername(t *testing.T) {
	router := newTestRouter(t)
	if w := get(t, router, "/profile/stats/"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProfileRoute(t *testing.T) {
	router := newTestRouter(t)
	w := get(t, router, "/profile/stats/?username=alice")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["username"] != "alice" {
		t.Errorf("username = %v", body["username"])
	}
	cats, _ := body["categories"].([]any)
	if len(cats) != 4 {
		t.Fatalf("categories = %v, want the four named slices", cats)
	}
	all, _ := body["all"].(map[string]any)
	totals, _ := all["totals"].(map[string]any)
	if totals["wins"] != float64(1) || totals["losses"] != float64(1) {
		t.Errorf("all totals = %v, want a 1-1 record", totals)
	}
}

func TestProfileUnknownUser(t *testing.T) {
	router := newTestRouter(t)
	if w := get(t, router, "/profile/stats/?username=mallory"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDetailedRoute(t *testing.T) {
	router := newTestRouter(t)
	w := get(t, router, "/detailed_stats/?by_user=true&by_char=true")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	alice, ok := body["Alice"].(map[string]any)
	if !ok {
		t.Fatalf("missing user level: %v", body)
	}
	mario, ok := alice["Mario"].(map[string]any)
	if !ok {
		t.Fatalf("missing character level: %v", alice)
	}
	if _, ok := mario["Pitching"].(map[string]any); !ok {
		t.Errorf("missing Pitching domain: %v", mario)
	}
}

func TestDetailedRejectsBadSelection(t *testing.T) {
	router := newTestRouter(t)
	if w := get(t, router, "/detailed_stats/?character=99"); w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range character: status = %d, want 400", w.Code)
	}
	if w := get(t, router, "/detailed_stats/?character=one"); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric character: status = %d, want 400", w.Code)
	}
	if w := get(t, router, "/detailed_stats/?games=404"); w.Code != http.StatusNotFound {
		t.Errorf("unknown game: status = %d, want 404", w.Code)
	}
}
