package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return New(store.NewMemoryStore(), db)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("health = %d %v", rec.Code, out)
	}
}

func TestNewGameRejectsUnknownType(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodPost, "/game/new", map[string]any{"gameType": "chess"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSolveFlowRecordsGuestScore(t *testing.T) {
	s := newTestServer(t)

	// A 2x1 photo board always shuffles to the single non-identity
	// permutation, so one swap solves it.
	rec, out := doJSON(t, s, http.MethodPost, "/game/new", map[string]any{
		"gameType": "photo", "cols": 2, "rows": 1, "seed": 42,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("new game = %d: %s", rec.Code, rec.Body.String())
	}
	gameID, _ := out["id"].(string)
	if gameID == "" {
		t.Fatalf("no game id in %v", out)
	}

	rec, out = doJSON(t, s, http.MethodPost, "/game/tiles/swap", map[string]any{
		"gameId": gameID, "a": 0, "b": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("swap = %d: %s", rec.Code, rec.Body.String())
	}
	if out["solved"] != true {
		t.Fatalf("swap response = %v, want solved", out)
	}

	rec, out = doJSON(t, s, http.MethodGet, "/scores/leaderboard?gameType=photo&difficulty=2x1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard = %d", rec.Code)
	}
	top, _ := out["top"].([]any)
	if len(top) != 1 {
		t.Fatalf("leaderboard rows = %v, want 1 guest entry", out["top"])
	}
	row, _ := top[0].(map[string]any)
	if row["owner"] != "guest" || row["moves"] != float64(1) {
		t.Errorf("leaderboard row = %v", row)
	}
}

func TestMutationAfterSolveIsRejected(t *testing.T) {
	s := newTestServer(t)
	_, out := doJSON(t, s, http.MethodPost, "/game/new", map[string]any{
		"gameType": "photo", "cols": 2, "rows": 1,
	})
	gameID, _ := out["id"].(string)

	doJSON(t, s, http.MethodPost, "/game/tiles/swap", map[string]any{"gameId": gameID, "a": 0, "b": 1})
	rec, _ := doJSON(t, s, http.MethodPost, "/game/tiles/swap", map[string]any{"gameId": gameID, "a": 0, "b": 1})
	if rec.Code != http.StatusConflict {
		t.Fatalf("swap after solve = %d, want 409", rec.Code)
	}
}

func TestPauseResume(t *testing.T) {
	s := newTestServer(t)
	_, out := doJSON(t, s, http.MethodPost, "/game/new", map[string]any{
		"gameType": "sudoku", "difficulty": "easy", "seed": 7,
	})
	gameID, _ := out["id"].(string)
	if gameID == "" {
		t.Fatalf("no game id in %v", out)
	}

	rec, out := doJSON(t, s, http.MethodPost, "/game/pause", map[string]any{"gameId": gameID})
	if rec.Code != http.StatusOK || out["paused"] != true {
		t.Fatalf("pause = %d %v", rec.Code, out)
	}
	rec, _ = doJSON(t, s, http.MethodPost, "/game/sudoku/move", map[string]any{
		"gameId": gameID, "row": 0, "col": 0, "value": 1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("move while paused = %d, want 409", rec.Code)
	}
	rec, out = doJSON(t, s, http.MethodPost, "/game/resume", map[string]any{"gameId": gameID})
	if rec.Code != http.StatusOK || out["paused"] != false {
		t.Fatalf("resume = %d %v", rec.Code, out)
	}
}

func TestUnknownGameIs404(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodPost, "/game/undo", map[string]any{"gameId": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
