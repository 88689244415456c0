// Game routes: session creation plus the engine transition endpoints.
//
// Every mutating handler follows the same shape: decode, look up the
// session, take its lock (the transition functions are single-writer),
// call the engine, persist the session, report. When a transition
// solves the session the handler hands the score report to the
// persistence layer for the owner (user or anonymous cookie).
package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/scores"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/session"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/store"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/sudoku"
)

// Defaults used when the client does not specify puzzle parameters.
var (
	defaultWords = []string{
		"PUZZLE", "LETTER", "SEARCH", "HIDDEN", "CORNER",
		"STREAK", "MARBLE", "ROCKET", "GARDEN", "PLANET",
	}
	defaultSymbols = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
)

const (
	defaultWordGridSize = 10
	defaultSlideSize    = 4
	defaultPhotoSize    = 3
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Delete("/{id}", s.handleDeleteGame)
		r.Post("/sudoku/move", s.handleSudokuMove)
		r.Post("/sudoku/hint", s.handleSudokuHint)
		r.Post("/wordsearch/select", s.handleSelect)
		r.Post("/tiles/swap", s.handleSwap)
		r.Post("/tiles/slide", s.handleSlide)
		r.Post("/memory/flip", s.handleFlip)
		r.Post("/undo", s.handleUndo)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
	})
}

// -----------------------------------------------------------------------------
// /game/new

type newGameReq struct {
	GameType   string   `json:"gameType"`
	Difficulty string   `json:"difficulty"` // sudoku only
	Size       int      `json:"size"`       // wordsearch grid edge
	Words      []string `json:"words"`      // wordsearch input list
	Cols       int      `json:"cols"`       // tile boards
	Rows       int      `json:"rows"`       // tile boards
	Steps      int      `json:"steps"`      // slide shuffle walk length
	Symbols    []string `json:"symbols"`    // memory pairs
	Seed       int64    `json:"seed"`       // fixed rng seed (testing)
}

// rngFromSeed returns a seeded source for deterministic generation, or
// nil so the engines fall back to a time-seeded one.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

// handleNewGame generates a puzzle of the requested type and stores the
// fresh session. The response is the player view; the sudoku solution
// never leaves the server.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	rng := rngFromSeed(req.Seed)

	var (
		sess *session.Session
		err  error
	)
	switch session.GameType(req.GameType) {
	case session.GameSudoku:
		diff := sudoku.Medium
		if req.Difficulty != "" {
			if diff, err = sudoku.ParseDifficulty(req.Difficulty); err != nil {
				http.Error(w, `{"error":"bad_difficulty"}`, http.StatusBadRequest)
				return
			}
		}
		sess, err = session.NewSudoku(diff, sudoku.Options{EnsureUnique: true, Rng: rng})
	case session.GameWordSearch:
		words := req.Words
		if len(words) == 0 {
			words = defaultWords
		}
		size := req.Size
		if size <= 0 {
			size = defaultWordGridSize
		}
		sess, err = session.NewWordSearch(words, size, rng)
	case session.GameSliding:
		cols, rows := dims(req.Cols, req.Rows, defaultSlideSize)
		sess, err = session.NewSliding(cols, rows, req.Steps, rng)
	case session.GamePhoto:
		cols, rows := dims(req.Cols, req.Rows, defaultPhotoSize)
		sess, err = session.NewPhoto(cols, rows, rng)
	case session.GameMemory:
		symbols := req.Symbols
		if len(symbols) == 0 {
			symbols = defaultSymbols
		}
		sess, err = session.NewMemory(symbols, rng)
	default:
		http.Error(w, `{"error":"bad_game_type"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameType", req.GameType).Msg("generate puzzle")
		http.Error(w, `{"error":"generation_failed"}`, http.StatusInternalServerError)
		return
	}

	if sess.Type == session.GameWordSearch && len(sess.Words.Skipped) > 0 {
		log.Info().
			Int("placed", len(sess.Words.Placements)).
			Int("requested", len(sess.Words.Placements)+len(sess.Words.Skipped)).
			Msg("word search generated with unplaceable words skipped")
	}

	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionView(sess))
}

func dims(cols, rows, def int) (int, int) {
	if cols <= 0 {
		cols = def
	}
	if rows <= 0 {
		rows = def
	}
	return cols, rows
}

// -----------------------------------------------------------------------------
// session fetch / discard

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(sessionView(sess))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.getSession(w, r, id); !ok {
		return
	}
	_ = s.store.Delete(r.Context(), id)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// -----------------------------------------------------------------------------
// sudoku

type sudokuMoveReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Value  uint8  `json:"value"`
}

func (s *Server) handleSudokuMove(w http.ResponseWriter, r *http.Request) {
	var req sudokuMoveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	res, err := sess.SudokuMove(req.Row, req.Col, req.Value)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"correct": res.Correct,
		"solved":  res.Solved,
		"session": sessionView(sess),
	})
}

type sudokuHintReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

func (s *Server) handleSudokuHint(w http.ResponseWriter, r *http.Request) {
	var req sudokuHintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	v, err := sess.SudokuHint(req.Row, req.Col)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"value":   v,
		"solved":  sess.Solved(),
		"session": sessionView(sess),
	})
}

// -----------------------------------------------------------------------------
// word search

type selectReq struct {
	GameID string       `json:"gameId"`
	Cells  []grid.Coord `json:"cells"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	word, found, err := sess.SelectRange(req.Cells)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	out := map[string]any{
		"found":   found,
		"solved":  sess.Solved(),
		"session": sessionView(sess),
	}
	if found {
		out["word"] = word
	} else {
		out["word"] = nil
	}
	_ = json.NewEncoder(w).Encode(out)
}

// -----------------------------------------------------------------------------
// tile boards

type tileMoveReq struct {
	GameID string `json:"gameId"`
	A      int    `json:"a"`
	B      int    `json:"b"`
	Index  int    `json:"index"`
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req tileMoveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	solved, err := sess.SwapTiles(req.A, req.B)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{"solved": solved, "session": sessionView(sess)})
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	var req tileMoveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	solved, err := sess.SlideTile(req.Index)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{"solved": solved, "session": sessionView(sess)})
}

// -----------------------------------------------------------------------------
// memory

type flipReq struct {
	GameID string `json:"gameId"`
	Index  int    `json:"index"`
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	var req flipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	res, err := sess.FlipCard(req.Index)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	s.afterMutation(w, r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"index":     res.Index,
		"symbol":    sess.Memory.Cards[res.Index].Symbol,
		"pairDone":  res.PairDone,
		"match":     res.Match,
		"otherCard": res.OtherCard,
		"solved":    sess.Solved(),
		"session":   sessionView(sess),
	})
}

// -----------------------------------------------------------------------------
// shared session actions

type gameIDReq struct {
	GameID string `json:"gameId"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req gameIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	undone, err := sess.Undo()
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"undone": undone, "session": sessionView(sess)})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.handleClock(w, r, (*session.Session).Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.handleClock(w, r, (*session.Session).Resume)
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request, op func(*session.Session) error) {
	var req gameIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.getSession(w, r, req.GameID)
	if !ok {
		return
	}
	unlock := s.store.Lock(sess.ID)
	defer unlock()

	if err := op(sess); err != nil {
		writeEngineErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionView(sess))
}

// -----------------------------------------------------------------------------
// leaderboard

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameType := r.URL.Query().Get("gameType")
	difficulty := r.URL.Query().Get("difficulty")
	if gameType == "" || difficulty == "" {
		http.Error(w, `{"error":"gameType and difficulty required"}`, http.StatusBadRequest)
		return
	}
	rows, err := s.scores.Leaderboard(r.Context(), gameType, difficulty, 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"gameType":   gameType,
		"difficulty": difficulty,
		"top":        rows,
	})
}

// -----------------------------------------------------------------------------
// helpers

func (s *Server) getSession(w http.ResponseWriter, r *http.Request, id string) (*session.Session, bool) {
	if id == "" {
		http.Error(w, `{"error":"missing_game_id"}`, http.StatusBadRequest)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// writeEngineErr maps the session error taxonomy to HTTP statuses.
// Recoverable errors left the session unchanged.
func writeEngineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidSelection):
		http.Error(w, `{"error":"invalid_selection"}`, http.StatusBadRequest)
	case errors.Is(err, session.ErrIllegalTransition):
		http.Error(w, `{"error":"illegal_transition"}`, http.StatusConflict)
	case errors.Is(err, session.ErrWrongGame):
		http.Error(w, `{"error":"wrong_game_type"}`, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	default:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

// afterMutation persists the session and, on a solve, records the score
// for the owner. Score persistence is best effort and non-fatal.
func (s *Server) afterMutation(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("save session")
	}
	report := sess.Report()
	if report == nil {
		return
	}

	res := scores.FromReport(sess.ID, report)
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me != nil {
		res.UserID = me.ID
	} else {
		res.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.scores.Insert(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert result")
	}
	if me != nil {
		if err := s.bumpStats(me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}

// sessionView renders the player-facing state for one session. The
// sudoku solution and face-down memory symbols stay server-side.
func sessionView(sess *session.Session) map[string]any {
	out := map[string]any{
		"id":         sess.ID,
		"gameType":   sess.Type,
		"difficulty": sess.Difficulty,
		"state":      sess.State,
		"paused":     sess.Paused,
		"moves":      sess.Moves,
		"elapsedMs":  sess.ElapsedMs(),
	}
	switch sess.Type {
	case session.GameSudoku:
		out["board"] = sess.Sudoku.Board
		out["given"] = sess.Sudoku.Given
		out["mistakes"] = sess.Mistakes
	case session.GameWordSearch:
		words := make([]string, len(sess.Words.Placements))
		foundWords := make([]string, 0, len(sess.Words.Placements))
		for i := range sess.Words.Placements {
			words[i] = sess.Words.Placements[i].Word
			if sess.Words.Placements[i].Found {
				foundWords = append(foundWords, sess.Words.Placements[i].Word)
			}
		}
		out["rows"] = sess.Words.Rows()
		out["words"] = words
		out["foundWords"] = foundWords
		out["foundCells"] = sess.Words.FoundCells
		out["skipped"] = sess.Words.Skipped
	case session.GameSliding, session.GamePhoto:
		out["cols"] = sess.Board.Cols
		out["rows"] = sess.Board.Rows
		out["tiles"] = sess.Board.Tiles
		out["blank"] = sess.Board.Blank
	case session.GameMemory:
		cards := make([]map[string]any, len(sess.Memory.Cards))
		for i, c := range sess.Memory.Cards {
			v := map[string]any{"faceUp": c.FaceUp, "matched": c.Matched}
			if c.FaceUp || c.Matched {
				v["symbol"] = c.Symbol
			}
			cards[i] = v
		}
		out["cards"] = cards
	}
	return out
}
