// Package session holds the per-game mutable state shared by every
// puzzle type: move counter, mistake counter, pause-aware elapsed
// clock, selection state, and the one-way solved flag. All mutation
// goes through the transition methods here; recoverable problems come
// back as typed errors with the session unchanged.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/sudoku"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/tiles"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/wordsearch"
)

// GameType names the puzzle variant a session hosts.
type GameType string

const (
	GameSudoku     GameType = "sudoku"
	GameWordSearch GameType = "wordsearch"
	GameSliding    GameType = "sliding"
	GamePhoto      GameType = "photo"
	GameMemory     GameType = "memory"
)

// State is the session lifecycle position. Paused is tracked
// separately since it overlays ready/selecting.
type State string

const (
	StateReady     State = "ready"
	StateSelecting State = "selecting"
	StateSolved    State = "solved"
)

var (
	// ErrInvalidSelection rejects out-of-range indices and targets that
	// are givens, already matched, or otherwise not playable. The
	// session is left untouched and the move count does not change.
	ErrInvalidSelection = errors.New("session: invalid selection")
	// ErrIllegalTransition rejects mutating actions while the session
	// is paused or solved.
	ErrIllegalTransition = errors.New("session: action not allowed in current state")
	// ErrWrongGame rejects an operation aimed at a different puzzle
	// type than the session hosts.
	ErrWrongGame = errors.New("session: operation does not apply to this game type")
)

// Session is the aggregate for one in-progress puzzle.
type Session struct {
	ID         string   `json:"id"`
	Type       GameType `json:"gameType"`
	Difficulty string   `json:"difficulty"`
	State      State    `json:"state"`
	Paused     bool     `json:"paused"`
	Moves      int      `json:"moves"`
	Mistakes   int      `json:"mistakes"`

	Sudoku *sudoku.Puzzle     `json:"sudoku,omitempty"`
	Words  *wordsearch.Puzzle `json:"words,omitempty"`
	Board  *tiles.Board       `json:"board,omitempty"`
	Memory *tiles.Memory      `json:"memory,omitempty"`

	startedAt    time.Time
	pausedAt     time.Time
	pausedTotal  time.Duration
	finalElapsed time.Duration
}

// MoveResult reports a sudoku move check.
type MoveResult struct {
	Correct bool `json:"correct"`
	Solved  bool `json:"solved"`
}

// ScoreReport is what the caller hands to the persistence collaborator
// when a session solves.
type ScoreReport struct {
	GameType   GameType `json:"gameType"`
	Difficulty string   `json:"difficulty"`
	Moves      int      `json:"moves"`
	ElapsedMs  int64    `json:"elapsedMs"`
}

// NewSudoku generates a sudoku puzzle and wraps it in a fresh session.
func NewSudoku(d sudoku.Difficulty, opt sudoku.Options) (*Session, error) {
	p, err := sudoku.Generate(d, opt)
	if err != nil {
		return nil, err
	}
	s := newSession(GameSudoku, d.String())
	s.Sudoku = p
	return s, nil
}

// NewWordSearch places words into a size x size grid in a fresh
// session. Words that could not be placed are reported on the puzzle.
func NewWordSearch(words []string, size int, rng *mrand.Rand) (*Session, error) {
	p, err := wordsearch.Generate(words, size, rng)
	if err != nil {
		return nil, err
	}
	s := newSession(GameWordSearch, fmt.Sprintf("%dx%d", size, size))
	s.Words = p
	return s, nil
}

// NewSliding shuffles a slide board by random walk from solved.
func NewSliding(cols, rows, steps int, rng *mrand.Rand) (*Session, error) {
	b, err := tiles.NewSliding(cols, rows, steps, rng)
	if err != nil {
		return nil, err
	}
	s := newSession(GameSliding, fmt.Sprintf("%dx%d", cols, rows))
	s.Board = b
	return s, nil
}

// NewPhoto shuffles a free-swap photo board.
func NewPhoto(cols, rows int, rng *mrand.Rand) (*Session, error) {
	b, err := tiles.NewFreeSwap(cols, rows, rng)
	if err != nil {
		return nil, err
	}
	s := newSession(GamePhoto, fmt.Sprintf("%dx%d", cols, rows))
	s.Board = b
	return s, nil
}

// NewMemory deals a shuffled pair deck.
func NewMemory(symbols []string, rng *mrand.Rand) (*Session, error) {
	m, err := tiles.NewMemory(symbols, rng)
	if err != nil {
		return nil, err
	}
	s := newSession(GameMemory, fmt.Sprintf("%d-pairs", len(symbols)))
	s.Memory = m
	return s, nil
}

func newSession(t GameType, difficulty string) *Session {
	return &Session{
		ID:         randomID(),
		Type:       t,
		Difficulty: difficulty,
		State:      StateReady,
		startedAt:  time.Now(),
	}
}

// guard rejects mutation while paused or solved.
func (s *Session) guard() error {
	if s.Paused || s.State == StateSolved {
		return ErrIllegalTransition
	}
	return nil
}

// SudokuMove checks v against the solution at (row, col). A wrong value
// counts a mistake; a correct one is written in and may solve the
// session. Either way the check commits one move.
func (s *Session) SudokuMove(row, col int, v uint8) (MoveResult, error) {
	if err := s.guard(); err != nil {
		return MoveResult{}, err
	}
	if s.Type != GameSudoku {
		return MoveResult{}, ErrWrongGame
	}
	if !grid.InBounds(sudoku.Size, row, col) || v < 1 || v > 9 {
		return MoveResult{}, ErrInvalidSelection
	}
	if s.Sudoku.Given[row][col] || s.Sudoku.Board[row][col] != 0 {
		return MoveResult{}, ErrInvalidSelection
	}

	correct, solved := s.Sudoku.CheckMove(row, col, v)
	s.Moves++
	if !correct {
		s.Mistakes++
	}
	if solved {
		s.finish()
	}
	return MoveResult{Correct: correct, Solved: solved}, nil
}

// SudokuHint fills (row, col) from the stored solution. Hints never
// touch the move count; a hint that completes the grid still solves
// the session.
func (s *Session) SudokuHint(row, col int) (uint8, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	if s.Type != GameSudoku {
		return 0, ErrWrongGame
	}
	if !grid.InBounds(sudoku.Size, row, col) {
		return 0, ErrInvalidSelection
	}
	v, ok := s.Sudoku.Hint(row, col)
	if !ok {
		return 0, ErrInvalidSelection
	}
	if s.Sudoku.Complete() {
		s.finish()
	}
	return v, nil
}

// SelectRange resolves a word-search selection path. An in-bounds path
// commits one move whether or not it matches; the matched word (if
// any) is marked found.
func (s *Session) SelectRange(cells []grid.Coord) (word string, found bool, err error) {
	if err := s.guard(); err != nil {
		return "", false, err
	}
	if s.Type != GameWordSearch {
		return "", false, ErrWrongGame
	}
	if len(cells) == 0 {
		return "", false, ErrInvalidSelection
	}
	for _, c := range cells {
		if !grid.InBounds(s.Words.Size, c.Row, c.Col) {
			return "", false, ErrInvalidSelection
		}
	}

	word, found = s.Words.ResolveSelection(cells)
	s.Moves++
	if found && s.Words.Complete() {
		s.finish()
	}
	return word, found, nil
}

// SwapTiles exchanges the pieces at positions a and b on a photo board.
func (s *Session) SwapTiles(a, b int) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.Type != GamePhoto {
		return false, ErrWrongGame
	}
	if err := s.Board.Swap(a, b); err != nil {
		return false, ErrInvalidSelection
	}
	s.Moves++
	if s.Board.Solved() {
		s.finish()
		return true, nil
	}
	return false, nil
}

// SlideTile slides the tile at pos into the blank on a sliding board.
func (s *Session) SlideTile(pos int) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.Type != GameSliding {
		return false, ErrWrongGame
	}
	if err := s.Board.Slide(pos); err != nil {
		return false, ErrInvalidSelection
	}
	s.Moves++
	if s.Board.Solved() {
		s.finish()
		return true, nil
	}
	return false, nil
}

// FlipCard turns a memory card face up. The first card of a pair moves
// the session into selecting; the second commits the pair check and
// one move.
func (s *Session) FlipCard(i int) (tiles.FlipResult, error) {
	if err := s.guard(); err != nil {
		return tiles.FlipResult{}, err
	}
	if s.Type != GameMemory {
		return tiles.FlipResult{}, ErrWrongGame
	}
	res, err := s.Memory.Flip(i)
	if err != nil {
		return tiles.FlipResult{}, ErrInvalidSelection
	}
	if res.PairDone {
		s.State = StateReady
		s.Moves++
		if s.Memory.Complete() {
			s.finish()
		}
	} else {
		s.State = StateSelecting
	}
	return res, nil
}

// Undo reverses the most recent swap or slide on a tile board and
// gives the move back. With no history it is a no-op and the move
// count stays where it is, never below zero.
func (s *Session) Undo() (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.Type != GameSliding && s.Type != GamePhoto {
		return false, ErrWrongGame
	}
	if !s.Board.Undo() {
		return false, nil
	}
	if s.Moves > 0 {
		s.Moves--
	}
	return true, nil
}

// Pause freezes the elapsed clock and blocks mutation.
func (s *Session) Pause() error {
	if s.State == StateSolved || s.Paused {
		return ErrIllegalTransition
	}
	s.Paused = true
	s.pausedAt = time.Now()
	return nil
}

// Resume unfreezes a paused session.
func (s *Session) Resume() error {
	if !s.Paused {
		return ErrIllegalTransition
	}
	s.pausedTotal += time.Since(s.pausedAt)
	s.Paused = false
	return nil
}

// ElapsedMs is the wall-clock play time excluding paused spans. It is
// frozen once the session solves.
func (s *Session) ElapsedMs() int64 {
	return s.elapsed().Milliseconds()
}

func (s *Session) elapsed() time.Duration {
	switch {
	case s.State == StateSolved:
		return s.finalElapsed
	case s.Paused:
		return s.pausedAt.Sub(s.startedAt) - s.pausedTotal
	default:
		return time.Since(s.startedAt) - s.pausedTotal
	}
}

// finish makes the one-way ready → solved transition and pins the
// elapsed clock.
func (s *Session) finish() {
	s.finalElapsed = time.Since(s.startedAt) - s.pausedTotal
	s.State = StateSolved
}

// Solved reports the terminal state.
func (s *Session) Solved() bool { return s.State == StateSolved }

// Report returns the values the caller persists on a solved session,
// nil while still in play.
func (s *Session) Report() *ScoreReport {
	if s.State != StateSolved {
		return nil
	}
	return &ScoreReport{
		GameType:   s.Type,
		Difficulty: s.Difficulty,
		Moves:      s.Moves,
		ElapsedMs:  s.finalElapsed.Milliseconds(),
	}
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
