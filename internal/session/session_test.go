package session

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/sudoku"
)

func seeded(k int64) *rand.Rand { return rand.New(rand.NewSource(k)) }

func sudokuSession(t *testing.T, seed int64) *Session {
	t.Helper()
	s, err := NewSudoku(sudoku.Easy, sudoku.Options{Rng: seeded(seed)})
	if err != nil {
		t.Fatalf("NewSudoku: %v", err)
	}
	return s
}

// openCell returns some empty, non-given cell.
func openCell(t *testing.T, s *Session) (int, int) {
	t.Helper()
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if s.Sudoku.Board[r][c] == 0 {
				return r, c
			}
		}
	}
	t.Fatal("no open cell")
	return 0, 0
}

func TestSudokuMoveCounting(t *testing.T) {
	s := sudokuSession(t, 1)
	r, c := openCell(t, s)

	want := s.Sudoku.Solution[r][c]
	wrong := want%9 + 1

	res, err := s.SudokuMove(r, c, wrong)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("wrong value reported correct")
	}
	if s.Moves != 1 || s.Mistakes != 1 {
		t.Errorf("moves=%d mistakes=%d after wrong move, want 1/1", s.Moves, s.Mistakes)
	}

	res, err = s.SudokuMove(r, c, want)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Error("correct value reported wrong")
	}
	if s.Moves != 2 || s.Mistakes != 1 {
		t.Errorf("moves=%d mistakes=%d after correct move, want 2/1", s.Moves, s.Mistakes)
	}

	// Filled cell is no longer a legal target; no counters move.
	if _, err := s.SudokuMove(r, c, want); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("move on filled cell = %v, want ErrInvalidSelection", err)
	}
	if s.Moves != 2 || s.Mistakes != 1 {
		t.Error("rejected move changed counters")
	}
}

func TestSudokuInvalidSelections(t *testing.T) {
	s := sudokuSession(t, 2)

	cases := []struct {
		name     string
		row, col int
		value    uint8
	}{
		{"row out of range", 9, 0, 5},
		{"col out of range", 0, -1, 5},
		{"value zero", 0, 0, 0},
		{"value too large", 0, 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.SudokuMove(tc.row, tc.col, tc.value); !errors.Is(err, ErrInvalidSelection) {
				t.Errorf("err = %v, want ErrInvalidSelection", err)
			}
		})
	}
	if s.Moves != 0 {
		t.Errorf("moves = %d after rejected selections, want 0", s.Moves)
	}

	// A given cell is immutable.
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if s.Sudoku.Given[r][c] {
				if _, err := s.SudokuMove(r, c, 1); !errors.Is(err, ErrInvalidSelection) {
					t.Errorf("move on given cell = %v, want ErrInvalidSelection", err)
				}
				return
			}
		}
	}
}

func TestSudokuHintDoesNotCountMoves(t *testing.T) {
	s := sudokuSession(t, 3)
	r, c := openCell(t, s)
	v, err := s.SudokuHint(r, c)
	if err != nil {
		t.Fatal(err)
	}
	if v != s.Sudoku.Solution[r][c] {
		t.Errorf("hint = %d, want %d", v, s.Sudoku.Solution[r][c])
	}
	if s.Moves != 0 {
		t.Errorf("moves = %d after hint, want 0", s.Moves)
	}
}

func TestSudokuSolveTransition(t *testing.T) {
	s := sudokuSession(t, 4)
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if s.Sudoku.Board[r][c] != 0 {
				continue
			}
			if _, err := s.SudokuMove(r, c, s.Sudoku.Solution[r][c]); err != nil {
				t.Fatalf("move (%d,%d): %v", r, c, err)
			}
		}
	}
	if !s.Solved() || s.State != StateSolved {
		t.Fatal("session not solved after completing the board")
	}

	rep := s.Report()
	if rep == nil {
		t.Fatal("no score report on solved session")
	}
	if rep.GameType != GameSudoku || rep.Moves != s.Moves {
		t.Errorf("report = %+v", rep)
	}

	// Solved is terminal: every mutation is rejected.
	if _, err := s.SudokuMove(0, 0, 1); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("move after solve = %v, want ErrIllegalTransition", err)
	}
	if err := s.Pause(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("pause after solve = %v, want ErrIllegalTransition", err)
	}

	// Elapsed is frozen.
	a, b := s.ElapsedMs(), s.ElapsedMs()
	if a != b {
		t.Errorf("elapsed advanced after solve: %d -> %d", a, b)
	}
}

func TestPauseBlocksMutation(t *testing.T) {
	s := sudokuSession(t, 5)
	r, c := openCell(t, s)

	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := s.Pause(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("double pause = %v, want ErrIllegalTransition", err)
	}
	if _, err := s.SudokuMove(r, c, 5); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("move while paused = %v, want ErrIllegalTransition", err)
	}
	if _, err := s.SudokuHint(r, c); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("hint while paused = %v, want ErrIllegalTransition", err)
	}
	if s.Moves != 0 {
		t.Error("paused rejections changed move count")
	}

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := s.Resume(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("resume while running = %v, want ErrIllegalTransition", err)
	}
	if _, err := s.SudokuMove(r, c, s.Sudoku.Solution[r][c]); err != nil {
		t.Errorf("move after resume: %v", err)
	}
}

func TestWrongGameOperations(t *testing.T) {
	s := sudokuSession(t, 6)
	if _, _, err := s.SelectRange([]grid.Coord{{Row: 0, Col: 0}}); !errors.Is(err, ErrWrongGame) {
		t.Errorf("SelectRange on sudoku = %v, want ErrWrongGame", err)
	}
	if _, err := s.SlideTile(0); !errors.Is(err, ErrWrongGame) {
		t.Errorf("SlideTile on sudoku = %v, want ErrWrongGame", err)
	}
	if _, err := s.Undo(); !errors.Is(err, ErrWrongGame) {
		t.Errorf("Undo on sudoku = %v, want ErrWrongGame", err)
	}
}

func TestWordSearchSession(t *testing.T) {
	s, err := NewWordSearch([]string{"CAT"}, 5, seeded(7))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Words.Placements) != 1 {
		t.Fatalf("expected CAT placed, got %+v", s.Words.Placements)
	}

	// Miss first: a 2-cell path cannot spell a 3-letter word, but the
	// check still commits a move.
	_, found, err := s.SelectRange([]grid.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("impossible match")
	}
	if s.Moves != 1 {
		t.Errorf("moves = %d after selection check, want 1", s.Moves)
	}

	word, found, err := s.SelectRange(s.Words.Placements[0].Cells)
	if err != nil {
		t.Fatal(err)
	}
	if !found || word != "CAT" {
		t.Fatalf("selection = (%q,%v), want (CAT,true)", word, found)
	}
	if !s.Solved() {
		t.Error("finding the only word should solve the session")
	}

	if _, _, err := s.SelectRange(s.Words.Placements[0].Cells); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("selection after solve = %v, want ErrIllegalTransition", err)
	}
}

func TestWordSearchInvalidSelection(t *testing.T) {
	s, err := NewWordSearch([]string{"DOG"}, 5, seeded(8))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.SelectRange(nil); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("empty selection = %v, want ErrInvalidSelection", err)
	}
	if _, _, err := s.SelectRange([]grid.Coord{{Row: 5, Col: 0}}); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("out-of-bounds selection = %v, want ErrInvalidSelection", err)
	}
	if s.Moves != 0 {
		t.Error("rejected selections changed move count")
	}
}

func TestPhotoSwapAndUndo(t *testing.T) {
	// A 2x1 board of two tiles shuffles deterministically to [1,0].
	s, err := NewPhoto(2, 1, seeded(9))
	if err != nil {
		t.Fatal(err)
	}
	if s.Board.Solved() {
		t.Fatal("shuffled board already solved")
	}

	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.Moves != 0 {
		t.Error("undo with no history changed move count")
	}

	solved, err := s.SwapTiles(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !solved || !s.Solved() {
		t.Fatal("swapping the two tiles home should solve")
	}
	if s.Moves != 1 {
		t.Errorf("moves = %d, want 1", s.Moves)
	}
	if rep := s.Report(); rep == nil || rep.GameType != GamePhoto {
		t.Errorf("report = %+v", rep)
	}
}

func TestSlidingSessionUndoGivesMoveBack(t *testing.T) {
	s, err := NewSliding(3, 3, 30, seeded(10))
	if err != nil {
		t.Fatal(err)
	}
	// Slide any neighbor of the blank.
	var target int
	for i := range s.Board.Tiles {
		if err := s.Board.Slide(i); err == nil {
			// Found a legal move; undo the probe and use the session API.
			s.Board.Undo()
			target = i
			break
		}
	}
	if _, err := s.SlideTile(target); err != nil {
		t.Fatal(err)
	}
	if s.Moves != 1 {
		t.Fatalf("moves = %d after slide, want 1", s.Moves)
	}
	undone, err := s.Undo()
	if err != nil || !undone {
		t.Fatalf("undo = (%v,%v)", undone, err)
	}
	if s.Moves != 0 {
		t.Errorf("moves = %d after undo, want 0", s.Moves)
	}
}

func TestMemorySession(t *testing.T) {
	s, err := NewMemory([]string{"A"}, seeded(11))
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.FlipCard(0)
	if err != nil || res.PairDone {
		t.Fatalf("first flip = (%+v,%v)", res, err)
	}
	if s.State != StateSelecting {
		t.Errorf("state = %s after lone flip, want selecting", s.State)
	}
	if s.Moves != 0 {
		t.Error("lone flip counted a move")
	}

	res, err = s.FlipCard(1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.PairDone || !res.Match {
		t.Fatalf("pair flip = %+v", res)
	}
	if s.Moves != 1 {
		t.Errorf("moves = %d after pair check, want 1", s.Moves)
	}
	if !s.Solved() {
		t.Error("matching the only pair should solve")
	}
}
