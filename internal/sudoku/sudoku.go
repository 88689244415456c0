// Package sudoku generates and validates 9x9 sudoku puzzles.
//
// Generation is two-phase: a full solution is produced by row-major
// backtracking with a randomized digit order, then cells are carved out
// until the difficulty's blank count is reached. Carving can optionally
// keep the puzzle's solution unique by re-adding any value whose
// removal admits a second solution.
package sudoku

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
)

const (
	// Size is the board edge length.
	Size = 9
	// BoxSize is the edge length of one sub-box.
	BoxSize = 3
)

// Grid is a 9x9 board. Zero means empty.
type Grid [Size][Size]uint8

// Difficulty selects how many cells are blanked out of 81.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Blanks returns the number of cells removed from the solution.
func (d Difficulty) Blanks() int {
	switch d {
	case Easy:
		return 40
	case Medium:
		return 50
	case Hard:
		return 60
	default:
		return 50
	}
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
}

// ErrFillFailed means the backtracking fill could not complete a board.
// It is unreachable for a correct 9x9 backtracker and indicates an
// internal invariant violation.
var ErrFillFailed = errors.New("sudoku: backtracking fill failed to complete grid")

// Options configures generation.
type Options struct {
	// EnsureUnique re-adds carved values whose removal would allow a
	// second solution. The blank count may then end up below the
	// difficulty target.
	EnsureUnique bool
	// Rng is the random source; nil means time-seeded.
	Rng *rand.Rand
}

// Puzzle is a generated board together with its solution.
type Puzzle struct {
	Board    Grid             `json:"board"`
	Solution Grid             `json:"-"`
	Given    [Size][Size]bool `json:"given"`
}

// Generate produces a puzzle at the requested difficulty.
func Generate(d Difficulty, opt Options) (*Puzzle, error) {
	rng := opt.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var solution Grid
	if !fill(rng, &solution, 0, 0) {
		return nil, ErrFillFailed
	}

	p := &Puzzle{Solution: solution}
	p.Board, p.Given = carve(rng, solution, d.Blanks(), opt.EnsureUnique)
	return p, nil
}

// fill completes the grid from (row, col) onwards by backtracking,
// trying digits in a random order so repeated calls yield different
// solutions.
func fill(rng *rand.Rand, g *Grid, row, col int) bool {
	if row == Size {
		return true
	}
	nextRow, nextCol := row, col+1
	if nextCol == Size {
		nextRow, nextCol = row+1, 0
	}
	for _, n := range rng.Perm(Size) {
		v := uint8(n + 1)
		if IsLegalPlacement(g, row, col, v) {
			g[row][col] = v
			if fill(rng, g, nextRow, nextCol) {
				return true
			}
			g[row][col] = 0
		}
	}
	return false
}

// carve clears `blanks` cells chosen uniformly at random without
// replacement. With ensureUnique set, a removal that admits a second
// solution is reverted and another cell is tried instead; in that mode
// the final blank count can fall short of the target.
func carve(rng *rand.Rand, solution Grid, blanks int, ensureUnique bool) (Grid, [Size][Size]bool) {
	board := solution
	var given [Size][Size]bool
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			given[r][c] = true
		}
	}

	order := rng.Perm(Size * Size)
	removed := 0
	for _, pos := range order {
		if removed == blanks {
			break
		}
		r, c := grid.RowCol(Size, pos)
		old := board[r][c]
		board[r][c] = 0
		given[r][c] = false
		if ensureUnique && SolutionCount(board, 2) != 1 {
			board[r][c] = old
			given[r][c] = true
			continue
		}
		removed++
	}
	return board, given
}

// IsLegalPlacement reports whether v can sit at (row, col) without
// repeating in its row, column, or 3x3 box.
func IsLegalPlacement(g *Grid, row, col int, v uint8) bool {
	for i := 0; i < Size; i++ {
		if g[row][i] == v || g[i][col] == v {
			return false
		}
	}
	br, bc := grid.BoxOrigin(row, col)
	for dr := 0; dr < BoxSize; dr++ {
		for dc := 0; dc < BoxSize; dc++ {
			if g[br+dr][bc+dc] == v {
				return false
			}
		}
	}
	return true
}

// SolutionCount counts the board's solutions, stopping once limit is
// reached. A carved puzzle is unique iff SolutionCount(b, 2) == 1.
func SolutionCount(g Grid, limit int) int {
	count := 0
	var dfs func() bool
	dfs = func() bool {
		if count >= limit {
			return true
		}
		r, c, ok := findEmpty(&g)
		if !ok {
			count++
			return count >= limit
		}
		for v := uint8(1); v <= Size; v++ {
			if IsLegalPlacement(&g, r, c, v) {
				g[r][c] = v
				if dfs() {
					return true
				}
				g[r][c] = 0
			}
		}
		return false
	}
	_ = dfs()
	return count
}

func findEmpty(g *Grid) (int, int, bool) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// CheckMove compares v against the solution at (row, col). A correct
// value is written into the board; correct reports the comparison and
// solved whether the board now matches the solution everywhere.
// Givens and already-solved cells are not legal targets; the caller
// screens those before counting the move.
func (p *Puzzle) CheckMove(row, col int, v uint8) (correct, solved bool) {
	if v != p.Solution[row][col] {
		return false, false
	}
	p.Board[row][col] = v
	return true, p.Complete()
}

// Hint returns the solution value for an open, non-given cell and
// writes it into the board. ok is false when the cell is a given or
// already filled.
func (p *Puzzle) Hint(row, col int) (v uint8, ok bool) {
	if p.Given[row][col] || p.Board[row][col] != 0 {
		return 0, false
	}
	v = p.Solution[row][col]
	p.Board[row][col] = v
	return v, true
}

// Complete reports whether the board equals the solution cell by cell.
func (p *Puzzle) Complete() bool {
	return p.Board == p.Solution
}

// Blanks counts the board's empty cells.
func (p *Puzzle) Blanks() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p.Board[r][c] == 0 {
				n++
			}
		}
	}
	return n
}
