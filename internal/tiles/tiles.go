// Package tiles implements the shuffle and solvability logic shared by
// the sliding puzzle, the photo puzzle, and the memory-match deck.
//
// The slide variant is always shuffled by a bounded random walk of the
// blank from the solved state, so every board it produces is reachable
// back to solved by legal moves. The free-swap photo variant uses a
// plain Fisher-Yates permutation with one corrective swap if the result
// happens to come out already solved; parity is irrelevant there
// because any two tiles may be exchanged directly.
package tiles

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
)

// defaultWalkSteps is the random-walk length for slide shuffles.
const defaultWalkSteps = 100

var (
	// ErrBadIndex means a position is outside the board.
	ErrBadIndex = errors.New("tiles: index out of range")
	// ErrNotAdjacent means a slide target does not border the blank.
	ErrNotAdjacent = errors.New("tiles: tile is not adjacent to the blank")
	// ErrNoBlank means a slide was requested on a free-swap board.
	ErrNoBlank = errors.New("tiles: board has no blank tile")
	// ErrNotPermutation flags a corrupt tile arrangement. Unreachable
	// for the shuffles in this package; surfaced as a hard failure
	// rather than handing out a broken board.
	ErrNotPermutation = errors.New("tiles: tile arrangement is not a permutation")
)

type swapRec struct{ a, b int }

// Board is a tile arrangement. Tiles[pos] holds the id of the tile
// currently at pos; tile i's home position is i. Blank is the position
// of the hole on slide boards and -1 on free-swap boards.
type Board struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	Tiles []int `json:"tiles"`
	Blank int   `json:"blank"`

	history []swapRec
}

// NewSliding builds a cols x rows slide board shuffled by walking the
// blank `steps` random legal moves from the solved state (steps <= 0
// uses the default). The highest tile id is the blank.
func NewSliding(cols, rows, steps int, rng *rand.Rand) (*Board, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("tiles: slide board needs at least 2x2, got %dx%d", cols, rows)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if steps <= 0 {
		steps = defaultWalkSteps
	}

	n := cols * rows
	b := &Board{Cols: cols, Rows: rows, Tiles: solvedTiles(n), Blank: n - 1}
	for i := 0; i < steps; i++ {
		nbrs := grid.OrthNeighbors(cols, rows, b.Blank)
		pick := nbrs[rng.Intn(len(nbrs))]
		b.Tiles[b.Blank], b.Tiles[pick] = b.Tiles[pick], b.Tiles[b.Blank]
		b.Blank = pick
	}
	// A walk can wander back home; nudge it off the solved state the
	// same way until it is not.
	for b.Solved() {
		nbrs := grid.OrthNeighbors(cols, rows, b.Blank)
		pick := nbrs[rng.Intn(len(nbrs))]
		b.Tiles[b.Blank], b.Tiles[pick] = b.Tiles[pick], b.Tiles[b.Blank]
		b.Blank = pick
	}
	if err := checkPermutation(b.Tiles); err != nil {
		return nil, err
	}
	return b, nil
}

// NewFreeSwap builds a cols x rows board where any two tiles may be
// exchanged, shuffled by Fisher-Yates. An identity result gets one
// corrective swap of the first two tiles.
func NewFreeSwap(cols, rows int, rng *rand.Rand) (*Board, error) {
	if cols < 1 || rows < 1 || cols*rows < 2 {
		return nil, fmt.Errorf("tiles: swap board needs at least 2 tiles, got %dx%d", cols, rows)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := cols * rows
	b := &Board{Cols: cols, Rows: rows, Tiles: solvedTiles(n), Blank: -1}
	rng.Shuffle(n, func(i, j int) {
		b.Tiles[i], b.Tiles[j] = b.Tiles[j], b.Tiles[i]
	})
	if b.Solved() {
		b.Tiles[0], b.Tiles[1] = b.Tiles[1], b.Tiles[0]
	}
	if err := checkPermutation(b.Tiles); err != nil {
		return nil, err
	}
	return b, nil
}

// Swap exchanges the tiles at positions a and b on a free-swap board
// and records the move for undo.
func (b *Board) Swap(a, c int) error {
	n := len(b.Tiles)
	if a < 0 || a >= n || c < 0 || c >= n || a == c {
		return ErrBadIndex
	}
	b.Tiles[a], b.Tiles[c] = b.Tiles[c], b.Tiles[a]
	b.history = append(b.history, swapRec{a: a, b: c})
	return nil
}

// Slide moves the tile at pos into the blank. The tile must border the
// blank orthogonally.
func (b *Board) Slide(pos int) error {
	if b.Blank < 0 {
		return ErrNoBlank
	}
	if pos < 0 || pos >= len(b.Tiles) {
		return ErrBadIndex
	}
	adjacent := false
	for _, nb := range grid.OrthNeighbors(b.Cols, b.Rows, b.Blank) {
		if nb == pos {
			adjacent = true
			break
		}
	}
	if !adjacent {
		return ErrNotAdjacent
	}
	b.Tiles[b.Blank], b.Tiles[pos] = b.Tiles[pos], b.Tiles[b.Blank]
	b.history = append(b.history, swapRec{a: b.Blank, b: pos})
	b.Blank = pos
	return nil
}

// Undo reverses the most recent swap or slide. It reports false when
// there is nothing to undo.
func (b *Board) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.Tiles[last.a], b.Tiles[last.b] = b.Tiles[last.b], b.Tiles[last.a]
	if b.Blank == last.b {
		b.Blank = last.a
	} else if b.Blank == last.a {
		b.Blank = last.b
	}
	return true
}

// Solved reports whether every tile sits at its home position.
func (b *Board) Solved() bool {
	for i, t := range b.Tiles {
		if t != i {
			return false
		}
	}
	return true
}

func solvedTiles(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func checkPermutation(tiles []int) error {
	seen := make([]bool, len(tiles))
	for _, t := range tiles {
		if t < 0 || t >= len(tiles) || seen[t] {
			return fmt.Errorf("%w: tile %d", ErrNotPermutation, t)
		}
		seen[t] = true
	}
	return nil
}
