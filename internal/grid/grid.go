// Package grid holds the coordinate and adjacency helpers shared by the
// puzzle engines: bounds checks, word directions with their deltas, the
// 3x3 box math used by sudoku, and orthogonal neighbor lookup for
// slide-based boards.
package grid

// Coord identifies a cell on a square board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is an orientation a word can be written in.
type Direction int

const (
	Horizontal   Direction = iota // left to right
	Vertical                      // top to bottom
	DiagonalDown                  // down-right
	DiagonalUp                    // down-left
)

// Directions lists every placement orientation.
var Directions = [...]Direction{Horizontal, Vertical, DiagonalDown, DiagonalUp}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalDown:
		return "diagonal-down"
	case DiagonalUp:
		return "diagonal-up"
	default:
		return "unknown"
	}
}

// Delta returns the per-letter (dRow, dCol) step for this direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Horizontal:
		return 0, 1
	case Vertical:
		return 1, 0
	case DiagonalDown:
		return 1, 1
	case DiagonalUp:
		return 1, -1
	default:
		return 0, 0
	}
}

// InBounds reports whether (row, col) lies on a size x size board.
func InBounds(size, row, col int) bool {
	return row >= 0 && row < size && col >= 0 && col < size
}

// BoxOrigin returns the top-left cell of the 3x3 sudoku box containing
// (row, col).
func BoxOrigin(row, col int) (int, int) {
	return row - row%3, col - col%3
}

// Index flattens (row, col) to a position on a board with the given
// column count.
func Index(cols, row, col int) int { return row*cols + col }

// RowCol is the inverse of Index.
func RowCol(cols, index int) (row, col int) { return index / cols, index % cols }

// OrthNeighbors returns the flattened positions orthogonally adjacent
// to index on a cols x rows board, in up/down/left/right order.
func OrthNeighbors(cols, rows, index int) []int {
	r, c := RowCol(cols, index)
	out := make([]int, 0, 4)
	if r > 0 {
		out = append(out, Index(cols, r-1, c))
	}
	if r < rows-1 {
		out = append(out, Index(cols, r+1, c))
	}
	if c > 0 {
		out = append(out, Index(cols, r, c-1))
	}
	if c < cols-1 {
		out = append(out, Index(cols, r, c+1))
	}
	return out
}
