// Package wordsearch builds N x N letter grids from a word list and
// resolves player selections back to the placed words.
//
// Placement walks the input words in order, retrying random
// (row, col, direction) starts until every letter lands in-bounds on an
// empty cell or one already holding the same letter. Words that exhaust
// the retry bound are skipped, not errored; the caller reports
// "placed N of M". Selections are matched both forward and reversed,
// which is how right-to-left and bottom-to-top reading works even
// though placement itself only writes in four forward directions.
package wordsearch

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
)

// maxPlacementAttempts bounds the random starts tried per word.
const maxPlacementAttempts = 100

var (
	// ErrBadSize means the requested grid cannot hold any word.
	ErrBadSize = errors.New("wordsearch: grid size must be positive")
	// ErrNoWords means the word list was empty after normalization.
	ErrNoWords = errors.New("wordsearch: no usable words")
)

// Placement records where one word sits: its orientation and the exact
// ordered cells it occupies. Found-marking always walks Cells, never
// re-derives positions from letter content, so crossing words with
// shared letters stay distinct.
type Placement struct {
	Word  string         `json:"word"`
	Dir   grid.Direction `json:"dir"`
	Cells []grid.Coord   `json:"cells"`
	Found bool           `json:"found"`
}

// Puzzle is a generated word-search grid.
type Puzzle struct {
	Size       int         `json:"size"`
	Letters    [][]byte    `json:"-"`
	Placements []Placement `json:"placements"`
	Skipped    []string    `json:"skipped,omitempty"`
	FoundCells [][]bool    `json:"foundCells"`
}

// Generate places words into a size x size grid and fills the rest with
// random letters. Unplaceable words are collected in Skipped.
func Generate(words []string, size int, rng *rand.Rand) (*Puzzle, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	clean := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" && isAlpha(w) {
			clean = append(clean, w)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoWords
	}

	p := &Puzzle{Size: size}
	p.Letters = make([][]byte, size)
	p.FoundCells = make([][]bool, size)
	for i := range p.Letters {
		p.Letters[i] = make([]byte, size)
		p.FoundCells[i] = make([]bool, size)
	}

	for _, w := range clean {
		if pl, ok := p.place(w, rng); ok {
			p.Placements = append(p.Placements, pl)
		} else {
			p.Skipped = append(p.Skipped, w)
		}
	}

	// Noise letters for every cell no word touched.
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if p.Letters[r][c] == 0 {
				p.Letters[r][c] = byte('A' + rng.Intn(26))
			}
		}
	}
	return p, nil
}

// place tries random starts for w until one fits or the attempt bound
// runs out. A cell fits when it is empty or already holds the same
// letter, so crossings are allowed but never corrupt an earlier word.
func (p *Puzzle) place(w string, rng *rand.Rand) (Placement, bool) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		dir := grid.Directions[rng.Intn(len(grid.Directions))]
		dr, dc := dir.Delta()
		row, col := rng.Intn(p.Size), rng.Intn(p.Size)

		cells := make([]grid.Coord, 0, len(w))
		ok := true
		for i := 0; i < len(w); i++ {
			r, c := row+i*dr, col+i*dc
			if !grid.InBounds(p.Size, r, c) {
				ok = false
				break
			}
			if l := p.Letters[r][c]; l != 0 && l != w[i] {
				ok = false
				break
			}
			cells = append(cells, grid.Coord{Row: r, Col: c})
		}
		if !ok {
			continue
		}
		for i, cell := range cells {
			p.Letters[cell.Row][cell.Col] = w[i]
		}
		return Placement{Word: w, Dir: dir, Cells: cells}, true
	}
	return Placement{}, false
}

// ResolveSelection joins the letters along the selected path and
// matches them, forward or reversed, against the not-yet-found placed
// words. It returns the matched word and marks it found. Out-of-bounds
// cells or an empty path resolve to no match with no state change.
func (p *Puzzle) ResolveSelection(cells []grid.Coord) (string, bool) {
	if len(cells) == 0 {
		return "", false
	}
	buf := make([]byte, len(cells))
	for i, cell := range cells {
		if !grid.InBounds(p.Size, cell.Row, cell.Col) {
			return "", false
		}
		buf[i] = p.Letters[cell.Row][cell.Col]
	}
	forward := string(buf)
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	reversed := string(buf)

	for i := range p.Placements {
		pl := &p.Placements[i]
		if pl.Found {
			continue
		}
		if pl.Word == forward || pl.Word == reversed {
			p.markFound(pl)
			return pl.Word, true
		}
	}
	return "", false
}

// markFound flips the found flag on exactly the cells of this
// placement's stored path.
func (p *Puzzle) markFound(pl *Placement) {
	pl.Found = true
	for _, cell := range pl.Cells {
		p.FoundCells[cell.Row][cell.Col] = true
	}
}

// MarkFound marks the named word found, if it was placed and not
// already found.
func (p *Puzzle) MarkFound(word string) bool {
	word = strings.ToUpper(word)
	for i := range p.Placements {
		if p.Placements[i].Word == word && !p.Placements[i].Found {
			p.markFound(&p.Placements[i])
			return true
		}
	}
	return false
}

// FoundCount counts placed words already found.
func (p *Puzzle) FoundCount() int {
	n := 0
	for i := range p.Placements {
		if p.Placements[i].Found {
			n++
		}
	}
	return n
}

// Complete reports whether every placed word has been found.
func (p *Puzzle) Complete() bool {
	return len(p.Placements) > 0 && p.FoundCount() == len(p.Placements)
}

// Rows renders the letter grid as strings, one per row.
func (p *Puzzle) Rows() []string {
	out := make([]string, p.Size)
	for r := 0; r < p.Size; r++ {
		out[r] = string(p.Letters[r])
	}
	return out
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
