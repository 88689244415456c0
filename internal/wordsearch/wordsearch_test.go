package wordsearch

import (
	"math/rand"
	"testing"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/grid"
)

func seeded(k int64) *rand.Rand { return rand.New(rand.NewSource(k)) }

func TestGeneratePlacesWords(t *testing.T) {
	p, err := Generate([]string{"CAT", "DOG"}, 6, seeded(1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(p.Placements) != 2 {
		t.Fatalf("placed %d words, want 2 (skipped: %v)", len(p.Placements), p.Skipped)
	}
	for _, pl := range p.Placements {
		if len(pl.Cells) != len(pl.Word) {
			t.Fatalf("%s occupies %d cells", pl.Word, len(pl.Cells))
		}
		for i, c := range pl.Cells {
			if got := p.Letters[c.Row][c.Col]; got != pl.Word[i] {
				t.Errorf("%s cell %d holds %c, want %c", pl.Word, i, got, pl.Word[i])
			}
		}
	}
}

func TestGridTotality(t *testing.T) {
	p, err := Generate([]string{"ALPHA", "BETA", "GAMMA"}, 8, seeded(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Letters) != 8 {
		t.Fatalf("grid has %d rows, want 8", len(p.Letters))
	}
	for r, row := range p.Letters {
		if len(row) != 8 {
			t.Fatalf("row %d has %d cells, want 8", r, len(row))
		}
		for c, l := range row {
			if l < 'A' || l > 'Z' {
				t.Errorf("cell (%d,%d) = %q, want A-Z", r, c, l)
			}
		}
	}
}

func TestPlacementNonCorruption(t *testing.T) {
	words := []string{"STONE", "NOTES", "ONSET", "SETON", "TONES", "STENO"}
	for seed := int64(1); seed <= 10; seed++ {
		p, err := Generate(words, 7, seeded(seed))
		if err != nil {
			t.Fatal(err)
		}
		for _, pl := range p.Placements {
			for i, c := range pl.Cells {
				if got := p.Letters[c.Row][c.Col]; got != pl.Word[i] {
					t.Fatalf("seed %d: %s corrupted at cell %d (%c != %c)",
						seed, pl.Word, i, got, pl.Word[i])
				}
			}
		}
	}
}

func TestResolveSelectionForwardAndReversed(t *testing.T) {
	p, err := Generate([]string{"RIVER"}, 6, seeded(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(p.Placements))
	}
	cells := p.Placements[0].Cells

	// Select the path backwards; reversed matching should still find it.
	rev := make([]grid.Coord, len(cells))
	for i, c := range cells {
		rev[len(cells)-1-i] = c
	}
	word, found := p.ResolveSelection(rev)
	if !found || word != "RIVER" {
		t.Fatalf("reversed selection = (%q,%v), want (RIVER,true)", word, found)
	}
	if !p.Placements[0].Found {
		t.Error("placement not marked found")
	}
	// Second selection of the same word is no longer a match.
	if _, found := p.ResolveSelection(cells); found {
		t.Error("already-found word matched again")
	}
}

func TestResolveSelectionNoMatch(t *testing.T) {
	p, err := Generate([]string{"CAT"}, 5, seeded(4))
	if err != nil {
		t.Fatal(err)
	}
	word, found := p.ResolveSelection([]grid.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}})
	if found || word != "" {
		// A 2-letter path cannot match the 3-letter word.
		t.Fatalf("bogus selection = (%q,%v), want no match", word, found)
	}
	if p.FoundCount() != 0 {
		t.Errorf("found count = %d after failed selection", p.FoundCount())
	}
	if _, found := p.ResolveSelection(nil); found {
		t.Error("empty selection matched")
	}
	if _, found := p.ResolveSelection([]grid.Coord{{Row: -1, Col: 0}}); found {
		t.Error("out-of-bounds selection matched")
	}
}

func TestMarkFoundOnlyFlipsOwnCells(t *testing.T) {
	// Two words crossing at a shared letter: CAT across row 0, TAR down
	// from the shared T at (0,2). Built by hand so the crossing is
	// certain.
	p := &Puzzle{Size: 4}
	p.Letters = [][]byte{
		[]byte("CATX"),
		[]byte("XXAX"),
		[]byte("XXRX"),
		[]byte("XXXX"),
	}
	p.FoundCells = make([][]bool, 4)
	for i := range p.FoundCells {
		p.FoundCells[i] = make([]bool, 4)
	}
	p.Placements = []Placement{
		{Word: "CAT", Dir: grid.Horizontal, Cells: []grid.Coord{
			{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}},
		{Word: "TAR", Dir: grid.Vertical, Cells: []grid.Coord{
			{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}}},
	}

	if !p.MarkFound("CAT") {
		t.Fatal("MarkFound(CAT) failed")
	}
	if !p.FoundCells[0][0] || !p.FoundCells[0][1] || !p.FoundCells[0][2] {
		t.Error("CAT cells not all marked")
	}
	if p.FoundCells[1][2] || p.FoundCells[2][2] {
		t.Error("TAR-only cells marked by finding CAT")
	}
	if p.MarkFound("CAT") {
		t.Error("MarkFound twice should report false")
	}
	if p.Complete() {
		t.Error("complete with TAR still unfound")
	}
	if !p.MarkFound("TAR") || !p.Complete() {
		t.Error("finding TAR should complete the puzzle")
	}
}

func TestOversizedWordIsSkipped(t *testing.T) {
	p, err := Generate([]string{"HIPPOPOTAMUS", "OWL"}, 5, seeded(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Skipped) != 1 || p.Skipped[0] != "HIPPOPOTAMUS" {
		t.Errorf("skipped = %v, want [HIPPOPOTAMUS]", p.Skipped)
	}
	if len(p.Placements) != 1 || p.Placements[0].Word != "OWL" {
		t.Errorf("placements = %+v, want OWL only", p.Placements)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate([]string{"CAT"}, 0, seeded(1)); err != ErrBadSize {
		t.Errorf("size 0: err = %v, want ErrBadSize", err)
	}
	if _, err := Generate([]string{"", "  ", "up2"}, 5, seeded(1)); err != ErrNoWords {
		t.Errorf("no usable words: err = %v, want ErrNoWords", err)
	}
}
