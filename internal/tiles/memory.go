package tiles

import (
	"errors"
	"math/rand"
	"time"
)

// ErrCardUnavailable means a flip targeted a matched or already
// face-up card.
var ErrCardUnavailable = errors.New("tiles: card is matched or already face up")

// Card is one entry in a memory deck.
type Card struct {
	Symbol  string `json:"symbol"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
}

// Memory is a match-pairs deck: every symbol appears exactly twice and
// the flattened deck is Fisher-Yates shuffled. Any ordering is playable
// so there is no solvability concern.
type Memory struct {
	Cards []Card `json:"cards"`

	open int // index of the single face-up unmatched card, -1 if none
}

// FlipResult describes the outcome of one flip.
type FlipResult struct {
	Index     int  `json:"index"`
	PairDone  bool `json:"pairDone"`  // this flip completed a pair check
	Match     bool `json:"match"`     // the pair matched
	OtherCard int  `json:"otherCard"` // the first card of the pair, -1 on a lone flip
}

// NewMemory builds a shuffled deck with one pair per symbol.
func NewMemory(symbols []string, rng *rand.Rand) (*Memory, error) {
	if len(symbols) == 0 {
		return nil, errors.New("tiles: memory deck needs at least one symbol")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cards := make([]Card, 0, len(symbols)*2)
	for _, s := range symbols {
		cards = append(cards, Card{Symbol: s}, Card{Symbol: s})
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Memory{Cards: cards, open: -1}, nil
}

// Flip turns the card at i face up. The first flip of a pair just opens
// the card; the second performs the pair check, either matching both
// cards or turning both back face down.
func (m *Memory) Flip(i int) (FlipResult, error) {
	if i < 0 || i >= len(m.Cards) {
		return FlipResult{}, ErrBadIndex
	}
	card := &m.Cards[i]
	if card.Matched || card.FaceUp {
		return FlipResult{}, ErrCardUnavailable
	}

	card.FaceUp = true
	if m.open < 0 {
		m.open = i
		return FlipResult{Index: i, OtherCard: -1}, nil
	}

	first := &m.Cards[m.open]
	res := FlipResult{Index: i, PairDone: true, OtherCard: m.open}
	if first.Symbol == card.Symbol {
		first.Matched, card.Matched = true, true
		res.Match = true
	} else {
		first.FaceUp, card.FaceUp = false, false
	}
	m.open = -1
	return res, nil
}

// Complete reports whether every card is matched.
func (m *Memory) Complete() bool {
	for i := range m.Cards {
		if !m.Cards[i].Matched {
			return false
		}
	}
	return true
}
