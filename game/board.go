package game

import (
	"fmt"
	"strings"
)

// Row is one of the three lines on an OFC board.
type Row int

const (
	Top Row = iota
	Middle
	Bottom
)

var rowNames = [...]string{"top", "middle", "bottom"}

func (r Row) String() string { return rowNames[r] }

// Size returns the number of slots in the row.
func (r Row) Size() int {
	if r == Top {
		return 3
	}
	return 5
}

// Rows lists the board rows in top-to-bottom order.
var Rows = [3]Row{Top, Middle, Bottom}

// Board is one player's 3/5/5 placement grid. Empty slots hold InvalidCard.
type Board struct {
	Top    [3]Card
	Middle [5]Card
	Bottom [5]Card
}

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for i := range b.Top {
		b.Top[i] = InvalidCard
	}
	for i := range b.Middle {
		b.Middle[i] = InvalidCard
		b.Bottom[i] = InvalidCard
	}
	return b
}

func (b *Board) row(r Row) []Card {
	switch r {
	case Top:
		return b.Top[:]
	case Middle:
		return b.Middle[:]
	}
	return b.Bottom[:]
}

// RowCards returns the placed cards of a row, in slot order.
func (b Board) RowCards(r Row) []Card {
	cards := make([]Card, 0, r.Size())
	for _, c := range b.row(r) {
		if c.Valid() {
			cards = append(cards, c)
		}
	}
	return cards
}

// AllCards returns every placed card, top row first.
func (b Board) AllCards() []Card {
	cards := make([]Card, 0, 13)
	for _, r := range Rows {
		cards = append(cards, b.RowCards(r)...)
	}
	return cards
}

// CardCount returns the number of placed cards.
func (b Board) CardCount() int {
	n := 0
	for _, r := range Rows {
		for _, c := range b.row(r) {
			if c.Valid() {
				n++
			}
		}
	}
	return n
}

// FirstEmpty returns the canonical next slot index of a row, or -1 if the
// row is full.
func (b Board) FirstEmpty(r Row) int {
	for i, c := range b.row(r) {
		if !c.Valid() {
			return i
		}
	}
	return -1
}

// emptySlots returns the indices of all empty slots of a row.
func (b *Board) emptySlots(r Row) []int {
	var idx []int
	for i, c := range b.row(r) {
		if !c.Valid() {
			idx = append(idx, i)
		}
	}
	return idx
}

// place writes a card into an empty slot. Writing to an occupied slot or
// placing a card already on the board is a programmer error.
func (b *Board) place(r Row, slot int, c Card) {
	if !c.Valid() {
		panic(fmt.Errorf("placing invalid card in %v[%d]", r, slot))
	}
	row := b.row(r)
	if slot < 0 || slot >= len(row) {
		panic(fmt.Errorf("slot %v[%d] out of range", r, slot))
	}
	if row[slot].Valid() {
		panic(fmt.Errorf("slot %v[%d] already holds %v", r, slot, row[slot]))
	}
	for _, rr := range Rows {
		for _, held := range b.row(rr) {
			if held == c {
				panic(fmt.Errorf("card %v is already on the board", c))
			}
		}
	}
	row[slot] = c
}

// IsFoul reports whether a complete board violates the bottom >= middle >=
// top strength order. Incomplete boards are not yet judged and return false.
func (b Board) IsFoul(e *Evaluator) bool {
	if b.CardCount() != 13 {
		return false
	}
	top := e.Evaluate(b.RowCards(Top))
	mid := e.Evaluate(b.RowCards(Middle))
	bot := e.Evaluate(b.RowCards(Bottom))
	return mid.Beats(bot) || top.Beats(mid)
}

// TotalRoyalty sums the per-row royalties. A foul board scores 0.
func (b Board) TotalRoyalty(e *Evaluator) int {
	if b.IsFoul(e) {
		return 0
	}
	total := 0
	for _, r := range Rows {
		total += e.Royalty(b.RowCards(r), r)
	}
	return total
}

// QualifiesForFantasyland reports whether the top row of a complete,
// non-foul board earns Fantasyland: a pair of queens or better, or any
// trips.
func (b Board) QualifiesForFantasyland(e *Evaluator) bool {
	if b.CardCount() != 13 || b.IsFoul(e) {
		return false
	}
	top := b.RowCards(Top)
	if len(top) != 3 {
		return false
	}
	switch e.Evaluate(top).Class {
	case ThreeOfAKind:
		return true
	case Pair:
		return pairRank(top) >= 10 // queens
	}
	return false
}

// FantasylandCardCount returns the number of cards dealt in the earned
// Fantasyland hand: 14 for QQ, 15 for KK, 16 for AA, 17 for trips. Boards
// that do not qualify return 0.
func (b Board) FantasylandCardCount(e *Evaluator) int {
	if !b.QualifiesForFantasyland(e) {
		return 0
	}
	top := b.RowCards(Top)
	if e.Evaluate(top).Class == ThreeOfAKind {
		return 17
	}
	return pairRank(top) + 4 // QQ (rank 10) -> 14
}

// String renders the board one row per line with "??" for empty slots.
func (b Board) String() string {
	var sb strings.Builder
	for i, r := range Rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, c := range b.row(r) {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}
