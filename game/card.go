package game

import (
	"strings"

	"github.com/paulhankin/poker"
	"github.com/pkg/errors"
)

// Card is a single playing card, encoded as rank*4 + suit with rank 0
// (deuce) through 12 (ace) and suit indexing "shdc".
type Card uint8

// InvalidCard marks an empty board slot or an absent discard.
const InvalidCard Card = 255

const (
	rankGlyphs = "23456789TJQKA"
	suitGlyphs = "shdc"
)

// Rank returns the card's rank in [0, 12], 0 = deuce and 12 = ace.
func (c Card) Rank() int { return int(c) / 4 }

// Suit returns the card's suit in [0, 3], indexing "shdc".
func (c Card) Suit() int { return int(c) % 4 }

// Valid returns true unless c is a sentinel for an empty slot.
func (c Card) Valid() bool { return c < 52 }

// String implements fmt.Stringer, e.g. "Ah". Invalid cards render as "??".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankGlyphs[c.Rank()], suitGlyphs[c.Suit()]})
}

// ParseCard parses the two-glyph form produced by String, e.g. "Th".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return InvalidCard, errors.Errorf("malformed card %q", s)
	}
	rank := strings.IndexByte(rankGlyphs, s[0])
	suit := strings.IndexByte(suitGlyphs, s[1])
	if rank < 0 || suit < 0 {
		return InvalidCard, errors.Errorf("malformed card %q", s)
	}
	return Card(4*rank + suit), nil
}

// pokerCards maps each Card to its github.com/paulhankin/poker encoding.
var pokerCards [52]poker.Card

var pokerSuits = [4]poker.Suit{poker.Spade, poker.Heart, poker.Diamond, poker.Club}

func init() {
	for c := Card(0); c < 52; c++ {
		r := poker.Rank(c.Rank() + 2)
		if c.Rank() == 12 {
			r = poker.Rank(1) // Aces are rank 1 in the library.
		}
		pc, err := poker.MakeCard(pokerSuits[c.Suit()], r)
		if err != nil {
			panic(err)
		}
		pokerCards[c] = pc
	}
}
