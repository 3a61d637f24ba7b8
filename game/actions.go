package game

import (
	"sort"
	"strings"
)

// ActionGenerator enumerates placement actions for the current actor's
// dealt cards. Implementations must be deterministic given the dealt cards
// and board, and must use canonical first-empty slot indices so that
// actions differing only by a symmetry of equivalent slots collapse.
type ActionGenerator interface {
	Actions(s *GameState) []Action
}

// LegalActions enumerates the current actor's moves using the state's
// generator. If the generator comes up empty while the board still has
// room, the bottom-up fallback action is substituted.
func (s *GameState) LegalActions() []Action {
	if s.IsTerminal() {
		return nil
	}
	actions := s.gen.Actions(s)
	if len(actions) == 0 {
		if a, ok := s.fallbackAction(); ok {
			actions = []Action{a}
		}
	}
	return actions
}

// fallbackAction places the dealt cards into the first available slots in
// bottom -> middle -> top order, discarding the last dealt card on streets
// 2-5.
func (s *GameState) fallbackAction() (Action, bool) {
	board := &s.boards[s.current]
	cards := s.dealt
	discard := InvalidCard
	if s.street > 1 {
		if len(cards) != 3 {
			return Action{}, false
		}
		discard = cards[2]
		cards = cards[:2]
	}
	placements, ok := fillRows(board, cards, []Row{Bottom, Middle, Top})
	if !ok {
		return Action{}, false
	}
	return Action{Placements: placements, Discard: discard}, true
}

// fillRows assigns cards to successive empty slots, exhausting each row in
// the given order before moving to the next.
func fillRows(b *Board, cards []Card, order []Row) ([]Placement, bool) {
	placements := make([]Placement, 0, len(cards))
	i := 0
	for _, r := range order {
		for _, slot := range b.emptySlots(r) {
			if i == len(cards) {
				return placements, true
			}
			placements = append(placements, Placement{Card: cards[i], Row: r, Slot: slot})
			i++
		}
	}
	return placements, i == len(cards)
}

// ExhaustiveGenerator materializes every distinct row assignment of the
// dealt cards (and every discard choice on streets 2-5). Within-row card
// order does not affect hand strength and is collapsed to canonical slot
// order. Suitable for inspection and tests; too wide for full-tree
// training from street 1.
type ExhaustiveGenerator struct{}

func (ExhaustiveGenerator) Actions(s *GameState) []Action {
	board := &s.boards[s.current]
	if s.street == 1 {
		return placeAllAssignments(board, s.dealt, InvalidCard)
	}
	var actions []Action
	for i := range s.dealt {
		toPlace := make([]Card, 0, 2)
		for j, c := range s.dealt {
			if j != i {
				toPlace = append(toPlace, c)
			}
		}
		actions = append(actions, placeTwoAssignments(board, toPlace, s.dealt[i])...)
	}
	return actions
}

// placeAllAssignments enumerates all functions cards -> rows respecting
// row capacity.
func placeAllAssignments(b *Board, cards []Card, discard Card) []Action {
	free := [3][]int{b.emptySlots(Top), b.emptySlots(Middle), b.emptySlots(Bottom)}
	var actions []Action
	assignment := make([]Row, len(cards))
	used := [3]int{}

	var rec func(i int)
	rec = func(i int) {
		if i == len(cards) {
			placements := make([]Placement, len(cards))
			offset := [3]int{}
			for j, r := range assignment {
				placements[j] = Placement{Card: cards[j], Row: r, Slot: free[r][offset[r]]}
				offset[r]++
			}
			actions = append(actions, Action{Placements: placements, Discard: discard})
			return
		}
		for _, r := range Rows {
			if used[r] < len(free[r]) {
				assignment[i] = r
				used[r]++
				rec(i + 1)
				used[r]--
			}
		}
	}
	rec(0)
	return actions
}

// placeTwoAssignments enumerates the row assignments of a 2-card
// placement.
func placeTwoAssignments(b *Board, cards []Card, discard Card) []Action {
	var actions []Action
	for _, ra := range Rows {
		slotsA := b.emptySlots(ra)
		if len(slotsA) == 0 {
			continue
		}
		for _, rb := range Rows {
			if ra == rb {
				if len(slotsA) < 2 {
					continue
				}
				actions = append(actions, Action{
					Placements: []Placement{
						{Card: cards[0], Row: ra, Slot: slotsA[0]},
						{Card: cards[1], Row: ra, Slot: slotsA[1]},
					},
					Discard: discard,
				})
				continue
			}
			slotsB := b.emptySlots(rb)
			if len(slotsB) == 0 {
				continue
			}
			actions = append(actions, Action{
				Placements: []Placement{
					{Card: cards[0], Row: ra, Slot: slotsA[0]},
					{Card: cards[1], Row: rb, Slot: slotsB[0]},
				},
				Discard: discard,
			})
		}
	}
	return actions
}

// PatternGenerator is the training abstraction: a fixed family of
// row-count patterns over deterministic card orderings. It keeps the
// per-node branching small enough that a full vanilla traversal of one
// deal stays tractable, while preserving the placements that matter
// strategically (keep strength low on the board, chase flushes, choose
// the discard).
type PatternGenerator struct{}

// street1Patterns is the (bottom, middle, top) row-count family tried on
// the initial five cards.
var street1Patterns = [...][3]int{
	{5, 0, 0},
	{3, 2, 0},
	{2, 3, 0},
	{3, 1, 1},
	{2, 2, 1},
	{1, 2, 2},
}

func (PatternGenerator) Actions(s *GameState) []Action {
	board := &s.boards[s.current]
	if s.street == 1 {
		return street1PatternActions(board, s.dealt)
	}
	return laterStreetPatternActions(board, s.dealt)
}

func street1PatternActions(b *Board, dealt []Card) []Action {
	orderings := [][]Card{byRankDesc(dealt)}
	if grouped, ok := bySuitGroup(dealt); ok {
		orderings = append(orderings, grouped)
	}

	var actions []Action
	seen := make(map[string]bool)
	for _, cards := range orderings {
		for _, pat := range street1Patterns {
			placements, ok := applyPattern(b, cards, pat)
			if !ok {
				continue
			}
			a := Action{Placements: placements, Discard: InvalidCard}
			if sig := actionSignature(a); !seen[sig] {
				seen[sig] = true
				actions = append(actions, a)
			}
		}
	}
	return actions
}

// applyPattern deals cards[0:nb] to the bottom, the next nm to the middle
// and the last nt to the top.
func applyPattern(b *Board, cards []Card, pat [3]int) ([]Placement, bool) {
	nb, nm, nt := pat[0], pat[1], pat[2]
	if len(b.emptySlots(Bottom)) < nb || len(b.emptySlots(Middle)) < nm || len(b.emptySlots(Top)) < nt {
		return nil, false
	}
	placements := make([]Placement, 0, len(cards))
	i := 0
	for _, seg := range [3]struct {
		row Row
		n   int
	}{{Bottom, nb}, {Middle, nm}, {Top, nt}} {
		slots := b.emptySlots(seg.row)
		for k := 0; k < seg.n; k++ {
			placements = append(placements, Placement{Card: cards[i], Row: seg.row, Slot: slots[k]})
			i++
		}
	}
	return placements, true
}

// laterStreetPatternActions emits one greedy bottom-up placement per
// discard choice, plus split and top-first variants for the canonical
// (lowest-card) discard.
func laterStreetPatternActions(b *Board, dealt []Card) []Action {
	if len(dealt) != 3 {
		return nil
	}
	canonical := lowestCardIndex(dealt)

	var actions []Action
	seen := make(map[string]bool)
	add := func(placements []Placement, ok bool, discard Card) {
		if !ok {
			return
		}
		a := Action{Placements: placements, Discard: discard}
		if sig := actionSignature(a); !seen[sig] {
			seen[sig] = true
			actions = append(actions, a)
		}
	}

	for i := range dealt {
		keep := byRankDesc(removeIndex(dealt, i))
		placements, ok := fillRows(b, keep, []Row{Bottom, Middle, Top})
		add(placements, ok, dealt[i])

		if i == canonical {
			placements, ok = splitRows(b, keep)
			add(placements, ok, dealt[i])
			placements, ok = fillRows(b, keep, []Row{Top, Middle, Bottom})
			add(placements, ok, dealt[i])
		}
	}
	return actions
}

// splitRows places two cards into the first two distinct rows with room,
// scanning bottom-up.
func splitRows(b *Board, cards []Card) ([]Placement, bool) {
	if len(cards) != 2 {
		return nil, false
	}
	var open []Row
	for _, r := range []Row{Bottom, Middle, Top} {
		if b.FirstEmpty(r) >= 0 {
			open = append(open, r)
		}
	}
	if len(open) < 2 {
		return nil, false
	}
	return []Placement{
		{Card: cards[0], Row: open[0], Slot: b.FirstEmpty(open[0])},
		{Card: cards[1], Row: open[1], Slot: b.FirstEmpty(open[1])},
	}, true
}

// actionSignature canonicalizes an action for dedup. Card order within a
// row does not affect hand strength, so it is sorted away.
func actionSignature(a Action) string {
	var rows [3][]Card
	for _, p := range a.Placements {
		rows[p.Row] = append(rows[p.Row], p.Card)
	}
	var b strings.Builder
	for _, r := range Rows {
		cards := rows[r]
		sort.Slice(cards, func(i, j int) bool { return cards[i] < cards[j] })
		b.WriteString(r.String())
		for _, c := range cards {
			b.WriteString(c.String())
		}
		b.WriteByte(';')
	}
	b.WriteString(a.Discard.String())
	return b.String()
}

func removeIndex(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	for j, c := range cards {
		if j != i {
			out = append(out, c)
		}
	}
	return out
}

func lowestCardIndex(cards []Card) int {
	low := 0
	for i, c := range cards {
		if c.Rank() < cards[low].Rank() || (c.Rank() == cards[low].Rank() && c < cards[low]) {
			low = i
		}
	}
	return low
}

func byRankDesc(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank() != out[j].Rank() {
			return out[i].Rank() > out[j].Rank()
		}
		return out[i] > out[j]
	})
	return out
}

// bySuitGroup orders a flush draw's suited cards first (rank descending),
// then the rest. It reports false when no suit has four or more cards.
func bySuitGroup(cards []Card) ([]Card, bool) {
	var counts [4]int
	for _, c := range cards {
		counts[c.Suit()]++
	}
	best := 0
	for s := 1; s < 4; s++ {
		if counts[s] > counts[best] {
			best = s
		}
	}
	if counts[best] < 4 {
		return nil, false
	}
	sorted := byRankDesc(cards)
	out := make([]Card, 0, len(cards))
	for _, c := range sorted {
		if c.Suit() == best {
			out = append(out, c)
		}
	}
	for _, c := range sorted {
		if c.Suit() != best {
			out = append(out, c)
		}
	}
	return out, true
}
