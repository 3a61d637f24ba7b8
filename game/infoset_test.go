package game

import (
	"strings"
	"testing"
)

func TestInfosetKeyInitial(t *testing.T) {
	s := street1State([]Card{0, 4, 8, 12, 16}, PatternGenerator{})
	want := "S1|B:E;M:E;T:E|OB:E;OM:E;OT:E|H:2s3s4s5s6s"
	if got := s.InfosetKey(); got != want {
		t.Errorf("InfosetKey = %q, expected %q", got, want)
	}
}

func TestInfosetKeySortsHand(t *testing.T) {
	s := street1State(mustCards(t, "6s 2s 5s 3s 4s"), PatternGenerator{})
	if got := s.InfosetKey(); !strings.HasSuffix(got, "H:2s3s4s5s6s") {
		t.Errorf("InfosetKey = %q, dealt cards not sorted", got)
	}
}

func TestRowSummaries(t *testing.T) {
	cases := []struct {
		cards string
		want  string
	}{
		{"", "E"},
		{"As", "C1"},
		{"Ah Kh", "C2F1"},
		{"9s 9c", "C2P1"},
		{"9s 9c 4h", "C3P1"},
		{"Qs Qh Qd", "C3T1"},
		{"As Ks 9s 5s 2s", "C5F0"},
		{"9s 9h 4d 4c 2h", "C5P2"},
		{"9s 9h 9d 4c 4h", "C5T1P1"},
		{"Ah Kd 9h 5c 2s", "C5"},
	}
	for _, tc := range cases {
		var b strings.Builder
		var cards []Card
		if tc.cards != "" {
			cards = mustCards(t, tc.cards)
		}
		writeRowSummary(&b, cards)
		if got := b.String(); got != tc.want {
			t.Errorf("rowSummary(%q) = %q, expected %q", tc.cards, got, tc.want)
		}
	}
}

func TestInfosetKeyDistinguishesSeats(t *testing.T) {
	s := street1State(mustCards(t, "As Kd 9h 5c 2s"), PatternGenerator{})
	s.boards[1].place(Bottom, 0, mustCard(t, "Qh"))
	key := s.InfosetKey()
	if !strings.Contains(key, "|OB:C1;") {
		t.Errorf("key %q does not summarize the opponent's bottom row", key)
	}
	if !strings.Contains(key, "|B:E;") {
		t.Errorf("key %q does not keep the actor's board empty", key)
	}
}
