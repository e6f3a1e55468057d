package engine

import (
	"errors"
	"testing"

	"github.com/wricardo/playzone-arcade/game/rng"
)

// newMemoryWithCards deals an easy game and replaces its layout
func newMemoryWithCards(cards []int) *MemoryGame {
	g := NewMemory(rng.Identity{}, DefaultPresets(), "easy")
	g.cards = cards
	g.revealed = make([]bool, len(cards))
	g.matched = make([]bool, len(cards))
	g.totalPairs = len(cards) / 2
	return g
}

func TestMemoryDeckIsExactPairs(t *testing.T) {
	src := rng.New(5)
	for _, tt := range []struct {
		difficulty string
		side       int
	}{
		{"easy", 4},
		{"medium", 6},
		{"hard", 8},
		{"unknown", 6},
	} {
		t.Run(tt.difficulty, func(t *testing.T) {
			g := NewMemory(src, DefaultPresets(), tt.difficulty)
			total := tt.side * tt.side
			if len(g.cards) != total || g.gridSize != tt.side || g.totalPairs != total/2 {
				t.Fatalf("unexpected layout: %d cards, side %d, pairs %d", len(g.cards), g.gridSize, g.totalPairs)
			}
			counts := map[int]int{}
			for _, c := range g.cards {
				counts[c]++
			}
			if len(counts) != total/2 {
				t.Errorf("expected %d labels, got %d", total/2, len(counts))
			}
			for label := 1; label <= total/2; label++ {
				if counts[label] != 2 {
					t.Errorf("label %d appears %d times", label, counts[label])
				}
			}
		})
	}
}

func TestMemoryViewHidesFaceDownCards(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})
	if _, err := g.Flip(0); err != nil {
		t.Fatal(err)
	}
	v := g.View().(MemoryView)
	if v.Cards[0] != 1 {
		t.Errorf("face-up card should be visible, got %d", v.Cards[0])
	}
	for i := 1; i < 4; i++ {
		if v.Cards[i] != 0 {
			t.Errorf("face-down card %d leaked value %d", i, v.Cards[i])
		}
	}
}

func TestMemoryNoMatchThenHide(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})

	out, err := g.Flip(0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != FlipFirstCard || out.CardValue != 1 || out.Moves != 0 {
		t.Errorf("unexpected first flip %+v", out)
	}

	out, err = g.Flip(1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != FlipNoMatch || out.CardValue != 2 || out.Moves != 1 {
		t.Errorf("unexpected second flip %+v", out)
	}
	if out.FirstCard == nil || *out.FirstCard != 0 || out.SecondCard == nil || *out.SecondCard != 1 {
		t.Errorf("pending indices not reported: %+v", out)
	}
	if !g.revealed[0] || !g.revealed[1] {
		t.Error("mismatched cards stay revealed until hidden")
	}
	if g.matches != 0 {
		t.Error("matches must not increment on a mismatch")
	}

	// third flip is blocked until the pair is hidden
	if _, err := g.Flip(2); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("expected invalid move while a mismatch is pending, got %v", err)
	}

	hidden := g.HideNonMatches()
	if hidden.Revealed[0] || hidden.Revealed[1] {
		t.Errorf("pair should be face down, got %v", hidden.Revealed)
	}
	first, second := g.Pending()
	if first != nil || second != nil {
		t.Error("pending slots should be cleared")
	}

	if _, err := g.Flip(2); err != nil {
		t.Errorf("flip after hide should succeed: %v", err)
	}
}

func TestMemoryHideIsIdempotent(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})
	if _, err := g.Flip(3); err != nil {
		t.Fatal(err)
	}

	before := copyBools(g.revealed)
	for i := 0; i < 3; i++ {
		out := g.HideNonMatches()
		for j := range before {
			if out.Revealed[j] != before[j] {
				t.Fatalf("hide with only a first card changed revealed: %v", out.Revealed)
			}
		}
	}
	if first, _ := g.Pending(); first == nil || *first != 3 {
		t.Error("hide must not clear a lone first card")
	}
}

func TestMemoryMatchAndComplete(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})

	steps := []struct {
		index      int
		wantStatus string
	}{
		{0, FlipFirstCard},
		{2, FlipMatch},
		{3, FlipFirstCard},
		{1, FlipMatch},
	}

	var out *FlipOutcome
	for _, s := range steps {
		var err error
		out, err = g.Flip(s.index)
		if err != nil {
			t.Fatalf("flip %d: %v", s.index, err)
		}
		if out.Status != s.wantStatus {
			t.Fatalf("flip %d: status %s, want %s", s.index, out.Status, s.wantStatus)
		}
	}

	if out.GameStatus != StatusCompleted || out.Matches != 2 || out.Moves != 2 {
		t.Errorf("unexpected final outcome %+v", out)
	}
	for i, m := range out.Matched {
		if !m {
			t.Errorf("card %d should be matched", i)
		}
	}
	if g.Status() != StatusCompleted {
		t.Errorf("status = %s, want completed", g.Status())
	}

	// perfect game on 2 pairs: max(1, 6-2+1)
	if res := g.Result(); res == nil || res.Points != 5 || res.Attempts != 2 {
		t.Errorf("unexpected result %+v", res)
	}

	if _, err := g.Flip(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected invalid state after completion, got %v", err)
	}
	if out := g.HideNonMatches(); len(out.Revealed) != 4 {
		t.Error("hide after completion should be a no-op returning revealed")
	}
}

func TestMemoryRejectsBadFlips(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})
	if _, err := g.Flip(0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Flip(2); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		index int
	}{
		{"re-flip matched card", 0},
		{"negative index", -1},
		{"past the end", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Flip(tt.index)
			if !errors.Is(err, ErrInvalidMove) || FieldOf(err) != "card_index" {
				t.Errorf("expected invalid move on card_index, got %v", err)
			}
		})
	}

	if _, err := g.Flip(1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Flip(1); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("re-flipping a revealed card should fail, got %v", err)
	}
	if g.moves != 1 {
		t.Errorf("rejected flips must not count as moves, got %d", g.moves)
	}
}

func TestMemoryScenarioEasy(t *testing.T) {
	g := NewMemory(rng.New(3), DefaultPresets(), "easy")
	if g.totalPairs != 8 || len(g.cards) != 16 {
		t.Fatalf("easy should be 8 pairs over 16 cells")
	}

	// find a second index whose value differs from card 0
	other := -1
	for i := 1; i < len(g.cards); i++ {
		if g.cards[i] != g.cards[0] {
			other = i
			break
		}
	}

	if out, _ := g.Flip(0); out.Status != FlipFirstCard {
		t.Fatalf("expected first_card, got %s", out.Status)
	}
	out, err := g.Flip(other)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != FlipNoMatch {
		t.Fatalf("expected no_match, got %s", out.Status)
	}
	if !out.Revealed[0] || !out.Revealed[other] {
		t.Error("both cards should stay revealed")
	}
	g.HideNonMatches()
	if g.revealed[0] || g.revealed[other] {
		t.Error("hide should turn both cards back over")
	}
}

func TestMemoryOutcomeDoesNotAliasState(t *testing.T) {
	g := newMemoryWithCards([]int{1, 2, 1, 2})
	out, _ := g.Flip(0)
	out.Revealed[1] = true
	if g.revealed[1] {
		t.Error("outcome slices must be copies")
	}
}
