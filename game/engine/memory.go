package engine

import "github.com/wricardo/playzone-arcade/game/rng"

// Flip result signals
const (
	FlipFirstCard = "first_card"
	FlipMatch     = "match"
	FlipNoMatch   = "no_match"
)

// MemoryGame is a shuffled grid of face-down pairs
type MemoryGame struct {
	cards      []int
	revealed   []bool
	matched    []bool
	firstCard  *int
	secondCard *int
	gridSize   int
	moves      int
	matches    int
	totalPairs int
	difficulty Difficulty
	status     Status
}

// MemoryView is the public snapshot. Cards holds the value of every face-up
// or matched card and 0 for face-down ones.
type MemoryView struct {
	GridSize   int        `json:"grid_size"`
	TotalPairs int        `json:"total_pairs"`
	Difficulty Difficulty `json:"difficulty"`
	Cards      []int      `json:"cards"`
	Revealed   []bool     `json:"revealed"`
	Matched    []bool     `json:"matched"`
	Moves      int        `json:"moves"`
	Matches    int        `json:"matches"`
	Status     Status     `json:"status"`
}

// FlipOutcome is the response to a flip. Which fields are set depends on
// Status: first_card carries the card only, match adds the counters and
// matched flags, no_match adds the pending indices.
type FlipOutcome struct {
	CardIndex  int    `json:"card_index"`
	CardValue  int    `json:"card_value"`
	Status     string `json:"status"`
	Revealed   []bool `json:"revealed"`
	Moves      int    `json:"moves,omitempty"`
	Matches    int    `json:"matches,omitempty"`
	GameStatus Status `json:"game_status,omitempty"`
	Matched    []bool `json:"matched,omitempty"`
	FirstCard  *int   `json:"first_card,omitempty"`
	SecondCard *int   `json:"second_card,omitempty"`
}

// HideOutcome is the response to hiding a mismatched pair
type HideOutcome struct {
	Revealed []bool `json:"revealed"`
}

// BuildDeck returns each label 1..pairs exactly twice, in order
func BuildDeck(pairs int) []int {
	deck := make([]int, 0, pairs*2)
	for i := 1; i <= pairs; i++ {
		deck = append(deck, i, i)
	}
	return deck
}

// NewMemory deals a shuffled side x side grid for the difficulty
func NewMemory(src rng.Source, presets Presets, difficulty string) *MemoryGame {
	d := ParseDifficulty(difficulty)
	side := presets.MemorySide(d)
	total := side * side
	pairs := total / 2

	cards := BuildDeck(pairs)
	src.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &MemoryGame{
		cards:      cards,
		revealed:   make([]bool, len(cards)),
		matched:    make([]bool, len(cards)),
		gridSize:   side,
		totalPairs: pairs,
		difficulty: d,
		status:     StatusActive,
	}
}

func (g *MemoryGame) Type() GameType   { return Memory }
func (g *MemoryGame) Status() Status   { return g.status }
func (g *MemoryGame) IsTerminal() bool { return g.status.Terminal() }

// Cards returns a copy of the full deck layout
func (g *MemoryGame) Cards() []int { return copyInts(g.cards) }

// Pending reports the unresolved first and second card indices
func (g *MemoryGame) Pending() (first, second *int) {
	return g.firstCard, g.secondCard
}

func (g *MemoryGame) Apply(_ rng.Source, action Action) (any, error) {
	switch a := action.(type) {
	case Flip:
		return g.Flip(a.Index)
	case Hide:
		return g.HideNonMatches(), nil
	}
	return nil, wrongAction(Memory, action)
}

// Flip reveals the card at index. A mismatched pair must be hidden before
// the next flip.
func (g *MemoryGame) Flip(index int) (*FlipOutcome, error) {
	if g.status != StatusActive {
		return nil, notActive(Memory)
	}
	if index < 0 || index >= len(g.cards) {
		return nil, Errorf(KindInvalidMove, "card_index", "card index must be between 0 and %d, got %d", len(g.cards)-1, index)
	}
	if g.matched[index] {
		return nil, Errorf(KindInvalidMove, "card_index", "card %d is already matched", index)
	}
	if g.revealed[index] {
		return nil, Errorf(KindInvalidMove, "card_index", "card %d is already revealed", index)
	}
	if g.secondCard != nil {
		return nil, Errorf(KindInvalidMove, "card_index", "hide the unmatched pair before flipping again")
	}

	g.revealed[index] = true
	out := &FlipOutcome{CardIndex: index, CardValue: g.cards[index]}

	if g.firstCard == nil {
		g.firstCard = intPtr(index)
		out.Status = FlipFirstCard
		out.Revealed = copyBools(g.revealed)
		return out, nil
	}

	first := *g.firstCard
	g.moves++
	out.Moves = g.moves

	if g.cards[first] == g.cards[index] {
		g.matched[first] = true
		g.matched[index] = true
		g.matches++
		g.firstCard = nil
		if g.matches == g.totalPairs {
			g.status = StatusCompleted
		}
		out.Status = FlipMatch
		out.Matches = g.matches
		out.GameStatus = g.status
		out.Matched = copyBools(g.matched)
		out.Revealed = copyBools(g.revealed)
		return out, nil
	}

	g.secondCard = intPtr(index)
	out.Status = FlipNoMatch
	out.FirstCard = intPtr(first)
	out.SecondCard = intPtr(index)
	out.Revealed = copyBools(g.revealed)
	return out, nil
}

// HideNonMatches turns a pending mismatched pair face down. It is a no-op
// when no such pair exists, including after the game has completed.
func (g *MemoryGame) HideNonMatches() *HideOutcome {
	if g.firstCard != nil && g.secondCard != nil {
		g.revealed[*g.firstCard] = false
		g.revealed[*g.secondCard] = false
		g.firstCard = nil
		g.secondCard = nil
	}
	return &HideOutcome{Revealed: copyBools(g.revealed)}
}

func (g *MemoryGame) View() any {
	visible := make([]int, len(g.cards))
	for i, c := range g.cards {
		if g.revealed[i] || g.matched[i] {
			visible[i] = c
		}
	}
	return MemoryView{
		GridSize:   g.gridSize,
		TotalPairs: g.totalPairs,
		Difficulty: g.difficulty,
		Cards:      visible,
		Revealed:   copyBools(g.revealed),
		Matched:    copyBools(g.matched),
		Moves:      g.moves,
		Matches:    g.matches,
		Status:     g.status,
	}
}

// Result rewards finishing in few moves, floor 1
func (g *MemoryGame) Result() *Result {
	if !g.IsTerminal() {
		return nil
	}
	points := max(1, g.totalPairs*3-g.moves+1)
	return &Result{GameType: Memory, Points: points, Attempts: g.moves, Difficulty: g.difficulty}
}
