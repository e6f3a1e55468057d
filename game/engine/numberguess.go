package engine

import "github.com/wricardo/playzone-arcade/game/rng"

// NumberGuessGame is a hidden target the player narrows down with hints
type NumberGuessGame struct {
	target      int
	bounds      Range
	attempts    int
	maxAttempts int
	difficulty  Difficulty
	status      Status
}

// NumberGuessView is the public snapshot. Target appears only once the
// game is over.
type NumberGuessView struct {
	Min         int        `json:"min"`
	Max         int        `json:"max"`
	MaxAttempts int        `json:"max_attempts"`
	Attempts    int        `json:"attempts"`
	Difficulty  Difficulty `json:"difficulty"`
	Status      Status     `json:"status"`
	Target      *int       `json:"target,omitempty"`
}

// GuessOutcome is the response to a single guess
type GuessOutcome struct {
	Result    string `json:"result"` // correct, incorrect or game_over
	Hint      string `json:"hint,omitempty"`
	Attempts  int    `json:"attempts"`
	Remaining int    `json:"remaining,omitempty"`
	Target    *int   `json:"target,omitempty"`
	Status    Status `json:"status"`
}

// NewNumberGuess draws a target uniformly from the difficulty's bounds
func NewNumberGuess(src rng.Source, presets Presets, difficulty string) *NumberGuessGame {
	d := ParseDifficulty(difficulty)
	bounds := presets.NumberRange(d)
	maxAttempts := presets.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &NumberGuessGame{
		target:      bounds.Min + src.Intn(bounds.Max-bounds.Min+1),
		bounds:      bounds,
		maxAttempts: maxAttempts,
		difficulty:  d,
		status:      StatusActive,
	}
}

func (g *NumberGuessGame) Type() GameType   { return NumberGuess }
func (g *NumberGuessGame) Status() Status   { return g.status }
func (g *NumberGuessGame) IsTerminal() bool { return g.status.Terminal() }

func (g *NumberGuessGame) Apply(_ rng.Source, action Action) (any, error) {
	a, ok := action.(Guess)
	if !ok {
		return nil, wrongAction(NumberGuess, action)
	}
	return g.Guess(a.Value)
}

// Guess consumes one attempt
func (g *NumberGuessGame) Guess(value int) (*GuessOutcome, error) {
	if g.status != StatusActive {
		return nil, notActive(NumberGuess)
	}

	g.attempts++

	if value == g.target {
		g.status = StatusWon
		return &GuessOutcome{
			Result:   "correct",
			Attempts: g.attempts,
			Target:   intPtr(g.target),
			Status:   g.status,
		}, nil
	}

	if g.attempts >= g.maxAttempts {
		g.status = StatusLost
		return &GuessOutcome{
			Result:   "game_over",
			Attempts: g.attempts,
			Target:   intPtr(g.target),
			Status:   g.status,
		}, nil
	}

	hint := "lower"
	if value < g.target {
		hint = "higher"
	}
	return &GuessOutcome{
		Result:    "incorrect",
		Hint:      hint,
		Attempts:  g.attempts,
		Remaining: g.maxAttempts - g.attempts,
		Status:    g.status,
	}, nil
}

func (g *NumberGuessGame) View() any {
	v := NumberGuessView{
		Min:         g.bounds.Min,
		Max:         g.bounds.Max,
		MaxAttempts: g.maxAttempts,
		Attempts:    g.attempts,
		Difficulty:  g.difficulty,
		Status:      g.status,
	}
	if g.IsTerminal() {
		v.Target = intPtr(g.target)
	}
	return v
}

// Result awards more points the fewer attempts a win took
func (g *NumberGuessGame) Result() *Result {
	if !g.IsTerminal() {
		return nil
	}
	points := 0
	if g.status == StatusWon {
		points = max(1, g.maxAttempts-g.attempts+1)
	}
	return &Result{GameType: NumberGuess, Points: points, Attempts: g.attempts, Difficulty: g.difficulty}
}
