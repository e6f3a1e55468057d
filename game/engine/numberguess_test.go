package engine

import (
	"errors"
	"testing"

	"github.com/wricardo/playzone-arcade/game/rng"
)

// newGuessWithTarget builds an easy game whose target is forced via the script
func newGuessWithTarget(t *testing.T, target int) *NumberGuessGame {
	t.Helper()
	g := NewNumberGuess(rng.NewScripted(target-1), DefaultPresets(), "easy")
	if g.target != target {
		t.Fatalf("expected target %d, got %d", target, g.target)
	}
	return g
}

func TestNumberGuessStart(t *testing.T) {
	tests := []struct {
		difficulty string
		want       Range
	}{
		{"easy", Range{1, 50}},
		{"medium", Range{1, 100}},
		{"hard", Range{1, 200}},
		{"bogus", Range{1, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			g := NewNumberGuess(rng.New(1), DefaultPresets(), tt.difficulty)
			v := g.View().(NumberGuessView)
			if v.Min != tt.want.Min || v.Max != tt.want.Max {
				t.Errorf("bounds = [%d,%d], want [%d,%d]", v.Min, v.Max, tt.want.Min, tt.want.Max)
			}
			if v.MaxAttempts != 10 {
				t.Errorf("max attempts = %d, want 10", v.MaxAttempts)
			}
			if v.Target != nil {
				t.Error("target must not be disclosed on start")
			}
			if v.Status != StatusActive {
				t.Errorf("status = %s, want active", v.Status)
			}
		})
	}
}

func TestNumberGuessTargetWithinBounds(t *testing.T) {
	src := rng.New(99)
	presets := DefaultPresets()
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		bounds := presets.NumberRange(d)
		for i := 0; i < 500; i++ {
			g := NewNumberGuess(src, presets, string(d))
			if !bounds.Contains(g.target) {
				t.Fatalf("%s target %d outside [%d,%d]", d, g.target, bounds.Min, bounds.Max)
			}
		}
	}
}

func TestNumberGuessBoundsAreReachable(t *testing.T) {
	presets := DefaultPresets()
	low := NewNumberGuess(rng.NewScripted(0), presets, "easy")
	high := NewNumberGuess(rng.NewScripted(49), presets, "easy")
	if low.target != 1 || high.target != 50 {
		t.Errorf("expected extremes 1 and 50, got %d and %d", low.target, high.target)
	}
}

func TestNumberGuessIncorrectHint(t *testing.T) {
	g := newGuessWithTarget(t, 40)

	out, err := g.Guess(25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result != "incorrect" || out.Hint != "higher" || out.Attempts != 1 || out.Remaining != 9 {
		t.Errorf("unexpected outcome %+v", out)
	}
	if out.Target != nil {
		t.Error("target leaked on an incorrect guess")
	}

	out, _ = g.Guess(45)
	if out.Hint != "lower" || out.Remaining != 8 {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestNumberGuessWin(t *testing.T) {
	for attempt := 1; attempt <= 10; attempt++ {
		g := newGuessWithTarget(t, 7)
		for i := 1; i < attempt; i++ {
			if _, err := g.Guess(8); err != nil {
				t.Fatalf("guess %d: %v", i, err)
			}
		}
		out, err := g.Guess(7)
		if err != nil {
			t.Fatalf("winning guess: %v", err)
		}
		if out.Result != "correct" || out.Status != StatusWon || out.Attempts != attempt {
			t.Fatalf("attempt %d: unexpected outcome %+v", attempt, out)
		}
		if out.Target == nil || *out.Target != 7 {
			t.Fatal("target should be revealed on a win")
		}

		res := g.Result()
		if res == nil || res.Points != 10-attempt+1 {
			t.Errorf("attempt %d: unexpected result %+v", attempt, res)
		}
	}
}

func TestNumberGuessLoss(t *testing.T) {
	g := newGuessWithTarget(t, 30)

	var out *GuessOutcome
	var err error
	for i := 0; i < 10; i++ {
		out, err = g.Guess(1)
		if err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
	}

	if out.Result != "game_over" || out.Status != StatusLost || out.Attempts != 10 {
		t.Errorf("unexpected final outcome %+v", out)
	}
	if out.Target == nil || *out.Target != 30 {
		t.Error("target should be revealed on a loss")
	}
	if v := g.View().(NumberGuessView); v.Target == nil {
		t.Error("view should reveal target after the game ends")
	}
	if res := g.Result(); res == nil || res.Points != 0 || res.Attempts != 10 || res.Difficulty != Easy {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestNumberGuessRejectsAfterTerminal(t *testing.T) {
	g := newGuessWithTarget(t, 3)
	if _, err := g.Guess(3); err != nil {
		t.Fatal(err)
	}

	_, err := g.Guess(3)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if g.attempts != 1 {
		t.Errorf("rejected guess must not consume an attempt, attempts=%d", g.attempts)
	}
}

func TestNumberGuessResultNilWhileActive(t *testing.T) {
	g := newGuessWithTarget(t, 3)
	if g.Result() != nil {
		t.Error("active game must not have a result")
	}
}
