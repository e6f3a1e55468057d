package engine

import (
	"fmt"

	"github.com/wricardo/playzone-arcade/game/rng"
)

// Game is the capability every session-backed game provides
type Game interface {
	Type() GameType
	Status() Status
	IsTerminal() bool

	// Apply validates the action and, only if it is accepted, mutates the
	// game. The returned outcome never aliases internal state.
	Apply(src rng.Source, action Action) (any, error)

	// View is the public snapshot of the game. Hidden information such as
	// an unguessed target or face-down cards is never included.
	View() any

	// Result is nil until the game reaches a terminal status
	Result() *Result
}

// Action is one player input addressed to a session game
type Action interface {
	ActionName() string
}

// Guess submits a number to a number guess game
type Guess struct{ Value int }

// Place claims a tic-tac-toe cell 0..8
type Place struct{ Position int }

// Flip turns a memory card face up
type Flip struct{ Index int }

// Hide turns an unmatched memory pair back face down
type Hide struct{}

// Steer advances the snake one tick. An empty direction keeps the heading.
type Steer struct{ Direction string }

func (Guess) ActionName() string { return "guess" }
func (Place) ActionName() string { return "move" }
func (Flip) ActionName() string  { return "flip" }
func (Hide) ActionName() string  { return "hide" }
func (Steer) ActionName() string { return "steer" }

// New creates a fresh game of the given type
func New(gameType GameType, src rng.Source, presets Presets, difficulty string) (Game, error) {
	switch gameType {
	case NumberGuess:
		return NewNumberGuess(src, presets, difficulty), nil
	case TicTacToe:
		return NewTicTacToe(), nil
	case Memory:
		return NewMemory(src, presets, difficulty), nil
	case Snake:
		return NewSnake(presets), nil
	case RockPaperScissors:
		return nil, Errorf(KindInvalidInput, "game_type", "rps rounds are stateless and have no session")
	}
	return nil, Errorf(KindInvalidInput, "game_type", "unknown game type %q", gameType)
}

func wrongAction(g GameType, a Action) *Error {
	name := "<nil>"
	if a != nil {
		name = a.ActionName()
	}
	return Errorf(KindInvalidInput, "action", "%s is not a %s action", name, g)
}

func copyInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func copyBools(in []bool) []bool {
	out := make([]bool, len(in))
	copy(out, in)
	return out
}

func intPtr(v int) *int { return &v }

// String renders the result for logs
func (r Result) String() string {
	return fmt.Sprintf("%s points=%d attempts=%d difficulty=%s", r.GameType, r.Points, r.Attempts, r.Difficulty)
}
