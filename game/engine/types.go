package engine

import "strings"

// GameType identifies one of the arcade games
type GameType string

const (
	NumberGuess       GameType = "number_guess"
	RockPaperScissors GameType = "rps"
	TicTacToe         GameType = "tictactoe"
	Memory            GameType = "memory"
	Snake             GameType = "snake"
)

// GameTypes lists every game in display order
var GameTypes = []GameType{NumberGuess, RockPaperScissors, TicTacToe, Memory, Snake}

// ParseGameType accepts the canonical tag plus a few common spellings
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number_guess", "number-guess", "numberguess", "guess":
		return NumberGuess, nil
	case "rps", "rock_paper_scissors", "rock-paper-scissors":
		return RockPaperScissors, nil
	case "tictactoe", "tic_tac_toe", "tic-tac-toe":
		return TicTacToe, nil
	case "memory", "memory_match", "memory-match":
		return Memory, nil
	case "snake":
		return Snake, nil
	}
	return "", Errorf(KindInvalidInput, "game_type", "unknown game type %q", s)
}

// Difficulty selects a preset for games that have one
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	// Normal is reported by games without difficulty presets
	Normal Difficulty = "normal"
)

// ParseDifficulty maps unrecognized or empty input to Medium
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	default:
		return Medium
	}
}

// Status is the lifecycle state of a game. Each game uses its own subset.
type Status string

const (
	StatusActive    Status = "active"
	StatusWon       Status = "won"       // number guess
	StatusLost      Status = "lost"      // number guess
	StatusFinished  Status = "finished"  // tic-tac-toe
	StatusCompleted Status = "completed" // memory
	StatusGameOver  Status = "game_over" // snake
)

// Terminal reports whether no further actions are accepted
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Position represents x,y coordinates on the snake grid
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Result is the scoring summary of a finished game
type Result struct {
	GameType   GameType   `json:"game_type"`
	Points     int        `json:"points"`
	Attempts   int        `json:"attempts"`
	Difficulty Difficulty `json:"difficulty"`
}
