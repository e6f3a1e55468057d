package engine

import (
	"strings"

	"github.com/wricardo/playzone-arcade/game/rng"
)

// Choice is a rock-paper-scissors hand
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices lists the hands in a fixed order for uniform draws
var Choices = []Choice{Rock, Paper, Scissors}

var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseChoice accepts a hand case-insensitively
func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := beats[c]; !ok {
		return "", Errorf(KindInvalidChoice, "choice", "choice must be rock, paper or scissors, got %q", s)
	}
	return c, nil
}

// Beats reports whether c defeats other
func (c Choice) Beats(other Choice) bool {
	return beats[c] == other
}

// RoundResult is the player's outcome of a round
type RoundResult string

const (
	Win  RoundResult = "win"
	Lose RoundResult = "lose"
	Tie  RoundResult = "tie"
)

// Judge scores player against computer
func Judge(player, computer Choice) RoundResult {
	switch {
	case player == computer:
		return Tie
	case player.Beats(computer):
		return Win
	default:
		return Lose
	}
}

// RPSOutcome is the response to a single round
type RPSOutcome struct {
	PlayerChoice   Choice      `json:"player_choice"`
	ComputerChoice Choice      `json:"computer_choice"`
	Result         RoundResult `json:"result"`
}

// PlayRPS plays one stateless round against a uniform computer choice
func PlayRPS(src rng.Source, choice string) (*RPSOutcome, error) {
	player, err := ParseChoice(choice)
	if err != nil {
		return nil, err
	}
	computer := rng.Pick(src, Choices)
	return &RPSOutcome{
		PlayerChoice:   player,
		ComputerChoice: computer,
		Result:         Judge(player, computer),
	}, nil
}

// Score summarises the round for recording. Only a win earns a point.
func (o *RPSOutcome) Score() Result {
	points := 0
	if o.Result == Win {
		points = 1
	}
	return Result{GameType: RockPaperScissors, Points: points, Attempts: 1, Difficulty: Normal}
}
