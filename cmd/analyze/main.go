// Command analyze plays the arcade's built-in opponents offline and prints
// quick, human-readable statistics. It pits random human players against the
// tic-tac-toe opponent and checks that dealt memory decks hold every value
// exactly twice.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/playzone-arcade/game/config"
	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/rng"
)

// TicTacToeStats summarizes simulated games against the opponent
type TicTacToeStats struct {
	Games        int
	HumanWins    int
	OpponentWins int
	Ties         int
	Moves        int
	// Openings counts opponent wins by the human's first cell
	Openings map[int]int
}

// DeckReport is the result of dealing many decks at one difficulty
type DeckReport struct {
	Difficulty engine.Difficulty
	Side       int
	Pairs      int
	Decks      int
	Problems   []string
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "simulate players against the arcade games and report statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 10000, Usage: "tic-tac-toe games to simulate"},
			&cli.IntFlag{Name: "decks", Value: 500, Usage: "memory decks to deal per difficulty"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed (0 draws one)"},
			&cli.StringFlag{Name: "presets-file", Usage: "YAML presets file (defaults when empty)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := cmd.Int64("seed")
			if seed == 0 {
				var err error
				if seed, err = rng.NewSeed(); err != nil {
					return err
				}
			}

			configs, err := config.NewManager(cmd.String("presets-file"))
			if err != nil {
				return err
			}

			w := cmd.Writer
			if w == nil {
				w = os.Stdout
			}
			fmt.Fprintf(w, "Seed: %d\n", seed)
			return analyze(w, rng.New(seed), configs.Presets(), cmd.Int("games"), cmd.Int("decks"))
		},
	}
}

func analyze(w io.Writer, src rng.Source, presets engine.Presets, games, decks int) error {
	fmt.Fprintf(w, "\n=== Tic-tac-toe: %d random players vs opponent ===\n", games)
	stats, err := simulateTicTacToe(src, games)
	if err != nil {
		return err
	}
	printTicTacToe(w, stats)

	fmt.Fprintf(w, "\n=== Memory: %d decks per difficulty ===\n", decks)
	failed := false
	for _, report := range checkMemoryDecks(src, presets, decks) {
		fmt.Fprintf(w, "%-6s %dx%d, %d pairs: ", report.Difficulty, report.Side, report.Side, report.Pairs)
		if len(report.Problems) == 0 {
			fmt.Fprintf(w, "ok (%d decks)\n", report.Decks)
			continue
		}
		failed = true
		fmt.Fprintf(w, "⚠️  %d problems\n", len(report.Problems))
		for i, p := range report.Problems {
			if i < 5 {
				fmt.Fprintf(w, "   - %s\n", p)
			}
		}
	}
	if failed {
		return fmt.Errorf("memory deck invariants violated")
	}
	return nil
}

// simulateTicTacToe plays games where X picks uniformly among empty cells
func simulateTicTacToe(src rng.Source, games int) (TicTacToeStats, error) {
	stats := TicTacToeStats{Openings: map[int]int{}}

	for i := 0; i < games; i++ {
		game := engine.NewTicTacToe()
		opening := -1
		for !game.IsTerminal() {
			position := rng.Pick(src, game.Board().EmptyCells())
			if opening < 0 {
				opening = position
			}
			if _, err := game.Move(src, position); err != nil {
				return stats, fmt.Errorf("game %d: %w", i, err)
			}
			stats.Moves++
		}

		stats.Games++
		switch game.Winner() {
		case string(engine.X):
			stats.HumanWins++
		case string(engine.O):
			stats.OpponentWins++
			stats.Openings[opening]++
		default:
			stats.Ties++
		}
	}
	return stats, nil
}

func printTicTacToe(w io.Writer, s TicTacToeStats) {
	if s.Games == 0 {
		fmt.Fprintln(w, "No games played")
		return
	}
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Games) }
	fmt.Fprintf(w, "Human wins:    %6d (%5.1f%%)\n", s.HumanWins, pct(s.HumanWins))
	fmt.Fprintf(w, "Opponent wins: %6d (%5.1f%%)\n", s.OpponentWins, pct(s.OpponentWins))
	fmt.Fprintf(w, "Ties:          %6d (%5.1f%%)\n", s.Ties, pct(s.Ties))
	fmt.Fprintf(w, "Avg human moves per game: %.2f\n", float64(s.Moves)/float64(s.Games))

	cells := make([]int, 0, len(s.Openings))
	for cell := range s.Openings {
		cells = append(cells, cell)
	}
	sort.Ints(cells)
	for _, cell := range cells {
		fmt.Fprintf(w, "  opponent wins after opening %d: %d\n", cell, s.Openings[cell])
	}
}

// checkMemoryDecks deals decks at every difficulty and verifies each value
// 1..pairs appears exactly twice
func checkMemoryDecks(src rng.Source, presets engine.Presets, decks int) []DeckReport {
	var reports []DeckReport
	for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard} {
		side := presets.MemorySide(d)
		report := DeckReport{Difficulty: d, Side: side, Pairs: side * side / 2}

		for i := 0; i < decks; i++ {
			cards := engine.NewMemory(src, presets, string(d)).Cards()
			report.Decks++
			report.Problems = append(report.Problems, deckProblems(cards, side)...)
		}
		reports = append(reports, report)
	}
	return reports
}

func deckProblems(cards []int, side int) []string {
	var problems []string
	if len(cards) != side*side {
		problems = append(problems, fmt.Sprintf("deck has %d cards, want %d", len(cards), side*side))
	}

	pairs := side * side / 2
	counts := map[int]int{}
	for _, c := range cards {
		counts[c]++
	}
	for v := 1; v <= pairs; v++ {
		if counts[v] != 2 {
			problems = append(problems, fmt.Sprintf("value %d appears %d times", v, counts[v]))
		}
		delete(counts, v)
	}
	for v, n := range counts {
		problems = append(problems, fmt.Sprintf("unexpected value %d appears %d times", v, n))
	}
	return problems
}
