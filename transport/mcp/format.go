package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/service"
)

// Decode targets for the flattened REST responses

type numberGuessStart struct {
	engine.NumberGuessView
	GameID string `json:"game_id"`
}

type ticTacToeStart struct {
	engine.TicTacToeView
	GameID string `json:"game_id"`
}

type memoryStart struct {
	engine.MemoryView
	GameID string `json:"game_id"`
}

type snakeStart struct {
	engine.SnakeView
	GameID string `json:"game_id"`
}

type finish struct {
	GameID      string         `json:"game_id"`
	FinalResult *engine.Result `json:"final_result"`
}

type guessResponse struct {
	engine.GuessOutcome
	finish
}

type ticTacToeResponse struct {
	engine.TicTacToeOutcome
	finish
}

type flipResponse struct {
	engine.FlipOutcome
	finish
}

type snakeResponse struct {
	engine.SnakeOutcome
	finish
}

func formatFinal(r *engine.Result) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("\nFinal: %d points in %d attempts (%s)", r.Points, r.Attempts, r.Difficulty)
}

func formatNumberGuessStart(r *numberGuessStart) string {
	return fmt.Sprintf("Number guess started. Game ID: %s\nGuess a number between %d and %d. You have %d attempts.",
		r.GameID, r.Min, r.Max, r.MaxAttempts)
}

func formatGuess(r *guessResponse) string {
	var b strings.Builder
	switch r.Result {
	case "correct":
		b.WriteString(fmt.Sprintf("🎉 Correct! The number was %d. Solved in %d attempts.", deref(r.Target), r.Attempts))
	case "game_over":
		b.WriteString(fmt.Sprintf("💀 Out of attempts. The number was %d.", deref(r.Target)))
	default:
		b.WriteString(fmt.Sprintf("✗ Wrong. Go %s. %d attempts left.", r.Hint, r.Remaining))
	}
	b.WriteString(formatFinal(r.FinalResult))
	return b.String()
}

func formatRPS(r *engine.RPSOutcome) string {
	verdict := map[engine.RoundResult]string{
		engine.Win:  "You win!",
		engine.Lose: "You lose.",
		engine.Tie:  "It's a tie.",
	}[r.Result]
	return fmt.Sprintf("You: %s | Computer: %s\n%s", r.PlayerChoice, r.ComputerChoice, verdict)
}

// formatBoard draws the grid, numbering empty cells
func formatBoard(board engine.Board) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = string(board[i])
			if board[i] == engine.Empty {
				cells[col] = fmt.Sprintf("%d", i)
			}
		}
		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}
	return b.String()
}

func formatTicTacToeMove(r *ticTacToeResponse) string {
	var b strings.Builder
	if r.AIMove != nil {
		b.WriteString(fmt.Sprintf("Computer played %d.\n\n", *r.AIMove))
	}
	b.WriteString(formatBoard(r.Board))

	if r.Winner != nil {
		switch *r.Winner {
		case string(engine.X):
			b.WriteString("\n🎉 You win!")
		case string(engine.O):
			b.WriteString("\n💀 The computer wins.")
		default:
			b.WriteString("\nIt's a tie.")
		}
	}
	b.WriteString(formatFinal(r.FinalResult))
	return b.String()
}

// formatMemoryGrid shows values of face-up cards and ?? for the rest
func formatMemoryGrid(cards []int, revealed, matched []bool, side int) string {
	if side <= 0 {
		return ""
	}
	var b strings.Builder
	for i := range cards {
		cell := " ??"
		if (i < len(revealed) && revealed[i]) || (i < len(matched) && matched[i]) {
			cell = fmt.Sprintf("%3d", cards[i])
		}
		b.WriteString(cell)
		if (i+1)%side == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatMemoryView(v *engine.MemoryView) string {
	return fmt.Sprintf("Moves: %d | Matches: %d/%d\n%s",
		v.Moves, v.Matches, v.TotalPairs, formatMemoryGrid(v.Cards, v.Revealed, v.Matched, v.GridSize))
}

func formatFlip(r *flipResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Card %d is %d.", r.CardIndex, r.CardValue))
	switch r.Status {
	case engine.FlipFirstCard:
		b.WriteString(" Flip a second card.")
	case engine.FlipMatch:
		b.WriteString(fmt.Sprintf(" ✓ Match! %d pairs found.", r.Matches))
	case engine.FlipNoMatch:
		b.WriteString(fmt.Sprintf(" ✗ No match with card %d. Call hide_cards before flipping again.", deref(r.FirstCard)))
	}
	if r.GameStatus == engine.StatusCompleted {
		b.WriteString(fmt.Sprintf("\n🎉 Board cleared in %d moves!", r.Moves))
	}
	b.WriteString(formatFinal(r.FinalResult))
	return b.String()
}

// formatSnake draws the grid: H head, o body, * food
func formatSnake(body []engine.Position, food engine.Position, size int, dir engine.Direction, score int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Score: %d | Length: %d | Heading: %s\n", score, len(body), dir))
	if size <= 0 {
		return b.String()
	}

	grid := make([][]byte, size)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", size))
	}
	inside := func(p engine.Position) bool { return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size }
	if inside(food) {
		grid[food.Y][food.X] = '*'
	}
	for i, p := range body {
		if !inside(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'H'
		} else {
			grid[p.Y][p.X] = 'o'
		}
	}
	for _, row := range grid {
		b.Write(row)
		b.WriteString("\n")
	}
	return b.String()
}

func formatSnakeMove(r *snakeResponse) string {
	var b strings.Builder
	if r.Ate {
		b.WriteString("🍎 Ate the food!\n")
	}
	if r.Status == engine.StatusGameOver {
		b.WriteString(fmt.Sprintf("💀 GAME OVER (%s). Final score: %d\n", strings.ReplaceAll(r.Reason, "_", " "), r.Score))
		b.WriteString(formatFinal(r.FinalResult))
		return b.String()
	}
	// the grid size is not part of a move response
	b.WriteString(formatSnake(r.Snake, r.Food, 0, r.Direction, r.Score))
	if len(r.Snake) > 0 {
		head := r.Snake[0]
		b.WriteString(fmt.Sprintf("Head: (%d,%d) | Food: (%d,%d)", head.X, head.Y, r.Food.X, r.Food.Y))
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	view, err := json.MarshalIndent(session.View, "", "  ")
	if err != nil {
		view = []byte("(unavailable)")
	}
	return fmt.Sprintf("Session: %s\nGame: %s\nStatus: %s\nCreated: %s\n\n%s",
		session.ID, session.GameType, session.Status,
		session.CreatedAt.Format("2006-01-02 15:04:05"), view)
}

func formatSessionList(sessions []*service.SessionInfo) string {
	if len(sessions) == 0 {
		return "No active sessions"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active sessions (%d):\n", len(sessions)))
	for _, s := range sessions {
		b.WriteString(fmt.Sprintf("- %s  %-12s %-10s created %s\n",
			s.ID, s.GameType, s.Status, s.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return b.String()
}

func formatPresets(presets []*service.PresetInfo) string {
	var b strings.Builder
	for _, p := range presets {
		b.WriteString(fmt.Sprintf("- %s/%s: %s\n", p.GameType, p.Difficulty, p.Description))
	}
	return b.String()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
