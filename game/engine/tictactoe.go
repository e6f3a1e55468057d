package engine

import "github.com/wricardo/playzone-arcade/game/rng"

// Mark is the content of a tic-tac-toe cell
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// WinnerTie is reported when the board fills with no line
const WinnerTie = "tie"

// Board is a 3x3 grid stored row-major
type Board [9]Mark

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Winner returns the mark holding a complete line, or Empty
func (b Board) Winner() Mark {
	for _, line := range winningLines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			return m
		}
	}
	return Empty
}

// Full reports whether no empty cell remains
func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// EmptyCells lists the empty indices in ascending order
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, 9)
	for i, m := range b {
		if m == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// TicTacToeGame is the human (X) against the opponent policy (O)
type TicTacToeGame struct {
	board         Board
	currentPlayer Mark
	winner        string
	status        Status
}

// TicTacToeView is the public snapshot
type TicTacToeView struct {
	Board         Board  `json:"board"`
	CurrentPlayer Mark   `json:"current_player"`
	Status        Status `json:"status"`
	Winner        string `json:"winner,omitempty"`
}

// TicTacToeOutcome is the response to a human move. AIMove is set only
// when the opponent replied.
type TicTacToeOutcome struct {
	Board  Board   `json:"board"`
	Status Status  `json:"status"`
	Winner *string `json:"winner"`
	AIMove *int    `json:"ai_move,omitempty"`
}

// NewTicTacToe starts on an empty board with X to move
func NewTicTacToe() *TicTacToeGame {
	return &TicTacToeGame{currentPlayer: X, status: StatusActive}
}

func (g *TicTacToeGame) Type() GameType   { return TicTacToe }
func (g *TicTacToeGame) Status() Status   { return g.status }
func (g *TicTacToeGame) IsTerminal() bool { return g.status.Terminal() }

// Board returns a copy of the board
func (g *TicTacToeGame) Board() Board { return g.board }

func (g *TicTacToeGame) Apply(src rng.Source, action Action) (any, error) {
	a, ok := action.(Place)
	if !ok {
		return nil, wrongAction(TicTacToe, action)
	}
	return g.Move(src, a.Position)
}

// Move places X at position and, unless that ends the game, lets the
// opponent reply in the same call.
func (g *TicTacToeGame) Move(src rng.Source, position int) (*TicTacToeOutcome, error) {
	if g.status != StatusActive {
		return nil, notActive(TicTacToe)
	}
	if position < 0 || position > 8 {
		return nil, Errorf(KindInvalidMove, "position", "position must be between 0 and 8, got %d", position)
	}
	if g.board[position] != Empty {
		return nil, Errorf(KindInvalidMove, "position", "cell %d is already taken", position)
	}

	g.board[position] = X
	if g.settle() {
		return g.outcome(nil), nil
	}

	ai := ChooseMove(src, g.board)
	g.board[ai] = O
	g.settle()
	return g.outcome(intPtr(ai)), nil
}

// settle updates status after a placement and reports whether the game ended
func (g *TicTacToeGame) settle() bool {
	if w := g.board.Winner(); w != Empty {
		g.winner = string(w)
		g.status = StatusFinished
		return true
	}
	if g.board.Full() {
		g.winner = WinnerTie
		g.status = StatusFinished
		return true
	}
	return false
}

func (g *TicTacToeGame) outcome(ai *int) *TicTacToeOutcome {
	out := &TicTacToeOutcome{Board: g.board, Status: g.status, AIMove: ai}
	if g.winner != "" {
		w := g.winner
		out.Winner = &w
	}
	return out
}

func (g *TicTacToeGame) View() any {
	return TicTacToeView{
		Board:         g.board,
		CurrentPlayer: g.currentPlayer,
		Status:        g.status,
		Winner:        g.winner,
	}
}

// Winner returns X, O, tie, or "" while the game is active
func (g *TicTacToeGame) Winner() string { return g.winner }

// Result awards 3 for a win and 1 for a tie
func (g *TicTacToeGame) Result() *Result {
	if !g.IsTerminal() {
		return nil
	}
	points := 0
	switch g.winner {
	case string(X):
		points = 3
	case WinnerTie:
		points = 1
	}
	return &Result{GameType: TicTacToe, Points: points, Attempts: 1, Difficulty: Normal}
}
