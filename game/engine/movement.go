package engine

import "github.com/wricardo/playzone-arcade/game/rng"

// Snake game-over reasons
const (
	ReasonWallCollision = "wall_collision"
	ReasonSelfCollision = "self_collision"
	ReasonBoardFull     = "board_full"
)

// SnakeGame is a snake on a square grid, head first
type SnakeGame struct {
	body      []Position
	direction Direction
	food      Position
	score     int
	foodScore int
	gridSize  int
	reason    string
	status    Status
}

// SnakeView is the public snapshot
type SnakeView struct {
	Snake     []Position `json:"snake"`
	Direction Direction  `json:"direction"`
	Food      Position   `json:"food"`
	Score     int        `json:"score"`
	GridSize  int        `json:"grid_size"`
	Status    Status     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
}

// SnakeOutcome is the response to one tick
type SnakeOutcome struct {
	Snake     []Position `json:"snake"`
	Direction Direction  `json:"direction"`
	Food      Position   `json:"food"`
	Score     int        `json:"score"`
	Status    Status     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	Ate       bool       `json:"ate,omitempty"`
}

// NewSnake places a one-cell snake heading right
func NewSnake(presets Presets) *SnakeGame {
	s := presets.Snake
	foodScore := s.FoodScore
	if foodScore < 1 {
		foodScore = DefaultFoodScore
	}
	return &SnakeGame{
		body:      []Position{s.Start},
		direction: Right,
		food:      s.Food,
		foodScore: foodScore,
		gridSize:  s.GridSize,
		status:    StatusActive,
	}
}

func (g *SnakeGame) Type() GameType   { return Snake }
func (g *SnakeGame) Status() Status   { return g.status }
func (g *SnakeGame) IsTerminal() bool { return g.status.Terminal() }

// Body returns a copy of the snake, head first
func (g *SnakeGame) Body() []Position {
	out := make([]Position, len(g.body))
	copy(out, g.body)
	return out
}

// Food returns the current food cell
func (g *SnakeGame) Food() Position { return g.food }

// Direction returns the current heading
func (g *SnakeGame) Direction() Direction { return g.direction }

func (g *SnakeGame) Apply(src rng.Source, action Action) (any, error) {
	a, ok := action.(Steer)
	if !ok {
		return nil, wrongAction(Snake, action)
	}
	return g.Move(src, a.Direction)
}

// Move advances one cell. An empty or reversing direction keeps the
// current heading.
func (g *SnakeGame) Move(src rng.Source, requested string) (*SnakeOutcome, error) {
	if g.status != StatusActive {
		return nil, notActive(Snake)
	}

	if requested != "" {
		d, err := ParseDirection(requested)
		if err != nil {
			return nil, err
		}
		if d != g.direction.Opposite() {
			g.direction = d
		}
	}

	head := g.body[0].Step(g.direction)

	if !inGrid(head, g.gridSize) {
		return g.end(ReasonWallCollision), nil
	}
	if contains(g.body, head) {
		return g.end(ReasonSelfCollision), nil
	}

	g.body = append([]Position{head}, g.body...)

	ate := head == g.food
	if ate {
		g.score += g.foodScore
		if !g.placeFood(src) {
			return g.end(ReasonBoardFull), nil
		}
	} else {
		g.body = g.body[:len(g.body)-1]
	}

	out := g.outcome()
	out.Ate = ate
	return out, nil
}

// placeFood draws free cells by rejection sampling. It reports false when
// the snake covers the whole grid.
func (g *SnakeGame) placeFood(src rng.Source) bool {
	if len(g.body) >= g.gridSize*g.gridSize {
		return false
	}
	for {
		p := Position{X: src.Intn(g.gridSize), Y: src.Intn(g.gridSize)}
		if !contains(g.body, p) {
			g.food = p
			return true
		}
	}
}

func (g *SnakeGame) end(reason string) *SnakeOutcome {
	g.status = StatusGameOver
	g.reason = reason
	return g.outcome()
}

func (g *SnakeGame) outcome() *SnakeOutcome {
	return &SnakeOutcome{
		Snake:     g.Body(),
		Direction: g.direction,
		Food:      g.food,
		Score:     g.score,
		Status:    g.status,
		Reason:    g.reason,
	}
}

func (g *SnakeGame) View() any {
	return SnakeView{
		Snake:     g.Body(),
		Direction: g.direction,
		Food:      g.food,
		Score:     g.score,
		GridSize:  g.gridSize,
		Status:    g.status,
		Reason:    g.reason,
	}
}

// Result awards the final score
func (g *SnakeGame) Result() *Result {
	if !g.IsTerminal() {
		return nil
	}
	return &Result{GameType: Snake, Points: g.score, Attempts: 1, Difficulty: Normal}
}
