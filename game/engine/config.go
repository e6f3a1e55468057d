package engine

import "fmt"

const (
	DefaultMaxAttempts = 10
	DefaultGridSize    = 20
	DefaultFoodScore   = 10

	MinMemorySide = 2
	MaxMemorySide = 12
	MinGridSize   = 5
	MaxGridSize   = 100
)

// Range is an inclusive integer interval
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether v lies in [Min, Max]
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// SnakePreset configures a new snake game
type SnakePreset struct {
	GridSize  int      `json:"grid_size" yaml:"grid_size"`
	Start     Position `json:"start" yaml:"start"`
	Food      Position `json:"food" yaml:"food"`
	FoodScore int      `json:"food_score" yaml:"food_score"`
}

// Presets holds the tunable numbers behind each game's start
type Presets struct {
	NumberRanges map[Difficulty]Range `json:"number_ranges" yaml:"number_ranges"`
	MaxAttempts  int                  `json:"max_attempts" yaml:"max_attempts"`
	MemorySides  map[Difficulty]int   `json:"memory_sides" yaml:"memory_sides"`
	Snake        SnakePreset          `json:"snake" yaml:"snake"`
}

// DefaultPresets returns a fresh copy of the built-in presets
func DefaultPresets() Presets {
	return Presets{
		NumberRanges: map[Difficulty]Range{
			Easy:   {Min: 1, Max: 50},
			Medium: {Min: 1, Max: 100},
			Hard:   {Min: 1, Max: 200},
		},
		MaxAttempts: DefaultMaxAttempts,
		MemorySides: map[Difficulty]int{
			Easy:   4,
			Medium: 6,
			Hard:   8,
		},
		Snake: SnakePreset{
			GridSize:  DefaultGridSize,
			Start:     Position{X: 10, Y: 10},
			Food:      Position{X: 15, Y: 15},
			FoodScore: DefaultFoodScore,
		},
	}
}

// NumberRange returns the bounds for d, falling back to medium
func (p Presets) NumberRange(d Difficulty) Range {
	if r, ok := p.NumberRanges[d]; ok {
		return r
	}
	return p.NumberRanges[Medium]
}

// MemorySide returns the grid side for d, falling back to medium
func (p Presets) MemorySide(d Difficulty) int {
	if s, ok := p.MemorySides[d]; ok {
		return s
	}
	return p.MemorySides[Medium]
}

// Clone returns a deep copy so callers cannot mutate shared maps
func (p Presets) Clone() Presets {
	out := p
	out.NumberRanges = make(map[Difficulty]Range, len(p.NumberRanges))
	for k, v := range p.NumberRanges {
		out.NumberRanges[k] = v
	}
	out.MemorySides = make(map[Difficulty]int, len(p.MemorySides))
	for k, v := range p.MemorySides {
		out.MemorySides[k] = v
	}
	return out
}

// ValidatePresets validates presets for correctness and playability
func ValidatePresets(p Presets) error {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		r, ok := p.NumberRanges[d]
		if !ok {
			return fmt.Errorf("presets validation: number_ranges.%s is required", d)
		}
		if r.Min > r.Max {
			return fmt.Errorf("presets validation: number_ranges.%s min %d exceeds max %d", d, r.Min, r.Max)
		}

		side, ok := p.MemorySides[d]
		if !ok {
			return fmt.Errorf("presets validation: memory_sides.%s is required", d)
		}
		if side < MinMemorySide || side > MaxMemorySide {
			return fmt.Errorf("presets validation: memory_sides.%s must be between %d and %d, got %d", d, MinMemorySide, MaxMemorySide, side)
		}
		if side%2 != 0 {
			return fmt.Errorf("presets validation: memory_sides.%s must be even so cards form pairs, got %d", d, side)
		}
	}

	if p.MaxAttempts < 1 {
		return fmt.Errorf("presets validation: max_attempts must be at least 1, got %d", p.MaxAttempts)
	}

	s := p.Snake
	if s.GridSize < MinGridSize || s.GridSize > MaxGridSize {
		return fmt.Errorf("presets validation: snake.grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, s.GridSize)
	}
	if !inGrid(s.Start, s.GridSize) {
		return fmt.Errorf("presets validation: snake.start (%d,%d) is outside the grid", s.Start.X, s.Start.Y)
	}
	if !inGrid(s.Food, s.GridSize) {
		return fmt.Errorf("presets validation: snake.food (%d,%d) is outside the grid", s.Food.X, s.Food.Y)
	}
	if s.Start == s.Food {
		return fmt.Errorf("presets validation: snake.food must not overlap snake.start")
	}
	if s.FoodScore < 1 {
		return fmt.Errorf("presets validation: snake.food_score must be positive, got %d", s.FoodScore)
	}

	return nil
}
