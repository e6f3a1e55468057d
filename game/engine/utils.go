package engine

import "strings"

// Direction is a snake heading
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection accepts a heading case-insensitively
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Up, Down, Left, Right:
		return d, nil
	}
	return "", Errorf(KindInvalidInput, "direction", "direction must be up, down, left or right, got %q", s)
}

// Opposite returns the 180 degree reversal of d
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return ""
}

// Step returns p shifted one cell along d. Screen coordinates: up is y-1.
func (p Position) Step(d Direction) Position {
	switch d {
	case Up:
		p.Y--
	case Down:
		p.Y++
	case Left:
		p.X--
	case Right:
		p.X++
	}
	return p
}

func inGrid(p Position, size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

func contains(cells []Position, p Position) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
