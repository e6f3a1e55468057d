package engine

import "github.com/wricardo/playzone-arcade/game/rng"

var corners = []int{0, 2, 6, 8}

const center = 4

// ChooseMove picks the cell O plays on b. Priority, first match wins:
//  1. the lowest empty cell that completes a line for O
//  2. the lowest empty cell that would complete a line for X
//  3. the center
//  4. a uniformly random empty corner
//  5. a uniformly random empty cell
//
// This is a one-ply greedy heuristic and loses to forks. It returns -1
// when the board is full.
func ChooseMove(src rng.Source, b Board) int {
	if pos := completingCell(b, O); pos >= 0 {
		return pos
	}
	if pos := completingCell(b, X); pos >= 0 {
		return pos
	}
	if b[center] == Empty {
		return center
	}

	var open []int
	for _, c := range corners {
		if b[c] == Empty {
			open = append(open, c)
		}
	}
	if len(open) > 0 {
		return rng.Pick(src, open)
	}

	empty := b.EmptyCells()
	if len(empty) == 0 {
		return -1
	}
	return rng.Pick(src, empty)
}

// completingCell scans 0..8 for the first empty cell that gives m a line
func completingCell(b Board, m Mark) int {
	for i := range b {
		if b[i] != Empty {
			continue
		}
		b[i] = m
		won := b.Winner() == m
		b[i] = Empty
		if won {
			return i
		}
	}
	return -1
}
