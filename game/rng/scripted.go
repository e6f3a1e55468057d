package rng

import "sync"

// Scripted replays a fixed list of values from Intn, reducing each one
// modulo n. Once the script runs out it defers to Fallback, or returns 0
// when no fallback is set. Shuffle is a Fisher-Yates pass driven by Intn,
// so a script can also pin down a permutation.
type Scripted struct {
	mu       sync.Mutex
	values   []int
	pos      int
	Fallback Source
}

// NewScripted returns a Source that yields values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	if s.pos < len(s.values) {
		v := s.values[s.pos]
		s.pos++
		s.mu.Unlock()
		if v < 0 {
			v = -v
		}
		return v % n
	}
	fallback := s.Fallback
	s.mu.Unlock()

	if fallback != nil {
		return fallback.Intn(n)
	}
	return 0
}

func (s *Scripted) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// Remaining reports how many scripted values have not been consumed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.pos
}

// Identity is a Source whose Shuffle leaves the order untouched and whose
// Intn always returns 0. Useful for fixing a memory deck layout in tests.
type Identity struct{}

func (Identity) Intn(int) int                  { return 0 }
func (Identity) Shuffle(int, func(i, j int)) {}
