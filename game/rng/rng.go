// Package rng provides the random source every game draws from.
//
// Production code uses a mutex-guarded seeded generator; tests inject a
// Scripted source so that targets, shuffles and opponent picks are
// reproducible.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source is the only randomness the games consume.
type Source interface {
	// Intn returns a uniform integer in [0, n). n must be positive.
	Intn(n int) int
	// Shuffle permutes n elements uniformly via swap.
	Shuffle(n int, swap func(i, j int))
}

// Locked wraps math/rand with a mutex so it can be shared by
// concurrent sessions.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Source seeded with seed.
func New(seed int64) *Locked {
	return &Locked{r: rand.New(rand.NewSource(seed))}
}

// NewFromCrypto returns a Source seeded from crypto/rand.
func NewFromCrypto() (*Locked, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *Locked) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
