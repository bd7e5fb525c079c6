package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a seedable random source shared by the draw engines. Draws must
// be reproducible under a fixed seed so tests can freeze group and cup draws.
type Source struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// New returns a source seeded with the given value.
func New(seed int64) *Source {
	return &Source{rand: rand.New(rand.NewSource(seed))}
}

// NewFromTime returns a source seeded from the wall clock.
func NewFromTime() *Source {
	return New(time.Now().UnixNano())
}

func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Intn(n)
}

func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rand.Shuffle(n, swap)
}
