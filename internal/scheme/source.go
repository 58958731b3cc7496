package scheme

import (
	"math/rand/v2"
	"sync"
)

// Source is a goroutine-safe random source shared by the schemes.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomSource returns a source seeded from the runtime's random state.
func NewRandomSource() *Source {
	return &Source{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// IntN returns a uniform integer in [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Pick returns a uniformly chosen element of items.
func (s *Source) Pick(items []string) string {
	return items[s.IntN(len(items))]
}
