// Package shuffle hands out pool indices without repetition inside a cycle.
package shuffle

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyPool is returned when there is nothing to draw from.
var ErrEmptyPool = errors.New("empty pool")

// Shuffler keeps a draw order over [0, n) and regenerates it when exhausted.
// It is not safe for concurrent use.
type Shuffler struct {
	rng   *rand.Rand
	size  int
	order []int
}

// New creates a Shuffler. A nil rng uses a randomly seeded PCG source.
func New(rng *rand.Rand) *Shuffler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Shuffler{rng: rng}
}

// Next pops the next index of the current cycle, starting a new cycle when
// the previous one is used up or poolSize changed.
func (s *Shuffler) Next(poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, ErrEmptyPool
	}
	if poolSize != s.size {
		s.order = s.order[:0]
		s.size = poolSize
	}
	if len(s.order) == 0 {
		s.reshuffle()
	}
	last := len(s.order) - 1
	idx := s.order[last]
	s.order = s.order[:last]
	return idx, nil
}

// Remaining returns how many indices are left in the current cycle.
func (s *Shuffler) Remaining() int {
	return len(s.order)
}

// Reset discards the current cycle.
func (s *Shuffler) Reset() {
	s.order = s.order[:0]
	s.size = 0
}

// reshuffle fills the draw order with a Fisher-Yates permutation of [0, size).
func (s *Shuffler) reshuffle() {
	if cap(s.order) < s.size {
		s.order = make([]int, s.size)
	}
	s.order = s.order[:s.size]
	for i := range s.order {
		s.order[i] = i
	}
	for i := len(s.order) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
}
