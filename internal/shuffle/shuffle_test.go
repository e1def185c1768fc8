package shuffle

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestShuffler() *Shuffler {
	return New(rand.New(rand.NewPCG(1, 2)))
}

func TestFullCycleCoversEveryIndex(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50} {
		s := newTestShuffler()
		seen := make(map[int]int)
		for i := 0; i < n; i++ {
			idx, err := s.Next(n)
			if err != nil {
				t.Fatalf("Next(%d): %v", n, err)
			}
			if idx < 0 || idx >= n {
				t.Fatalf("Next(%d) = %d, out of range", n, idx)
			}
			seen[idx]++
		}
		if len(seen) != n {
			t.Fatalf("n=%d: saw %d distinct indices, want %d", n, len(seen), n)
		}
		for idx, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: index %d drawn %d times in one cycle", n, idx, c)
			}
		}
		if s.Remaining() != 0 {
			t.Errorf("n=%d: remaining = %d after a full cycle, want 0", n, s.Remaining())
		}
	}
}

func TestReshuffleOnExhaustion(t *testing.T) {
	const n = 5
	s := newTestShuffler()
	for cycle := 0; cycle < 3; cycle++ {
		seen := make(map[int]bool)
		for i := 0; i < n; i++ {
			idx, err := s.Next(n)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if seen[idx] {
				t.Fatalf("cycle %d: index %d repeated", cycle, idx)
			}
			seen[idx] = true
		}
	}
}

func TestSingleQuestionPool(t *testing.T) {
	s := newTestShuffler()
	for i := 0; i < 100; i++ {
		idx, err := s.Next(1)
		if err != nil {
			t.Fatalf("Next(1): %v", err)
		}
		if idx != 0 {
			t.Fatalf("Next(1) = %d, want 0", idx)
		}
	}
}

func TestEmptyPool(t *testing.T) {
	s := newTestShuffler()
	for _, n := range []int{0, -3} {
		if _, err := s.Next(n); !errors.Is(err, ErrEmptyPool) {
			t.Errorf("Next(%d) error = %v, want ErrEmptyPool", n, err)
		}
	}
}

func TestPoolSizeChangeStartsNewCycle(t *testing.T) {
	s := newTestShuffler()
	if _, err := s.Next(10); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if s.Remaining() != 9 {
		t.Fatalf("remaining = %d, want 9", s.Remaining())
	}
	idx, err := s.Next(3)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if idx >= 3 {
		t.Fatalf("Next(3) = %d after resize, want < 3", idx)
	}
	if s.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", s.Remaining())
	}
}

func TestReset(t *testing.T) {
	s := newTestShuffler()
	_, _ = s.Next(4)
	s.Reset()
	if s.Remaining() != 0 {
		t.Errorf("remaining = %d after Reset, want 0", s.Remaining())
	}
	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		idx, _ := s.Next(4)
		seen[idx] = true
	}
	if len(seen) != 4 {
		t.Errorf("saw %d distinct indices after Reset, want 4", len(seen))
	}
}

func TestDistributionIsRoughlyUniform(t *testing.T) {
	const n, rounds = 4, 4000
	s := newTestShuffler()
	firstDraws := make([]int, n)
	for r := 0; r < rounds; r++ {
		s.Reset()
		idx, _ := s.Next(n)
		firstDraws[idx]++
	}
	for idx, c := range firstDraws {
		if c < rounds/n/2 || c > rounds/n*2 {
			t.Errorf("index %d drawn first %d times out of %d", idx, c, rounds)
		}
	}
}
