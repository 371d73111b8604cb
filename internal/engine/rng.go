package engine

import (
	"crypto/rand"
	"encoding/binary"
)

// Stream is a deterministic pseudo-random source for stimulus generation.
// It wraps Mulberry32, which is cheap, has no global state, and can be
// re-implemented identically in JavaScript so the site can replay a
// session's stimuli from its seed.
type Stream struct {
	state uint32
}

// NewStream creates a stream seeded deterministically. The same seed always
// produces the same token draws, which is what tests rely on.
func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// NewEntropyStream creates a stream seeded from crypto/rand. Used for normal
// play where reproducibility is not required.
func NewEntropyStream() *Stream {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	return &Stream{state: binary.LittleEndian.Uint32(buf[:])}
}

// Next returns the next random uint32.
func (s *Stream) Next() uint32 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a random float64 in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Next()) / 4294967296.0
}

// Intn returns a random int in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	idx := int(s.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// IntRange returns a random int in [lo, hi].
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Shuffle performs a Fisher-Yates shuffle over n elements.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}
