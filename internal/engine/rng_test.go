package engine

import (
	"testing"
	"time"
)

func TestStreamReproducibility(t *testing.T) {
	a := NewStream(12345)
	b := NewStream(12345)

	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

func TestStreamSeedSensitivity(t *testing.T) {
	a := NewStream(1)
	b := NewStream(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same > 2 {
		t.Errorf("different seeds produced %d/100 identical draws", same)
	}
}

func TestFloat64Range(t *testing.T) {
	s := NewStream(99)
	for i := 0; i < 10000; i++ {
		f := s.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, want [0, 1)", f)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	s := NewStream(7)
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := s.Intn(4)
		if v < 0 || v >= 4 {
			t.Fatalf("Intn(4) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Errorf("Intn(4) only produced %d distinct values over 10000 draws", len(seen))
	}
}

func TestIntRange(t *testing.T) {
	s := NewStream(3)
	for i := 0; i < 1000; i++ {
		v := s.IntRange(2000, 6000)
		if v < 2000 || v > 6000 {
			t.Fatalf("IntRange(2000, 6000) = %d", v)
		}
	}
	if got := s.IntRange(5, 5); got != 5 {
		t.Errorf("IntRange(5, 5) = %d, want 5", got)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	s := NewStream(42)
	nums := make([]int, 20)
	for i := range nums {
		nums[i] = i + 1
	}

	s.Shuffle(len(nums), func(i, j int) {
		nums[i], nums[j] = nums[j], nums[i]
	})

	seen := make(map[int]bool, 20)
	for _, n := range nums {
		if n < 1 || n > 20 || seen[n] {
			t.Fatalf("shuffle produced invalid permutation: %v", nums)
		}
		seen[n] = true
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(1500 * time.Millisecond)
	want := start.Add(1500 * time.Millisecond)
	if !c.Now().Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", c.Now(), want)
	}
}
