package topfiles

import "container/heap"

// outranks reports whether a is listed before b in the final report: larger
// sizes first, equal sizes by ascending path.
func outranks(a, b FileStat) bool {
	if a.Size != b.Size {
		return a.Size > b.Size
	}

	return a.Path < b.Path
}

// fileHeap is a min-heap whose root is the worst-ranked file.
type fileHeap []FileStat

func (h fileHeap) Len() int           { return len(h) }
func (h fileHeap) Less(i, j int) bool { return outranks(h[j], h[i]) }
func (h fileHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *fileHeap) Push(x any) {
	*h = append(*h, x.(FileStat)) //nolint:forcetypeassert // Only FileStat is ever pushed
}

func (h *fileHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// Selector retains the n best-ranked files offered to it.
//
// Offer is O(log n) and memory is O(n) regardless of how many files are
// offered. The result does not depend on the order of offers. A Selector is
// not safe for concurrent use.
type Selector struct {
	n int
	h fileHeap
}

// NewSelector returns a Selector with capacity n. A non-positive n retains nothing.
func NewSelector(n int) *Selector {
	if n < 0 {
		n = 0
	}

	return &Selector{n: n, h: make(fileHeap, 0, n)}
}

// Cap returns the capacity.
func (s *Selector) Cap() int {
	return s.n
}

// Len returns the number of files currently held.
func (s *Selector) Len() int {
	return s.h.Len()
}

// Min returns the worst-ranked file held, which is the eviction candidate.
func (s *Selector) Min() (FileStat, bool) {
	if s.h.Len() == 0 {
		return FileStat{}, false
	}

	return s.h[0], true
}

// Offer considers f for inclusion and reports whether it was kept.
func (s *Selector) Offer(f FileStat) bool {
	if s.n == 0 {
		return false
	}

	if s.h.Len() < s.n {
		heap.Push(&s.h, f)

		return true
	}

	if !outranks(f, s.h[0]) {
		return false
	}

	s.h[0] = f
	heap.Fix(&s.h, 0)

	return true
}

// Drain empties the selector and returns its files best-first.
func (s *Selector) Drain() []FileStat {
	out := make([]FileStat, s.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&s.h).(FileStat) //nolint:forcetypeassert // Only FileStat is ever pushed
	}

	return out
}

// Select returns the n best-ranked observations, largest first.
func Select(observations []FileStat, n int) []FileStat {
	s := NewSelector(n)
	for _, f := range observations {
		s.Offer(f)
	}

	return s.Drain()
}
