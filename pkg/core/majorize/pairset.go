package majorize

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// PairSet is a set of ordered node-index pairs backed by a compressed bitmap,
// suitable for sparse exclusion lists over large layouts.
type PairSet struct {
	n  int
	bm *roaring64.Bitmap
}

// NewPairSet returns an empty set over n nodes.
func NewPairSet(n int) *PairSet {
	return &PairSet{n: n, bm: roaring64.New()}
}

func (s *PairSet) index(i, j int) uint64 {
	return uint64(i)*uint64(s.n) + uint64(j)
}

func (s *PairSet) inRange(i, j int) bool {
	return i >= 0 && j >= 0 && i < s.n && j < s.n
}

// Add inserts the ordered pair (i, j). Out-of-range indices are ignored.
func (s *PairSet) Add(i, j int) {
	if s.inRange(i, j) {
		s.bm.Add(s.index(i, j))
	}
}

// AddSymmetric inserts both (i, j) and (j, i).
func (s *PairSet) AddSymmetric(i, j int) {
	s.Add(i, j)
	s.Add(j, i)
}

// Contains reports whether (i, j) is in the set.
func (s *PairSet) Contains(i, j int) bool {
	return s.inRange(i, j) && s.bm.Contains(s.index(i, j))
}

// Len returns the number of pairs in the set.
func (s *PairSet) Len() int { return int(s.bm.GetCardinality()) }

// Ignore returns a predicate that skips the self pair and every pair in s.
func (s *PairSet) Ignore() IgnoreFunc {
	return func(i, j int, _, _, _, _ float64) bool {
		return i == j || s.Contains(i, j)
	}
}

// IgnoreNodes is [PairSet.Ignore] for the node-typed solver.
func IgnoreNodes[T any](s *PairSet) NodeIgnoreFunc[T] {
	return func(i, j int, _, _, _, _ float64, _, _ T) bool {
		return i == j || s.Contains(i, j)
	}
}
