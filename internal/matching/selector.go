package matching

import (
	"math/rand/v2"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
)

// Selector draws a tier-aware working set from the candidate pool.
// The viewer's own tier is drained first, then lower tiers, then higher ones.
type Selector struct {
	shuffle func(n int, swap func(i, j int))
}

// NewSelector shuffles with the process-wide math/rand/v2 source
func NewSelector() *Selector {
	return &Selector{shuffle: rand.Shuffle}
}

// NewSeededSelector is deterministic for a given seed.
// The returned selector is not safe for concurrent use.
func NewSeededSelector(seed1, seed2 uint64) *Selector {
	r := rand.New(rand.NewPCG(seed1, seed2))
	return &Selector{shuffle: r.Shuffle}
}

// WorkingSet returns up to size candidates. The pool slice is only read;
// buckets hold indexes into it and the result is a fresh slice.
func (s *Selector) WorkingSet(pool []*directory.Profile, viewerTier directory.Tier, size int, refresh bool) []*directory.Profile {
	if len(pool) == 0 || size <= 0 {
		return []*directory.Profile{}
	}

	var buckets [directory.HighestTier + 1][]int
	for i, p := range pool {
		t := p.Tier
		if !t.Valid() {
			t = directory.LowestTier
		}
		buckets[t] = append(buckets[t], i)
	}
	for _, b := range buckets {
		s.shuffleIndexes(b)
	}

	start := viewerTier.Clamp()
	if refresh && start > directory.LowestTier {
		start--
	}

	want := min(size, len(pool))
	picked := make([]int, 0, want)
	take := func(t directory.Tier) {
		for _, idx := range buckets[t] {
			if len(picked) == want {
				return
			}
			picked = append(picked, idx)
		}
	}

	for t := start; t >= directory.LowestTier && len(picked) < want; t-- {
		take(t)
	}
	for t := start + 1; t <= directory.HighestTier && len(picked) < want; t++ {
		take(t)
	}

	s.shuffleIndexes(picked)

	out := make([]*directory.Profile, len(picked))
	for i, idx := range picked {
		out[i] = pool[idx]
	}
	return out
}

func (s *Selector) shuffleIndexes(idx []int) {
	s.shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
}
