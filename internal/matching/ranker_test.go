package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

func located(id int64, loc *geo.Coordinate) *directory.Profile {
	p := profile(id, directory.TierGold)
	p.Location = loc
	return p
}

func TestRank_TruncatesToLimit(t *testing.T) {
	viewer := located(100, &bangkok)
	ws := make([]*directory.Profile, 15)
	for i := range ws {
		ws[i] = located(int64(i+1), north(bangkok, float64(i+1)))
	}

	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{}, 1, 10)

	require.Len(t, page.Matches, 10)
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 15, HasMore: true}, page.Pagination)
	assert.Equal(t, 15, page.Stats.TotalMatches)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, rankedIDs(page.Matches))
}

func TestRank_NoMoreWhenEverythingFits(t *testing.T) {
	viewer := located(100, &bangkok)
	ws := []*directory.Profile{located(1, north(bangkok, 2)), located(2, north(bangkok, 3))}

	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{}, 1, 10)

	assert.Len(t, page.Matches, 2)
	assert.False(t, page.Pagination.HasMore)
}

func TestRank_SortOrder(t *testing.T) {
	viewer := located(100, &bangkok)
	viewer.Interests = interests("coffee")

	far := located(1, north(bangkok, 5))
	near := located(2, north(bangkok, 1))
	// within the tie window of near but with a shared interest
	nearTie := located(3, north(bangkok, 1.05))
	nearTie.Interests = interests("coffee")
	unknownLow := located(4, nil)
	unknownHigh := located(5, nil)
	unknownHigh.Interests = interests("coffee")

	ws := []*directory.Profile{unknownLow, far, near, unknownHigh, nearTie}
	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{}, 1, 10)

	assert.Equal(t, []int64{3, 2, 1, 5, 4}, rankedIDs(page.Matches))
	assert.Equal(t, "location not set", page.Matches[4].DistanceLabel)
	assert.Equal(t, 0.0, page.Matches[4].Distance)
	assert.Equal(t, "5.0 km", page.Matches[2].DistanceLabel)
}

func TestRank_OnlineOnly(t *testing.T) {
	viewer := located(100, &bangkok)
	online := located(1, north(bangkok, 3))
	online.IsOnline = true
	offline := located(2, north(bangkok, 1))

	page := NewRanker(fixedScorer()).Rank(viewer, []*directory.Profile{online, offline}, Filters{OnlineOnly: true}, 1, 10)

	require.Len(t, page.Matches, 1)
	assert.Equal(t, int64(1), page.Matches[0].ID)
	assert.True(t, page.Matches[0].IsActive)
}

func TestRank_MaxDistance(t *testing.T) {
	viewer := located(100, &bangkok)
	ws := []*directory.Profile{
		located(1, north(bangkok, 4)),
		located(2, north(bangkok, 12)),
		located(3, nil),
	}

	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{MaxDistanceKm: 10}, 1, 10)

	// unknown distance is not filtered out
	assert.Equal(t, []int64{1, 3}, rankedIDs(page.Matches))
}

func TestRank_LocationOverride(t *testing.T) {
	viewer := located(100, nil)
	target := north(bangkok, 30)
	ws := []*directory.Profile{located(1, &bangkok), located(2, target)}

	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{Location: target}, 1, 10)

	require.Len(t, page.Matches, 2)
	assert.Equal(t, int64(2), page.Matches[1].ID, "zero distance sorts with unknowns")
	assert.Equal(t, "0 m", page.Matches[1].DistanceLabel)
	assert.Equal(t, "30 km", page.Matches[0].DistanceLabel)

	page = NewRanker(fixedScorer()).Rank(viewer, ws, Filters{Location: target, MaxDistanceKm: 5}, 1, 10)
	assert.Equal(t, []int64{2}, rankedIDs(page.Matches))
}

func TestRank_AgeFilters(t *testing.T) {
	viewer := located(100, &bangkok)
	young := located(1, north(bangkok, 1))
	young.DateOfBirth = bornYearsAgo(21)
	mid := located(2, north(bangkok, 2))
	mid.DateOfBirth = bornYearsAgo(30)
	old := located(3, north(bangkok, 3))
	old.DateOfBirth = bornYearsAgo(45)
	unknown := located(4, north(bangkok, 4)) // treated as DefaultAge

	ws := []*directory.Profile{young, mid, old, unknown}
	r := NewRanker(fixedScorer())

	page := r.Rank(viewer, ws, Filters{MinAge: 24, MaxAge: 35}, 1, 10)
	assert.Equal(t, []int64{2, 4}, rankedIDs(page.Matches))
	assert.Equal(t, 30, page.Matches[0].Age)
	assert.Equal(t, directory.DefaultAge, page.Matches[1].Age)

	page = r.Rank(viewer, ws, Filters{MinAge: 40}, 1, 10)
	assert.Equal(t, []int64{3}, rankedIDs(page.Matches))
}

func TestRank_Stats(t *testing.T) {
	viewer := located(100, &bangkok)
	ws := []*directory.Profile{located(1, north(bangkok, 2)), located(2, north(bangkok, 4)), located(3, north(bangkok, 30))}

	page := NewRanker(fixedScorer()).Rank(viewer, ws, Filters{}, 1, 2)

	require.Len(t, page.Matches, 2)
	assert.Equal(t, 3, page.Stats.TotalMatches)
	assert.InDelta(t, 3.0, page.Stats.AverageDistance, 0.05)

	want := float64(page.Matches[0].CompatibilityScore+page.Matches[1].CompatibilityScore) / 2
	assert.InDelta(t, want, page.Stats.AverageScore, 0.05)
}

func TestRank_EmptyWorkingSet(t *testing.T) {
	page := NewRanker(fixedScorer()).Rank(located(100, &bangkok), nil, Filters{}, 1, 10)

	require.NotNil(t, page.Matches)
	assert.Empty(t, page.Matches)
	assert.Equal(t, MatchStats{}, page.Stats)
	assert.False(t, page.Pagination.HasMore)
}
