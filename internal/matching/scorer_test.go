package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

func factorNames(fs []Factor) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestScore_PerfectNeighbour(t *testing.T) {
	loc := bangkok
	life := directory.Lifestyle{"smoking": "never", "drinking": "social", "exercise": "often"}
	viewer := &directory.Profile{ID: 1, DateOfBirth: bornYearsAgo(30), Location: &loc, Interests: interests("coffee", "travel"), Lifestyle: life}
	candidate := &directory.Profile{ID: 2, DateOfBirth: bornYearsAgo(30), Location: &loc, Interests: interests("coffee", "travel"), Lifestyle: life}

	score, factors := fixedScorer().Score(viewer, candidate, nil)

	assert.Equal(t, 95, score)
	require.Equal(t, []string{FactorDistance, FactorAge, FactorInterests, FactorLifestyle, FactorTier}, factorNames(factors))
	assert.Equal(t, 40.0, factors[0].Score)
	assert.Equal(t, 20.0, factors[1].Score)
	assert.Equal(t, 20.0, factors[2].Score)
	assert.Equal(t, 15.0, factors[3].Score)
	assert.Equal(t, 0.0, factors[4].Score)
	assert.Equal(t, "Premium", factors[4].Detail)
}

func TestScore_UnknownsAreNeutral(t *testing.T) {
	viewer := &directory.Profile{ID: 1}
	candidate := &directory.Profile{ID: 2}

	score, factors := fixedScorer().Score(viewer, candidate, nil)

	// interests and lifestyle are omitted, not zeroed
	require.Equal(t, []string{FactorDistance, FactorAge, FactorTier}, factorNames(factors))
	assert.Equal(t, 20.0, factors[0].Score)
	assert.Equal(t, 10.0, factors[1].Score)
	assert.Equal(t, 30, score)
}

func TestScore_LocationOverride(t *testing.T) {
	viewer := &directory.Profile{ID: 1, Location: north(bangkok, 100)}
	candidate := &directory.Profile{ID: 2, Location: &bangkok}

	_, stored := fixedScorer().Score(viewer, candidate, nil)
	assert.Equal(t, 0.0, stored[0].Score)

	here := bangkok
	_, overridden := fixedScorer().Score(viewer, candidate, &here)
	assert.Equal(t, 40.0, overridden[0].Score)
}

func TestDistanceFactor_DecaysToZeroAt40Km(t *testing.T) {
	prev := distanceFactor(&bangkok, &bangkok).Score
	assert.Equal(t, distanceWeight, prev)

	for km := 0.5; km <= 45; km += 0.5 {
		s := distanceFactor(&bangkok, north(bangkok, km)).Score
		assert.LessOrEqual(t, s, prev, "km=%v", km)
		assert.GreaterOrEqual(t, s, 0.0)
		prev = s
	}

	assert.InDelta(t, 0, distanceFactor(&bangkok, north(bangkok, 40)).Score, 1e-6)
	assert.Equal(t, 0.0, distanceFactor(&bangkok, north(bangkok, 41)).Score)
	assert.InDelta(t, 20, distanceFactor(&bangkok, north(bangkok, 20)).Score, 1e-6)
}

func TestAgeFactor(t *testing.T) {
	tests := []struct {
		viewer, candidate int
		want              float64
	}{
		{30, 30, 20},
		{30, 33, 14},
		{25, 35, 0},
		{20, 45, 0},
	}
	for _, tt := range tests {
		v := &directory.Profile{DateOfBirth: bornYearsAgo(tt.viewer)}
		c := &directory.Profile{DateOfBirth: bornYearsAgo(tt.candidate)}
		assert.Equal(t, tt.want, ageFactor(v, c, refNow).Score, "%d vs %d", tt.viewer, tt.candidate)
	}

	age := 28
	pre := &directory.Profile{Age: &age}
	assert.Equal(t, 16.0, ageFactor(pre, &directory.Profile{DateOfBirth: bornYearsAgo(30)}, refNow).Score)
	assert.Equal(t, 10.0, ageFactor(pre, &directory.Profile{}, refNow).Score)
}

func TestInterestsFactor(t *testing.T) {
	v := &directory.Profile{Interests: interests("coffee", "travel", "jazz", "hiking")}
	c := &directory.Profile{Interests: interests("coffee", "jazz")}

	f, ok := interestsFactor(v, c)
	require.True(t, ok)
	assert.Equal(t, 10.0, f.Score) // 2 shared / max(4, 2)

	_, ok = interestsFactor(v, &directory.Profile{})
	assert.False(t, ok)
}

func TestLifestyleFactor(t *testing.T) {
	v := &directory.Profile{Lifestyle: directory.Lifestyle{"smoking": "never", "drinking": "social", "pets": "dog"}}
	c := &directory.Profile{Lifestyle: directory.Lifestyle{"smoking": "never", "drinking": "never"}}

	f, ok := lifestyleFactor(v, c)
	require.True(t, ok)
	assert.Equal(t, 5.0, f.Score) // 1 of 3 viewer keys * 15

	_, ok = lifestyleFactor(v, &directory.Profile{})
	assert.False(t, ok)
	_, ok = lifestyleFactor(&directory.Profile{}, c)
	assert.False(t, ok)
}

func TestScore_DeterministicAndBounded(t *testing.T) {
	far := geo.Coordinate{Lat: -33.86, Lng: 151.2}
	viewer := &directory.Profile{ID: 1, DateOfBirth: bornYearsAgo(22), Location: &bangkok, Interests: interests("a", "b")}
	candidates := []*directory.Profile{
		{ID: 2, DateOfBirth: bornYearsAgo(60), Location: &far},
		{ID: 3, Location: north(bangkok, 3), Interests: interests("a", "b", "c")},
		{ID: 4, Lifestyle: directory.Lifestyle{"x": "y"}},
	}

	s := fixedScorer()
	for _, c := range candidates {
		score1, f1 := s.Score(viewer, c, nil)
		score2, f2 := s.Score(viewer, c, nil)
		assert.GreaterOrEqual(t, score1, 0)
		assert.LessOrEqual(t, score1, 100)
		assert.Equal(t, score1, score2)

		b1, err := json.Marshal(f1)
		require.NoError(t, err)
		b2, err := json.Marshal(f2)
		require.NoError(t, err)
		assert.Equal(t, b1, b2)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3))
	assert.Equal(t, 100, clampScore(100.4))
	assert.Equal(t, 100, clampScore(180))
	assert.Equal(t, 73, clampScore(72.5))
}
