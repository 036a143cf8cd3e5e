package matching

import (
	"fmt"
	"math"
	"time"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

// Factor weights; the five add up to 100
const (
	distanceWeight  = 40.0
	ageWeight       = 20.0
	interestsWeight = 20.0
	lifestyleWeight = 15.0
	tierWeight      = 5.0 // reserved, see tierFactor

	// distance score decays linearly to 0 at this radius
	distanceFalloffKm = 40.0

	// each year of age difference costs this many points
	agePenaltyPerYear = 2.0
)

const (
	FactorDistance  = "distance"
	FactorAge       = "age"
	FactorInterests = "interests"
	FactorLifestyle = "lifestyle"
	FactorTier      = "tier"
)

// Factor is one scored dimension of a compatibility breakdown
type Factor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// Scorer computes compatibility between a viewer and a candidate.
// It is stateless apart from the clock used for ages.
type Scorer struct {
	Now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{Now: time.Now}
}

func (s *Scorer) now() time.Time {
	if s == nil || s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Score returns the rounded 0..100 total and the breakdown in fixed order:
// distance, age, interests (if both sides have any), lifestyle (if both sides
// have a map), tier. viewerLoc overrides the viewer's stored location.
func (s *Scorer) Score(viewer, candidate *directory.Profile, viewerLoc *geo.Coordinate) (int, []Factor) {
	now := s.now()
	if viewerLoc == nil && viewer != nil {
		viewerLoc = viewer.Location
	}

	factors := make([]Factor, 0, 5)
	factors = append(factors, distanceFactor(viewerLoc, candidate.Location))
	factors = append(factors, ageFactor(viewer, candidate, now))
	if f, ok := interestsFactor(viewer, candidate); ok {
		factors = append(factors, f)
	}
	if f, ok := lifestyleFactor(viewer, candidate); ok {
		factors = append(factors, f)
	}
	factors = append(factors, tierFactor())

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	return clampScore(total), factors
}

func distanceFactor(viewerLoc, candidateLoc *geo.Coordinate) Factor {
	if !geo.Known(viewerLoc, candidateLoc) {
		return Factor{Name: FactorDistance, Score: distanceWeight / 2, Detail: "Distance unknown"}
	}
	d := geo.DistanceKm(viewerLoc, candidateLoc)
	score := math.Max(0, distanceWeight-(d/distanceFalloffKm)*distanceWeight)
	return Factor{Name: FactorDistance, Score: score, Detail: geo.Label(d, true) + " away"}
}

func ageFactor(viewer, candidate *directory.Profile, now time.Time) Factor {
	va, vok := viewer.AgeAt(now)
	ca, cok := candidate.AgeAt(now)
	if !vok || !cok {
		return Factor{Name: FactorAge, Score: ageWeight / 2, Detail: "Age unknown"}
	}
	diff := math.Abs(float64(va - ca))
	score := math.Max(0, ageWeight-diff*agePenaltyPerYear)
	return Factor{Name: FactorAge, Score: score, Detail: fmt.Sprintf("%d years apart", int(diff))}
}

func interestsFactor(viewer, candidate *directory.Profile) (Factor, bool) {
	vs := viewer.Interests.Flatten()
	cs := candidate.Interests.Flatten()
	if len(vs) == 0 || len(cs) == 0 {
		return Factor{}, false
	}

	shared := 0
	for item := range vs {
		if _, ok := cs[item]; ok {
			shared++
		}
	}
	denom := math.Max(float64(len(vs)), float64(len(cs)))
	score := float64(shared) / denom * interestsWeight
	return Factor{Name: FactorInterests, Score: score, Detail: fmt.Sprintf("%d shared interests", shared)}, true
}

func lifestyleFactor(viewer, candidate *directory.Profile) (Factor, bool) {
	if len(viewer.Lifestyle) == 0 || len(candidate.Lifestyle) == 0 {
		return Factor{}, false
	}

	same := 0
	for k, v := range viewer.Lifestyle {
		if cv, ok := candidate.Lifestyle[k]; ok && cv == v {
			same++
		}
	}
	score := float64(same) / float64(len(viewer.Lifestyle)) * lifestyleWeight
	return Factor{
		Name:   FactorLifestyle,
		Score:  score,
		Detail: fmt.Sprintf("%d of %d lifestyle choices match", same, len(viewer.Lifestyle)),
	}, true
}

// TODO: score tiers once a tier-compatibility policy is defined
func tierFactor() Factor {
	return Factor{Name: FactorTier, Score: 0, Detail: "Premium"}
}

func clampScore(total float64) int {
	if math.IsNaN(total) {
		return 0
	}
	n := int(math.Round(total))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
