package matching

import (
	"math"
	"sort"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

// distances closer than this are ordered by score instead
const distanceTieKm = 0.1

// Filters narrow a working set before ranking. Zero values disable a filter.
type Filters struct {
	Location      *geo.Coordinate // overrides the viewer's stored location
	OnlineOnly    bool
	MaxDistanceKm float64 // candidates with unknown distance are kept
	MinAge        int
	MaxAge        int
}

// RankedCandidate is a profile with its ranking data attached
type RankedCandidate struct {
	*directory.Profile
	Age                int      `json:"age"`
	CompatibilityScore int      `json:"compatibilityScore"`
	Factors            []Factor `json:"compatibilityFactors"`
	Distance           float64  `json:"distance"`
	DistanceLabel      string   `json:"distanceLabel"`
	IsActive           bool     `json:"isActive"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

type MatchStats struct {
	TotalMatches    int     `json:"totalMatches"`
	AverageDistance float64 `json:"averageDistance"`
	AverageScore    float64 `json:"averageScore"`
}

type MatchPage struct {
	Matches    []*RankedCandidate `json:"matches"`
	Pagination Pagination         `json:"pagination"`
	Stats      MatchStats         `json:"stats"`
}

type Ranker struct {
	scorer *Scorer
}

func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank scores, filters and orders a working set and returns its first limit items.
// The working set is already a random sample, so total and hasMore describe
// that sample rather than the whole directory.
func (r *Ranker) Rank(viewer *directory.Profile, workingSet []*directory.Profile, filters Filters, page, limit int) *MatchPage {
	now := r.scorer.now()
	viewerLoc := filters.Location
	if viewerLoc == nil {
		viewerLoc = viewer.Location
	}

	ranked := make([]*RankedCandidate, 0, len(workingSet))
	for _, c := range workingSet {
		if filters.OnlineOnly && !c.IsOnline {
			continue
		}

		age := c.AgeOrDefault(now)
		if filters.MinAge > 0 && age < filters.MinAge {
			continue
		}
		if filters.MaxAge > 0 && age > filters.MaxAge {
			continue
		}

		known := geo.Known(viewerLoc, c.Location)
		dist := geo.DistanceKm(viewerLoc, c.Location)
		if filters.MaxDistanceKm > 0 && known {
			if !geo.Within(*viewerLoc, *c.Location, filters.MaxDistanceKm) || dist > filters.MaxDistanceKm {
				continue
			}
		}

		score, factors := r.scorer.Score(viewer, c, viewerLoc)
		ranked = append(ranked, &RankedCandidate{
			Profile:            c,
			Age:                age,
			CompatibilityScore: score,
			Factors:            factors,
			Distance:           dist,
			DistanceLabel:      geo.Label(dist, known),
			IsActive:           c.IsOnline,
		})
	}

	sortCandidates(ranked)

	total := len(ranked)
	items := ranked
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}

	return &MatchPage{
		Matches: items,
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: total > limit,
		},
		Stats: computeStats(items, total),
	}
}

// sortCandidates orders by ascending distance, treating near-equal distances
// as ties broken by score. Zero distance counts as unknown and goes last.
func sortCandidates(c []*RankedCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		a, b := c[i], c[j]
		aKnown, bKnown := a.Distance > 0, b.Distance > 0
		switch {
		case aKnown && !bKnown:
			return true
		case !aKnown && bKnown:
			return false
		case !aKnown && !bKnown:
			return a.CompatibilityScore > b.CompatibilityScore
		}
		if math.Abs(a.Distance-b.Distance) < distanceTieKm {
			return a.CompatibilityScore > b.CompatibilityScore
		}
		return a.Distance < b.Distance
	})
}

func computeStats(items []*RankedCandidate, total int) MatchStats {
	stats := MatchStats{TotalMatches: total}
	if len(items) == 0 {
		return stats
	}

	var dist, score float64
	for _, c := range items {
		dist += c.Distance
		score += float64(c.CompatibilityScore)
	}
	n := float64(len(items))
	stats.AverageDistance = round1(dist / n)
	stats.AverageScore = round1(score / n)
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
