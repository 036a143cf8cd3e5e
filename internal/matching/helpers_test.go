package matching

import (
	"time"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

var (
	refNow  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	bangkok = geo.Coordinate{Lat: 13.7563, Lng: 100.5018}
)

// kmPerDegreeLat matches geo.EarthRadiusKm along a meridian
const kmPerDegreeLat = geo.EarthRadiusKm * 3.141592653589793 / 180

func fixedScorer() *Scorer {
	return &Scorer{Now: func() time.Time { return refNow }}
}

// north returns a coordinate km kilometers due north of c
func north(c geo.Coordinate, km float64) *geo.Coordinate {
	return &geo.Coordinate{Lat: c.Lat + km/kmPerDegreeLat, Lng: c.Lng}
}

func bornYearsAgo(years int) *time.Time {
	t := refNow.AddDate(-years, 0, -10)
	return &t
}

func interests(items ...string) directory.Interests {
	return directory.Interests{{Category: "general", Items: items}}
}

func profile(id int64, tier directory.Tier) *directory.Profile {
	return &directory.Profile{ID: id, Username: "user", Tier: tier, Role: "user", IsActive: true}
}

func ids(ps []*directory.Profile) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func rankedIDs(rs []*RankedCandidate) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
