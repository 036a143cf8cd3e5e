package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of like and unlike actions",
		},
		[]string{"action"},
	)

	mutualLikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_mutual_likes_total",
			Help: "Total number of likes that completed a mutual match",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores of returned candidates",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	rankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_rank_duration_seconds",
			Help:    "Time spent selecting and ranking a match page",
			Buckets: prometheus.DefBuckets,
		},
	)

	workingSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_working_set_size",
			Help:    "Number of candidates drawn per match request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

func recordLike(action string) {
	likesTotal.WithLabelValues(action).Inc()
}

func recordMutualLike() {
	mutualLikesTotal.Inc()
}

func recordPage(page *MatchPage, drawn int, took time.Duration) {
	rankDuration.Observe(took.Seconds())
	workingSetSize.Observe(float64(drawn))
	for _, c := range page.Matches {
		compatibilityScores.Observe(float64(c.CompatibilityScore))
	}
}
