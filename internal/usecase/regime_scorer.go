package usecase

import (
	"math"
	"sort"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/services/stats"
	"QuadSig/internal/universe"
)

// RegimeScorer ranks the four macro quadrants by the average trailing
// momentum of their indicator baskets.
type RegimeScorer struct {
	uni          *universe.Universe
	momentumDays int
}

// NewRegimeScorer creates a scorer with the given momentum window.
func NewRegimeScorer(uni *universe.Universe, momentumDays int) *RegimeScorer {
	if momentumDays <= 0 {
		momentumDays = 20
	}
	return &RegimeScorer{uni: uni, momentumDays: momentumDays}
}

// Scores computes the mean indicator momentum per quadrant. Indicators
// without enough history are skipped; a quadrant with no usable
// indicator scores 0.
func (s *RegimeScorer) Scores(data map[string]models.PriceSeries) map[universe.Quadrant]float64 {
	scores := make(map[universe.Quadrant]float64, len(universe.Order))

	for _, q := range universe.Order {
		def := s.uni.Definition(q)

		var sum float64
		var n int
		for _, ticker := range def.Indicators {
			series := data[ticker]
			if len(series) <= s.momentumDays {
				continue
			}
			sum += stats.Momentum(series, s.momentumDays)
			n++
		}

		if n > 0 {
			scores[q] = sum / float64(n)
		} else {
			scores[q] = 0
		}
	}

	return scores
}

// Rank orders quadrants by score descending. Equal scores fall back to
// declaration order so ranking is deterministic.
func (s *RegimeScorer) Rank(scores map[universe.Quadrant]float64) []universe.Quadrant {
	ranked := make([]universe.Quadrant, len(universe.Order))
	copy(ranked, universe.Order)

	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	return ranked
}

// Classify scores and ranks the quadrants and derives the regime state.
// Confidence grows with the spread between the two leading scores,
// floored at 0.5 and capped at 0.95.
func (s *RegimeScorer) Classify(data map[string]models.PriceSeries, now time.Time) models.RegimeState {
	scores := s.Scores(data)
	ranked := s.Rank(scores)

	primary, secondary := ranked[0], ranked[1]
	info := s.uni.Definition(primary)

	spread := math.Abs(scores[primary] - scores[secondary])
	confidence := math.Min(0.95, 0.5+spread/20)

	quadrantScores := make(map[string]float64, len(scores))
	for q, score := range scores {
		quadrantScores[string(q)] = round2(score)
	}

	return models.RegimeState{
		PrimaryQuadrant:    string(primary),
		SecondaryQuadrant:  string(secondary),
		GrowthDirection:    info.GrowthDirection,
		InflationDirection: info.InflationDirection,
		Confidence:         round2(confidence),
		Timestamp:          now,
		QuadrantScores:     quadrantScores,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
