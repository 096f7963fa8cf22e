package usecase

import (
	"math"
	"testing"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/universe"
)

func testSeries(closes ...float64) models.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, 0, len(closes))
	for i, c := range closes {
		s = append(s, models.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

// trendingSeries compounds a daily return with alternating noise so the
// series has both direction and non-zero volatility.
func trendingSeries(n int, daily, noise float64) models.PriceSeries {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		r := daily + noise
		if i%2 == 0 {
			r = daily - noise
		}
		closes[i] = closes[i-1] * (1 + r)
	}
	return testSeries(closes...)
}

func flatTestSeries(n int) models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return testSeries(closes...)
}

func flatDataFor(u *universe.Universe, n int) map[string]models.PriceSeries {
	data := make(map[string]models.PriceSeries)
	for _, sym := range u.Symbols() {
		data[sym] = flatTestSeries(n)
	}
	return data
}

func TestScoresMeanMomentum(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	data := flatDataFor(u, 60)
	// Q1 indicators up ~10% over 20 days, everything else flat.
	for _, sym := range u.Definition(universe.Q1).Indicators {
		data[sym] = trendingSeries(60, 0.005, 0.001)
	}

	scores := scorer.Scores(data)
	if scores[universe.Q1] <= 5 {
		t.Fatalf("expected strong Q1 score, got %v", scores[universe.Q1])
	}
	for _, q := range []universe.Quadrant{universe.Q3, universe.Q4} {
		if scores[q] != 0 {
			t.Fatalf("expected 0 score for flat %s, got %v", q, scores[q])
		}
	}
}

func TestScoresSkipShortIndicators(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	data := flatDataFor(u, 60)
	// One Q1 indicator rising with full history, the rest too short to score.
	inds := u.Definition(universe.Q1).Indicators
	data[inds[0]] = trendingSeries(60, 0.005, 0.001)
	for _, sym := range inds[1:] {
		data[sym] = flatTestSeries(10)
	}

	scores := scorer.Scores(data)
	// The short indicators must not drag the average toward zero.
	if scores[universe.Q1] <= 5 {
		t.Fatalf("short indicators should be skipped, got %v", scores[universe.Q1])
	}
}

func TestRankTieBreakDeclarationOrder(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	scores := map[universe.Quadrant]float64{
		universe.Q1: 0, universe.Q2: 0, universe.Q3: 0, universe.Q4: 0,
	}
	ranked := scorer.Rank(scores)
	for i, q := range universe.Order {
		if ranked[i] != q {
			t.Fatalf("tie-break broke declaration order: %v", ranked)
		}
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	// All flat: zero spread, confidence floor.
	state := scorer.Classify(flatDataFor(u, 60), time.Now())
	if state.Confidence != 0.5 {
		t.Fatalf("expected floor confidence 0.5, got %v", state.Confidence)
	}
	if state.PrimaryQuadrant != "Q1" || state.SecondaryQuadrant != "Q2" {
		t.Fatalf("flat data should rank by declaration order, got %s/%s",
			state.PrimaryQuadrant, state.SecondaryQuadrant)
	}

	// Huge spread: confidence cap.
	data := flatDataFor(u, 60)
	for _, sym := range u.Definition(universe.Q1).Indicators {
		data[sym] = trendingSeries(60, 0.02, 0.001)
	}
	state = scorer.Classify(data, time.Now())
	if state.Confidence != 0.95 {
		t.Fatalf("expected capped confidence 0.95, got %v", state.Confidence)
	}
}

func TestClassifyConfidenceMonotonic(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	small := flatDataFor(u, 60)
	for _, sym := range u.Definition(universe.Q1).Indicators {
		small[sym] = trendingSeries(60, 0.001, 0.0005)
	}
	large := flatDataFor(u, 60)
	for _, sym := range u.Definition(universe.Q1).Indicators {
		large[sym] = trendingSeries(60, 0.004, 0.0005)
	}

	cSmall := scorer.Classify(small, time.Now()).Confidence
	cLarge := scorer.Classify(large, time.Now()).Confidence
	if cLarge < cSmall {
		t.Fatalf("confidence should grow with spread: %v < %v", cLarge, cSmall)
	}
}

func TestClassifyCarriesQuadrantMetadata(t *testing.T) {
	u := universe.Default()
	scorer := NewRegimeScorer(u, 20)

	data := flatDataFor(u, 60)
	for _, sym := range u.Definition(universe.Q4).Indicators {
		data[sym] = trendingSeries(60, 0.005, 0.001)
	}

	state := scorer.Classify(data, time.Now())
	if state.PrimaryQuadrant != "Q4" {
		t.Fatalf("expected Q4 primary, got %s", state.PrimaryQuadrant)
	}
	def := u.Definition(universe.Q4)
	if state.GrowthDirection != def.GrowthDirection || state.InflationDirection != def.InflationDirection {
		t.Fatalf("directions should come from the primary quadrant")
	}
	if len(state.QuadrantScores) != 4 {
		t.Fatalf("expected all four scores, got %v", state.QuadrantScores)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(0.123456); math.Abs(got-0.12) > 1e-12 {
		t.Fatalf("got %v", got)
	}
	if got := round4(0.123456); math.Abs(got-0.1235) > 1e-12 {
		t.Fatalf("got %v", got)
	}
}
