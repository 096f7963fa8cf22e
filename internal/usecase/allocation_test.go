package usecase

import (
	"math"
	"testing"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/universe"
)

func testUniverse(t *testing.T, q1Alloc, q2Alloc map[string]float64) *universe.Universe {
	t.Helper()
	defs := map[universe.Quadrant]universe.Definition{
		universe.Q1: {
			Name: "Goldilocks", GrowthDirection: "rising", InflationDirection: "falling",
			Indicators: []string{"I1", "I2"}, Leverage: 1.5, Allocations: q1Alloc,
		},
		universe.Q2: {
			Name: "Reflation", GrowthDirection: "rising", InflationDirection: "rising",
			Indicators: []string{"I3", "I4"}, Leverage: 1.0, Allocations: q2Alloc,
		},
		universe.Q3: {
			Name: "Stagflation", GrowthDirection: "falling", InflationDirection: "rising",
			Indicators: []string{"I5", "I6"}, Leverage: 1.0, Allocations: map[string]float64{"ZZ1": 0.5},
		},
		universe.Q4: {
			Name: "Deflation", GrowthDirection: "falling", InflationDirection: "falling",
			Indicators: []string{"I7", "I8"}, Leverage: 1.0, Allocations: map[string]float64{"ZZ2": 0.5},
		},
	}
	u, err := universe.New(defs, map[string]string{"AAA": "growth"})
	if err != nil {
		t.Fatalf("test universe invalid: %v", err)
	}
	return u
}

// decliningSeries trends down with noise: price ends below its EMA.
func decliningSeries(n int) models.PriceSeries {
	return trendingSeriesDown(n, 0.005, 0.001)
}

func trendingSeriesDown(n int, daily, noise float64) models.PriceSeries {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		r := -daily + noise
		if i%2 == 0 {
			r = -daily - noise
		}
		closes[i] = closes[i-1] * (1 + r)
	}
	return testSeries(closes...)
}

func TestAllocateVolatilityProportional(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5, "BBB": 0.5},
		map[string]float64{"CCC": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	data := map[string]models.PriceSeries{
		// AAA has twice BBB's daily noise, so roughly twice the volatility.
		"AAA": trendingSeries(80, 0.002, 0.004),
		"BBB": trendingSeries(80, 0.002, 0.002),
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)
	if len(res.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(res.Positions))
	}

	byAsset := make(map[string]models.Position)
	for _, p := range res.Positions {
		byAsset[p.Asset] = p
	}

	// Quadrant leverage 1.5 split 2:1 between AAA and BBB.
	if math.Abs(byAsset["AAA"].TargetAllocation-1.0) > 0.02 {
		t.Fatalf("expected AAA ~1.0, got %v", byAsset["AAA"].TargetAllocation)
	}
	if math.Abs(byAsset["BBB"].TargetAllocation-0.5) > 0.02 {
		t.Fatalf("expected BBB ~0.5, got %v", byAsset["BBB"].TargetAllocation)
	}
	if math.Abs(res.TotalLeverage-1.5) > 0.02 {
		t.Fatalf("expected total leverage ~1.5, got %v", res.TotalLeverage)
	}
}

func TestAllocateEMAExclusion(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5, "BBB": 0.5},
		map[string]float64{"CCC": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	data := map[string]models.PriceSeries{
		"AAA": trendingSeries(80, 0.002, 0.002),
		"BBB": decliningSeries(80),
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)

	for _, p := range res.Positions {
		if p.Asset == "BBB" {
			t.Fatalf("declining asset should be excluded")
		}
	}

	ex, ok := res.Excluded["BBB"]
	if !ok {
		t.Fatalf("expected BBB in exclusion map: %v", res.Excluded)
	}
	if ex.Price >= ex.EMA {
		t.Fatalf("excluded asset should trade below its EMA: price=%v ema=%v", ex.Price, ex.EMA)
	}
	if ex.WouldBeWeight <= 0 {
		t.Fatalf("expected positive would-be weight, got %v", ex.WouldBeWeight)
	}
}

func TestAllocateSkipsShortHistory(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5, "BBB": 0.5},
		map[string]float64{"CCC": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	data := map[string]models.PriceSeries{
		"AAA": trendingSeries(80, 0.002, 0.002),
		"BBB": trendingSeries(20, 0.002, 0.002), // too short to qualify
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)
	if len(res.Positions) != 1 || res.Positions[0].Asset != "AAA" {
		t.Fatalf("expected only AAA, got %v", res.Positions)
	}
	// AAA takes the whole quadrant leverage.
	if math.Abs(res.Positions[0].TargetAllocation-1.5) > 1e-9 {
		t.Fatalf("expected 1.5, got %v", res.Positions[0].TargetAllocation)
	}
}

func TestAllocateCapPreservesTotal(t *testing.T) {
	alloc := map[string]float64{"AAA": 0.3, "BBB": 0.3, "CCC": 0.4}
	u := testUniverse(t, alloc, map[string]float64{"DDD": 0.5})
	engine := NewAllocationEngine(u, 30, 50, 2)

	data := map[string]models.PriceSeries{
		"AAA": trendingSeries(80, 0.002, 0.004),
		"BBB": trendingSeries(80, 0.002, 0.003),
		"CCC": trendingSeries(80, 0.002, 0.002),
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)
	if len(res.Positions) != 2 {
		t.Fatalf("expected cap at 2 positions, got %d", len(res.Positions))
	}
	// Rescaling preserves the uncapped quadrant leverage.
	if math.Abs(res.TotalLeverage-1.5) > 0.01 {
		t.Fatalf("expected preserved total ~1.5, got %v", res.TotalLeverage)
	}
	// Largest positions kept.
	if res.Positions[0].TargetAllocation < res.Positions[1].TargetAllocation {
		t.Fatalf("positions not sorted by allocation")
	}
}

func TestAllocateSharedAssetAccumulates(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5},
		map[string]float64{"AAA": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	data := map[string]models.PriceSeries{
		"AAA": trendingSeries(80, 0.002, 0.002),
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)
	if len(res.Positions) != 1 {
		t.Fatalf("expected single merged position, got %v", res.Positions)
	}
	p := res.Positions[0]
	// Sole asset of both quadrants: 1.5 + 1.0.
	if math.Abs(p.TargetAllocation-2.5) > 1e-9 {
		t.Fatalf("expected accumulated 2.5, got %v", p.TargetAllocation)
	}
	if p.Quadrant != "Q1+Q2" {
		t.Fatalf("expected Q1+Q2 label, got %s", p.Quadrant)
	}
	if p.Category != "growth" {
		t.Fatalf("expected category lookup, got %s", p.Category)
	}
}

func TestAllocateSignalAndConvictionTiers(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5},
		map[string]float64{"CCC": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	data := map[string]models.PriceSeries{
		"AAA": trendingSeries(80, 0.002, 0.002),
	}

	res := engine.Allocate(data, universe.Q1, universe.Q2)
	p := res.Positions[0]
	if p.Signal != models.SignalBullish {
		t.Fatalf("large weight should be BULLISH, got %s", p.Signal)
	}
	if p.Conviction != models.ConvictionHigh {
		t.Fatalf("large weight should be high conviction, got %s", p.Conviction)
	}
}

func TestAllocateDegenerateEmpty(t *testing.T) {
	u := testUniverse(t,
		map[string]float64{"AAA": 0.5},
		map[string]float64{"CCC": 0.5},
	)
	engine := NewAllocationEngine(u, 30, 50, 10)

	res := engine.Allocate(map[string]models.PriceSeries{}, universe.Q1, universe.Q2)
	if len(res.Positions) != 0 {
		t.Fatalf("expected no positions, got %v", res.Positions)
	}
	if res.TotalLeverage != 0 {
		t.Fatalf("expected zero leverage, got %v", res.TotalLeverage)
	}
}
