package usecase

import (
	"sort"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/services/stats"
	"QuadSig/internal/universe"
)

// AllocationEngine turns the two leading quadrants into a sized position
// list. Within each quadrant, weights are proportional to trailing
// volatility and scaled by that quadrant's leverage. Instruments trading
// below their trend EMA are excluded and reported separately.
type AllocationEngine struct {
	uni          *universe.Universe
	volDays      int
	emaPeriod    int
	maxPositions int
}

// AllocationResult carries the final position list plus the instruments
// the trend filter kept out.
type AllocationResult struct {
	Positions     []models.Position
	TotalLeverage float64
	Excluded      map[string]models.ExcludedAsset
}

// NewAllocationEngine creates an engine with the given windows.
func NewAllocationEngine(uni *universe.Universe, volDays, emaPeriod, maxPositions int) *AllocationEngine {
	if volDays <= 0 {
		volDays = 30
	}
	if emaPeriod <= 0 {
		emaPeriod = 50
	}
	if maxPositions <= 0 {
		maxPositions = 10
	}
	return &AllocationEngine{
		uni:          uni,
		volDays:      volDays,
		emaPeriod:    emaPeriod,
		maxPositions: maxPositions,
	}
}

// Allocate computes target weights for the instruments of the primary and
// secondary quadrants. Instruments short of history or with degenerate
// volatility are silently dropped; the result may be empty.
func (e *AllocationEngine) Allocate(data map[string]models.PriceSeries, primary, secondary universe.Quadrant) AllocationResult {
	weights := make(map[string]float64)
	excluded := make(map[string]models.ExcludedAsset)

	for _, q := range []universe.Quadrant{primary, secondary} {
		def := e.uni.Definition(q)

		// Trailing volatility per eligible instrument.
		vols := make(map[string]float64)
		var totalVol float64
		for ticker := range def.Allocations {
			series := data[ticker]
			if len(series) < e.emaPeriod {
				continue
			}
			vol := stats.AnnualizedVolatility(series, e.volDays)
			if vol <= 0 {
				continue
			}
			vols[ticker] = vol
			totalVol += vol
		}
		if totalVol <= 0 {
			continue
		}

		for ticker, vol := range vols {
			raw := vol / totalVol * def.Leverage

			series := data[ticker]
			price := series.Last()
			ema := stats.EMA(series, e.emaPeriod)

			if ema > 0 && price <= ema {
				prev := excluded[ticker]
				excluded[ticker] = models.ExcludedAsset{
					Price:         round2(price),
					EMA:           round2(ema),
					WouldBeWeight: round4(prev.WouldBeWeight + raw),
				}
				continue
			}

			weights[ticker] += raw
		}
	}

	return e.finalize(weights, excluded, primary, secondary)
}

type weighted struct {
	ticker string
	weight float64
}

// finalize caps the book at maxPositions and rescales the survivors so
// the total leverage of the uncapped book is preserved.
func (e *AllocationEngine) finalize(weights map[string]float64, excluded map[string]models.ExcludedAsset, primary, secondary universe.Quadrant) AllocationResult {
	if len(weights) == 0 {
		return AllocationResult{Excluded: excluded}
	}

	ranked := make([]weighted, 0, len(weights))
	var preCapTotal float64
	for ticker, w := range weights {
		ranked = append(ranked, weighted{ticker: ticker, weight: w})
		preCapTotal += w
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].ticker < ranked[j].ticker
	})

	if len(ranked) > e.maxPositions {
		ranked = ranked[:e.maxPositions]
	}

	var keptTotal float64
	for _, w := range ranked {
		keptTotal += w.weight
	}

	scale := 1.0
	if keptTotal > 0 {
		scale = preCapTotal / keptTotal
	}

	positions := make([]models.Position, 0, len(ranked))
	var totalLeverage float64
	for _, w := range ranked {
		weight := round4(w.weight * scale)
		if weight <= 0 {
			continue
		}
		totalLeverage += weight

		signal := models.SignalNeutral
		if weight >= 0.05 {
			signal = models.SignalBullish
		}

		conviction := models.ConvictionLow
		switch {
		case weight >= 0.15:
			conviction = models.ConvictionHigh
		case weight >= 0.08:
			conviction = models.ConvictionMedium
		}

		positions = append(positions, models.Position{
			Asset:            w.ticker,
			Signal:           signal,
			TargetAllocation: weight,
			Conviction:       conviction,
			Category:         e.uni.Category(w.ticker),
			Quadrant:         e.uni.QuadrantLabel(w.ticker, primary, secondary),
		})
	}

	return AllocationResult{
		Positions:     positions,
		TotalLeverage: round4(totalLeverage),
		Excluded:      excluded,
	}
}
