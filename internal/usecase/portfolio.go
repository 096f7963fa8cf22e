package usecase

import (
	"QuadSig/internal/domain/models"
)

// BuildPortfolio sizes a report's target allocations against a dollar
// portfolio and aggregates allocations per display category.
func BuildPortfolio(report *models.SignalReport, size float64) *models.PortfolioView {
	view := &models.PortfolioView{
		PortfolioSize:       size,
		Positions:           make([]models.PortfolioPosition, 0, len(report.Positions)),
		CategoryAllocations: make(map[string]float64),
		Timestamp:           report.GeneratedAt,
	}
	view.Regime.PrimaryQuadrant = report.Regime.PrimaryQuadrant
	view.Regime.SecondaryQuadrant = report.Regime.SecondaryQuadrant

	var totalLeverage float64
	for _, pos := range report.Positions {
		if pos.TargetAllocation <= 0 {
			continue
		}
		view.Positions = append(view.Positions, models.PortfolioPosition{
			Asset:        pos.Asset,
			Allocation:   pos.TargetAllocation,
			DollarAmount: round2(pos.TargetAllocation * size),
			Signal:       pos.Signal,
			Conviction:   pos.Conviction,
			Category:     pos.Category,
			Quadrant:     pos.Quadrant,
		})
		view.CategoryAllocations[pos.Category] = round4(view.CategoryAllocations[pos.Category] + pos.TargetAllocation)
		totalLeverage += pos.TargetAllocation
	}

	view.NumPositions = len(view.Positions)
	view.TotalLeverage = round2(totalLeverage)
	return view
}
