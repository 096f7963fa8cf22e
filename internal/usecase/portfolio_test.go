package usecase

import (
	"math"
	"testing"
	"time"

	"QuadSig/internal/domain/models"
)

func TestBuildPortfolio(t *testing.T) {
	report := &models.SignalReport{
		Regime: models.RegimeState{PrimaryQuadrant: "Q1", SecondaryQuadrant: "Q2"},
		Positions: []models.Position{
			{Asset: "QQQ", Signal: models.SignalBullish, TargetAllocation: 0.4, Conviction: models.ConvictionHigh, Category: "growth", Quadrant: "Q1"},
			{Asset: "ARKK", Signal: models.SignalBullish, TargetAllocation: 0.2, Conviction: models.ConvictionHigh, Category: "growth", Quadrant: "Q1"},
			{Asset: "GLD", Signal: models.SignalNeutral, TargetAllocation: 0.04, Conviction: models.ConvictionLow, Category: "commodities", Quadrant: "Q2"},
		},
		TotalLeverage: 0.64,
		GeneratedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	view := BuildPortfolio(report, 10000)

	if view.PortfolioSize != 10000 {
		t.Fatalf("unexpected size %v", view.PortfolioSize)
	}
	if view.NumPositions != 3 {
		t.Fatalf("expected 3 positions, got %d", view.NumPositions)
	}
	if view.Positions[0].DollarAmount != 4000 {
		t.Fatalf("expected $4000 for QQQ, got %v", view.Positions[0].DollarAmount)
	}
	if math.Abs(view.CategoryAllocations["growth"]-0.6) > 1e-9 {
		t.Fatalf("expected growth 0.6, got %v", view.CategoryAllocations["growth"])
	}
	if math.Abs(view.TotalLeverage-0.64) > 1e-9 {
		t.Fatalf("expected leverage 0.64, got %v", view.TotalLeverage)
	}
	if view.Regime.PrimaryQuadrant != "Q1" {
		t.Fatalf("regime not carried over")
	}
	if !view.Timestamp.Equal(report.GeneratedAt) {
		t.Fatalf("timestamp should come from the report")
	}
}

func TestBuildPortfolioSkipsZeroWeights(t *testing.T) {
	report := &models.SignalReport{
		Positions: []models.Position{
			{Asset: "QQQ", TargetAllocation: 0.5, Category: "growth"},
			{Asset: "ZZZ", TargetAllocation: 0, Category: "other"},
		},
	}
	view := BuildPortfolio(report, 1000)
	if view.NumPositions != 1 {
		t.Fatalf("zero-weight positions should be dropped, got %d", view.NumPositions)
	}
}
