package usecase

import (
	"fmt"
	"sort"
	"time"

	"QuadSig/internal/domain/models"
)

// ChangeDetector diffs consecutive signal reports into history events.
type ChangeDetector struct{}

// NewChangeDetector creates a detector.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{}
}

// Detect returns the events implied by moving from prev to next. A nil
// prev (first cycle) produces no events.
func (d *ChangeDetector) Detect(prev, next *models.SignalReport, at time.Time) []models.SignalEvent {
	if prev == nil || next == nil {
		return nil
	}

	var events []models.SignalEvent

	if prev.Regime.PrimaryQuadrant != next.Regime.PrimaryQuadrant {
		events = append(events, models.SignalEvent{
			Type:          models.EventQuadrantChange,
			PreviousValue: prev.Regime.PrimaryQuadrant,
			NewValue:      next.Regime.PrimaryQuadrant,
			Reason:        "momentum leadership rotated",
			Timestamp:     at,
		})
	}

	prevByAsset := positionsByAsset(prev.Positions)
	nextByAsset := positionsByAsset(next.Positions)

	for _, asset := range sortedAssets(nextByAsset) {
		np := nextByAsset[asset]
		pp, existed := prevByAsset[asset]
		if !existed {
			events = append(events, models.SignalEvent{
				Type:      models.EventPositionAdded,
				Asset:     asset,
				NewValue:  np.Signal,
				Reason:    fmt.Sprintf("entered at %.2f%% allocation", np.TargetAllocation*100),
				Timestamp: at,
			})
			continue
		}
		if pp.Signal != np.Signal {
			events = append(events, models.SignalEvent{
				Type:          models.EventSignalChange,
				Asset:         asset,
				PreviousValue: pp.Signal,
				NewValue:      np.Signal,
				Timestamp:     at,
			})
		}
	}

	for _, asset := range sortedAssets(prevByAsset) {
		if _, still := nextByAsset[asset]; !still {
			events = append(events, models.SignalEvent{
				Type:          models.EventPositionExited,
				Asset:         asset,
				PreviousValue: prevByAsset[asset].Signal,
				Timestamp:     at,
			})
		}
	}

	return events
}

func positionsByAsset(positions []models.Position) map[string]models.Position {
	byAsset := make(map[string]models.Position, len(positions))
	for _, p := range positions {
		byAsset[p.Asset] = p
	}
	return byAsset
}

func sortedAssets(m map[string]models.Position) []string {
	assets := make([]string, 0, len(m))
	for asset := range m {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}
