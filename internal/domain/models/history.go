package models

import "time"

// Signal-change event types recorded between consecutive report cycles.
const (
	EventQuadrantChange = "quadrant_change"
	EventSignalChange   = "signal_change"
	EventPositionAdded  = "position_added"
	EventPositionExited = "position_exited"
)

// SignalEvent is one row of the signal history feed.
type SignalEvent struct {
	Type          string    `json:"type"`
	Asset         string    `json:"asset,omitempty"`
	PreviousValue string    `json:"previousValue"`
	NewValue      string    `json:"newValue"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// PerformanceSummary is the backtest artifact consumed read-only by the
// history endpoint. Producing it is a separate batch job's concern.
type PerformanceSummary struct {
	TotalReturn  float64 `json:"totalReturn"`
	AnnualReturn float64 `json:"annualReturn"`
	Sharpe       float64 `json:"sharpe"`
	MaxDrawdown  float64 `json:"maxDrawdown"`
	FinalValue   float64 `json:"finalValue"`
}
