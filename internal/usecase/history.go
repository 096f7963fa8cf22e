package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/domain/repository"
)

// HistoryService serves the signal history feed: change events from the
// store plus the backtest performance artifact. The artifact is produced
// by an offline batch job and consumed read-only here.
type HistoryService struct {
	store        repository.HistoryStore
	artifactPath string
}

// NewHistoryService creates a history service. A nil store yields empty
// event feeds; an empty artifact path yields no performance summary.
func NewHistoryService(store repository.HistoryStore, artifactPath string) *HistoryService {
	return &HistoryService{store: store, artifactPath: artifactPath}
}

// Events returns change events in [from, to], newest first.
func (h *HistoryService) Events(ctx context.Context, from, to time.Time, limit int) ([]models.SignalEvent, error) {
	if h.store == nil {
		return []models.SignalEvent{}, nil
	}
	events, err := h.store.QueryEvents(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.SignalEvent{}
	}
	return events, nil
}

// Performance loads the backtest summary artifact. Returns (nil, nil)
// when no artifact is configured or present.
func (h *HistoryService) Performance() (*models.PerformanceSummary, error) {
	if h.artifactPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(h.artifactPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var summary models.PerformanceSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return &summary, nil
}
