package api

import (
	"errors"
	"net/http"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/universe"
	"QuadSig/internal/usecase"
	"QuadSig/pkg/cache"
	xhttp "QuadSig/pkg/http"
	xlogger "QuadSig/pkg/logger"
	"QuadSig/pkg/util"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves the signal, regime, portfolio, and history
// endpoints. Reports are read from the snapshot cache when the scheduler
// keeps it warm, and generated on demand otherwise.
type SignalsHandler struct {
	logger    *xlogger.Logger
	generator *usecase.SignalGenerator
	history   *usecase.HistoryService
	snapshots cache.Service
	uni       *universe.Universe
	ws        *WSHub
	ttl       time.Duration
}

// NewSignalsHandler creates the API handler.
func NewSignalsHandler(
	logger *xlogger.Logger,
	generator *usecase.SignalGenerator,
	history *usecase.HistoryService,
	snapshots cache.Service,
	uni *universe.Universe,
	ws *WSHub,
) *SignalsHandler {
	return &SignalsHandler{
		logger:    logger,
		generator: generator,
		history:   history,
		snapshots: snapshots,
		uni:       uni,
		ws:        ws,
		ttl:       5 * time.Minute,
	}
}

// RegisterRoutes registers all routes on the Echo instance.
func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/regime", h.Regime)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/history", h.History)

	e.GET("/healthz", h.Healthz)

	if h.ws != nil {
		e.GET("/ws/signals", h.ws.Serve)
	}
}

// Signals returns the latest full signal report.
func (h *SignalsHandler) Signals(c echo.Context) error {
	report, err := h.latestReport(c)
	if err != nil {
		return h.reportError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

type quadrantMeta struct {
	Name               string  `json:"name"`
	GrowthDirection    string  `json:"growthDirection"`
	InflationDirection string  `json:"inflationDirection"`
	Description        string  `json:"description"`
	Color              string  `json:"color"`
	Score              float64 `json:"score"`
}

type regimeResponse struct {
	Regime    models.RegimeState      `json:"regime"`
	Quadrants map[string]quadrantMeta `json:"quadrants"`
}

// Regime returns the regime state plus display metadata for all four
// quadrants.
func (h *SignalsHandler) Regime(c echo.Context) error {
	report, err := h.latestReport(c)
	if err != nil {
		return h.reportError(c, err)
	}

	quadrants := make(map[string]quadrantMeta, len(universe.Order))
	for _, q := range universe.Order {
		def := h.uni.Definition(q)
		quadrants[string(q)] = quadrantMeta{
			Name:               def.Name,
			GrowthDirection:    def.GrowthDirection,
			InflationDirection: def.InflationDirection,
			Description:        def.Description,
			Color:              def.Color,
			Score:              report.Regime.QuadrantScores[string(q)],
		}
	}

	return xhttp.SuccessResponse(c, regimeResponse{
		Regime:    report.Regime,
		Quadrants: quadrants,
	})
}

// Portfolio sizes the current report against a dollar amount.
func (h *SignalsHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.latestReport(c)
	if err != nil {
		return h.reportError(c, err)
	}

	return xhttp.SuccessResponse(c, usecase.BuildPortfolio(report, req.Size))
}

type historyResponse struct {
	Events      []models.SignalEvent       `json:"events"`
	Performance *models.PerformanceSummary `json:"performance,omitempty"`
	GeneratedAt time.Time                  `json:"generatedAt"`
}

// History returns signal-change events and the backtest summary.
func (h *SignalsHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	to := util.ParseTimeDefault(req.To, now)
	from := util.ParseTimeDefault(req.From, to.AddDate(0, 0, -90))
	if from.After(to) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_RANGE",
			Field:   "from",
			Message: "from must be before to",
		}})
	}

	events, err := h.history.Events(c.Request().Context(), from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history unavailable"))
	}

	performance, err := h.history.Performance()
	if err != nil {
		h.logger.Warn("performance artifact unreadable", xlogger.Error(err))
	}

	return xhttp.SuccessResponse(c, historyResponse{
		Events:      events,
		Performance: performance,
		GeneratedAt: now,
	})
}

// Healthz reports liveness.
func (h *SignalsHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func (h *SignalsHandler) latestReport(c echo.Context) (*models.SignalReport, error) {
	ctx := c.Request().Context()

	var cached models.SignalReport
	if err := h.snapshots.Get(ctx, usecase.SnapshotKey, &cached); err == nil {
		return &cached, nil
	}

	report, err := h.generator.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.snapshots.Set(ctx, usecase.SnapshotKey, report, h.ttl); err != nil {
		h.logger.Warn("snapshot cache write failed", xlogger.Error(err))
	}
	return report, nil
}

func (h *SignalsHandler) reportError(c echo.Context, err error) error {
	if errors.Is(err, models.ErrNoMarketData) {
		h.logger.Error("no market data available", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("market data unavailable"))
	}
	h.logger.Error("signal generation failed", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
