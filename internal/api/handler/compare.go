package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quantfold/helix/internal/api/response"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/pricedata"
	"github.com/quantfold/helix/internal/strategy"
	"go.uber.org/zap"
)

// CompareRequest is the request body for a strategy comparison run.
type CompareRequest struct {
	Candles         []core.Candle `json:"candles"`
	InitialCapital  float64       `json:"initialCapital,omitempty"`
	PositionSizePct float64       `json:"positionSizePct,omitempty"`
}

// CompareHandler ranks the whole strategy catalog over one series.
type CompareHandler struct {
	strategies *strategy.Engine
	defaults   backtest.Config
	registry   *metrics.Registry
	logger     *zap.Logger
}

// NewCompareHandler creates a comparison handler.
func NewCompareHandler(strategies *strategy.Engine, defaults backtest.Config, registry *metrics.Registry, logger *zap.Logger) *CompareHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompareHandler{
		strategies: strategies,
		defaults:   defaults,
		registry:   registry,
		logger:     logger,
	}
}

// Run executes the comparison synchronously.
func (h *CompareHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Failure(w, core.WrapError(core.ErrMalformedData, err))
		return
	}

	candles, err := pricedata.Validate(req.Candles)
	if err != nil {
		response.Failure(w, err)
		return
	}
	if h.registry != nil {
		h.registry.AddCandlesLoaded(len(candles))
	}

	cfg := h.defaults
	if req.InitialCapital > 0 {
		cfg.InitialCapital = req.InitialCapital
	}
	if req.PositionSizePct > 0 {
		cfg.PositionSizePct = req.PositionSizePct
	}

	results, err := backtest.CompareAll(r.Context(), candles, h.strategies.GetAll(), cfg, h.logger)
	if err != nil {
		response.Failure(w, err)
		return
	}

	if h.registry != nil {
		h.registry.RecordComparison()
	}

	response.JSON(w, http.StatusOK, results)
}
