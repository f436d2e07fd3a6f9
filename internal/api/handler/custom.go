package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantfold/helix/internal/api/response"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/pricedata"
	"github.com/quantfold/helix/internal/sandbox"
	"go.uber.org/zap"
)

// CustomRequest is the request body for backtesting user-supplied
// strategy code.
type CustomRequest struct {
	Code            string        `json:"code"`
	Candles         []core.Candle `json:"candles"`
	InitialCapital  float64       `json:"initialCapital,omitempty"`
	PositionSizePct float64       `json:"positionSizePct,omitempty"`
}

// CustomResult is the combined sandbox and simulation outcome. Errors
// raised by the user code are data, not HTTP failures; the simulation
// still runs over whatever signals survived coercion.
type CustomResult struct {
	Signals []core.Action    `json:"signals"`
	Errors  []string         `json:"errors"`
	Logs    []string         `json:"logs"`
	Result  *backtest.Result `json:"result"`
}

// CustomHandler runs user-supplied strategies through the sandbox and
// the simulator.
type CustomHandler struct {
	executor *sandbox.Executor
	defaults backtest.Config
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewCustomHandler creates a custom strategy handler.
func NewCustomHandler(executor *sandbox.Executor, defaults backtest.Config, registry *metrics.Registry, logger *zap.Logger) *CustomHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomHandler{
		executor: executor,
		defaults: defaults,
		registry: registry,
		logger:   logger,
	}
}

// Run executes the custom strategy and backtests its signals.
func (h *CustomHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req CustomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Failure(w, core.WrapError(core.ErrMalformedData, err))
		return
	}

	if req.Code == "" {
		response.Failure(w, core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	candles, err := pricedata.Validate(req.Candles)
	if err != nil {
		response.Failure(w, err)
		return
	}
	if err := backtest.Validate(candles); err != nil {
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

	start := time.Now()
	execRes := h.executor.Execute(req.Code, candles)

	if h.registry != nil {
		status := "success"
		if len(execRes.Errors) > 0 {
			status = "error"
		}
		h.registry.RecordSandboxRun(status, time.Since(start).Seconds())
	}

	result := backtest.Run(candles, execRes.Signals, cfg)

	h.logger.Debug("custom strategy executed",
		zap.Int("candles", len(candles)),
		zap.Int("errors", len(execRes.Errors)),
		zap.Int("trades", result.TotalTrades),
	)

	response.JSON(w, http.StatusOK, CustomResult{
		Signals: execRes.Signals,
		Errors:  execRes.Errors,
		Logs:    execRes.Logs,
		Result:  result,
	})
}
