// Package handler implements the API route handlers.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantfold/helix/internal/api/job"
	"github.com/quantfold/helix/internal/api/response"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/pricedata"
	"github.com/quantfold/helix/internal/storage/archive"
	"github.com/quantfold/helix/internal/strategy"
	"go.uber.org/zap"
)

// BacktestRequest is the request body for starting a backtest.
type BacktestRequest struct {
	Strategy        string        `json:"strategy"`
	Candles         []core.Candle `json:"candles"`
	InitialCapital  float64       `json:"initialCapital,omitempty"`
	PositionSizePct float64       `json:"positionSizePct,omitempty"`
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	jobStore   *job.Store
	strategies *strategy.Engine
	defaults   backtest.Config
	archiver   *archive.Archiver
	registry   *metrics.Registry
	logger     *zap.Logger
}

// NewBacktestHandler creates a new backtest handler. The archiver and
// registry are optional.
func NewBacktestHandler(
	jobStore *job.Store,
	strategies *strategy.Engine,
	defaults backtest.Config,
	archiver *archive.Archiver,
	registry *metrics.Registry,
	logger *zap.Logger,
) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		jobStore:   jobStore,
		strategies: strategies,
		defaults:   defaults,
		archiver:   archiver,
		registry:   registry,
		logger:     logger,
	}
}

// config resolves per-request overrides against the configured
// defaults.
func (h *BacktestHandler) config(req BacktestRequest) backtest.Config {
	cfg := h.defaults
	if req.InitialCapital > 0 {
		cfg.InitialCapital = req.InitialCapital
	}
	if req.PositionSizePct > 0 {
		cfg.PositionSizePct = req.PositionSizePct
	}
	return cfg
}

func (h *BacktestHandler) trackJobs() {
	if h.registry != nil {
		h.registry.SetJobsActive("backtest", h.jobStore.Len())
	}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Failure(w, core.WrapError(core.ErrMalformedData, err))
		return
	}

	if req.Strategy == "" {
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

	strat, ok := h.strategies.Get(req.Strategy)
	if !ok {
		response.Failure(w, core.ErrStrategyNotFound)
		return
	}

	j := h.jobStore.Create("backtest")
	h.trackJobs()
	jobID := j.ID
	status := j.Status

	go h.runBacktest(jobID, strat, candles, h.config(req))

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runBacktest executes the backtest and updates job status. A panic
// in strategy code marks the job failed instead of killing the
// process.
func (h *BacktestHandler) runBacktest(jobID string, strat strategy.Strategy, candles []core.Candle, cfg backtest.Config) {
	start := time.Now()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		h.logger.Error("backtest run panicked",
			zap.String("strategy", strat.Name()), zap.Any("panic", r))
		if h.registry != nil {
			h.registry.RecordBacktest(strat.Name(), "error", time.Since(start).Seconds())
		}
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = core.WrapError(core.ErrStrategyFailed, fmt.Errorf("%v", r))
		})
		h.trackJobs()
	}()

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	signals := strat.Signals(candles)
	result := backtest.Run(candles, signals, cfg)

	if h.registry != nil {
		h.registry.RecordBacktest(strat.Name(), "success", time.Since(start).Seconds())
		for _, s := range signals {
			if s.IsActionable() {
				h.registry.RecordSignal(strat.Name(), string(s))
			}
		}
	}

	if h.archiver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := h.archiver.Save(ctx, strat.Name(), result); err != nil {
			h.logger.Warn("archiving backtest result failed",
				zap.String("strategy", strat.Name()), zap.Error(err))
		}
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Result = result
	})
	h.trackJobs()
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Failure(w, err)
		return
	}

	resp := map[string]any{
		"job_id": j.ID,
		"status": j.Status,
	}
	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
