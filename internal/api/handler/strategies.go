package handler

import (
	"net/http"

	"github.com/quantfold/helix/internal/api/response"
	"github.com/quantfold/helix/internal/strategy"
)

// StrategyInfo describes one catalog entry.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategiesHandler lists the built-in strategy catalog.
type StrategiesHandler struct {
	strategies *strategy.Engine
}

// NewStrategiesHandler creates a strategies handler.
func NewStrategiesHandler(strategies *strategy.Engine) *StrategiesHandler {
	return &StrategiesHandler{strategies: strategies}
}

// List returns all registered strategies.
func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.strategies.GetAll()
	infos := make([]StrategyInfo, len(all))
	for i, s := range all {
		infos[i] = StrategyInfo{Name: s.Name(), Description: s.Description()}
	}
	response.JSON(w, http.StatusOK, infos)
}
