package strategy

import (
	"sort"
	"sync"

	"github.com/quantfold/helix/internal/core"
	"go.uber.org/zap"
)

// Engine manages the strategy catalog.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// NewEngine creates an empty strategy engine.
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// NewDefaultEngine creates an engine with the full built-in catalog
// registered.
func NewDefaultEngine(logger ...*zap.Logger) *Engine {
	e := NewEngine(logger...)
	for _, s := range []Strategy{
		NewRSIOversold(14, 30, 70),
		NewMACrossover(10, 30),
		NewMACDCrossover(12, 26, 9),
		NewBollingerBounce(20, 2),
		NewSupertrendFlip(10, 3),
		NewVWAPBounce(),
		NewStochasticCrossover(14, 3),
		NewADXTrend(14, 25),
		NewTripleEMA(5, 10, 20),
		NewIchimokuCloud(9, 26, 52),
		NewMeanReversion(20, 2),
		NewVolumeBreakout(20, 1.5),
		NewParabolicSARFlip(0.02, 0.2),
		NewConfluence(),
	} {
		e.Register(s)
	}
	return e
}

// Register adds a strategy to the engine.
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[s.Name()] = s
}

// Get retrieves a strategy by name.
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// GetAll returns all registered strategies sorted by name.
func (e *Engine) GetAll() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Names returns the sorted names of all registered strategies.
func (e *Engine) Names() []string {
	all := e.GetAll()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name()
	}
	return names
}

// Signals runs the named strategy over the candles.
func (e *Engine) Signals(name string, candles []core.Candle) ([]core.Action, error) {
	s, ok := e.Get(name)
	if !ok {
		e.logger.Warn("unknown strategy requested", zap.String("strategy", name))
		return nil, core.ErrStrategyNotFound
	}
	return s.Signals(candles), nil
}
