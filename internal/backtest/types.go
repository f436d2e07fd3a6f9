package backtest

// Config holds the portfolio parameters of a simulation run.
type Config struct {
	InitialCapital  float64 `json:"initialCapital"`
	PositionSizePct float64 `json:"positionSizePct"` // 0-100, share of cash per entry
}

// Trade exit reasons.
const (
	ReasonSignal    = "sell_signal"
	ReasonEndOfData = "end_of_data"
)

// Trade records a completed round trip. It is created when a SELL
// closes an open position or when the simulator force-closes at the
// final candle, and is immutable afterwards.
type Trade struct {
	EntryDate  string  `json:"entryDate"`
	ExitDate   string  `json:"exitDate"`
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	Quantity   int64   `json:"quantity"`
	PnL        float64 `json:"pnl"`
	PnLPct     float64 `json:"pnlPct"`
	Reason     string  `json:"reason"`
}

// IsWin reports whether the trade was profitable.
func (t Trade) IsWin() bool {
	return t.PnL > 0
}

// EquityPoint is the portfolio value at one candle.
type EquityPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

// Result holds the complete output of one simulation run. All fields
// are derived; nothing is mutated after construction.
type Result struct {
	InitialCapital float64       `json:"initialCapital"`
	FinalCapital   float64       `json:"finalCapital"`
	TotalReturn    float64       `json:"totalReturn"`
	TotalReturnPct float64       `json:"totalReturnPct"`
	Trades         []Trade       `json:"trades"`
	EquityCurve    []EquityPoint `json:"equityCurve"`
	TotalTrades    int           `json:"totalTrades"`
	WinningTrades  int           `json:"winningTrades"`
	LosingTrades   int           `json:"losingTrades"`
	WinRate        float64       `json:"winRate"`
	MaxDrawdown    float64       `json:"maxDrawdown"`
	MaxDrawdownPct float64       `json:"maxDrawdownPct"`
	SharpeRatio    float64       `json:"sharpeRatio"`
	ProfitFactor   float64       `json:"profitFactor"`
	AvgWin         float64       `json:"avgWin"`
	AvgLoss        float64       `json:"avgLoss"`
	BestTrade      float64       `json:"bestTrade"`
	WorstTrade     float64       `json:"worstTrade"`
}

// position is the simulator's single open long. At most one exists per
// run; pyramiding and short selling are not modeled.
type position struct {
	entryPrice float64
	entryDate  string
	quantity   int64
}
