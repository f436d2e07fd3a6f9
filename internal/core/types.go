package core

// Candle represents one OHLCV bar of a daily price series.
type Candle struct {
	Date      string  `json:"date"` // ISO day key, e.g. "2024-03-15"
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// IsValid checks if the candle has required fields.
func (c Candle) IsValid() bool {
	return c.Date != "" && c.High >= c.Low && c.Close > 0
}

// TypicalPrice returns (high + low + close) / 3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// HL2 returns the high/low midpoint.
func (c Candle) HL2() float64 {
	return (c.High + c.Low) / 2
}

// Action represents a per-candle trading signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"

	// ActionNone marks indices where a strategy has no opinion yet,
	// typically because an indicator is still inside its warm-up window.
	ActionNone Action = ""
)

// IsActionable reports whether the action opens or closes a position.
func (a Action) IsActionable() bool {
	return a == ActionBuy || a == ActionSell
}

// Closes extracts the close prices from a candle series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// MinCandles is the minimum series length callers should enforce
// before running a backtest. Shorter series leave most indicators
// inside their warm-up window and produce meaningless statistics.
const MinCandles = 50
