// Package series provides the nullable value sequence shared by all
// indicator computations. An indicator output is always exactly as long
// as the candle series it was derived from, with an all-invalid prefix
// covering the indicator's warm-up window followed by valid values for
// every subsequent index.
package series

// Value is an optional float64. The zero value is invalid.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a valid Value.
func Some(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// None returns an invalid Value.
func None() Value {
	return Value{}
}

// Series is a sequence of optional values aligned index-for-index with
// the candle series it was computed from.
type Series []Value

// Empty returns a Series of n invalid values.
func Empty(n int) Series {
	return make(Series, n)
}

// FromFloats wraps raw values into a fully valid Series.
func FromFloats(vals []float64) Series {
	s := make(Series, len(vals))
	for i, v := range vals {
		s[i] = Some(v)
	}
	return s
}

// At returns the value at i and whether it is valid. Out-of-range
// indices report invalid rather than panicking, so callers can probe
// i-1 at the start of a series without guarding.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return s[i].Float64, s[i].Valid
}

// Valid reports whether the value at i is defined.
func (s Series) Valid(i int) bool {
	_, ok := s.At(i)
	return ok
}

// Offset returns the index of the first valid value, or len(s) when the
// series has no valid values.
func (s Series) Offset() int {
	for i := range s {
		if s[i].Valid {
			return i
		}
	}
	return len(s)
}

// Compact returns the valid values in order. Under the warm-up
// invariant these form the contiguous tail starting at Offset().
func (s Series) Compact() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

// Scatter places a series computed over a compacted value set back onto
// the original index space: out[offset+j] = vals[j]. This is the
// re-alignment step chained-EMA indicators (DEMA, TEMA, TRIX, the MACD
// signal line) depend on to keep lengths synchronized with the candles.
func Scatter(vals Series, offset, length int) Series {
	out := Empty(length)
	for j, v := range vals {
		i := offset + j
		if i >= 0 && i < length {
			out[i] = v
		}
	}
	return out
}
