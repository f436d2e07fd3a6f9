// Package indicator implements the technical indicator library.
//
// Every function is total over any candle or value slice, including an
// empty one: rather than returning an error, it returns a series of the
// same length whose leading warm-up indices are invalid. Division-by-zero
// and other undefined intermediate results resolve to documented finite
// sentinels instead of NaN or Inf, so downstream consumers never have to
// guard against non-finite values.
package indicator
