package strategy

import (
	"github.com/quantfold/helix/internal/series"
)

// crossedAbove reports whether a crossed strictly above b between i-1
// and i. Both series must be defined at both indices.
func crossedAbove(a, b series.Series, i int) bool {
	pa, ok1 := a.At(i - 1)
	pb, ok2 := b.At(i - 1)
	ca, ok3 := a.At(i)
	cb, ok4 := b.At(i)
	return ok1 && ok2 && ok3 && ok4 && pa <= pb && ca > cb
}

// crossedBelow reports whether a crossed strictly below b between i-1
// and i.
func crossedBelow(a, b series.Series, i int) bool {
	pa, ok1 := a.At(i - 1)
	pb, ok2 := b.At(i - 1)
	ca, ok3 := a.At(i)
	cb, ok4 := b.At(i)
	return ok1 && ok2 && ok3 && ok4 && pa >= pb && ca < cb
}

// crossedAboveLevel reports whether s crossed strictly above a fixed
// level between i-1 and i.
func crossedAboveLevel(s series.Series, level float64, i int) bool {
	prev, ok1 := s.At(i - 1)
	curr, ok2 := s.At(i)
	return ok1 && ok2 && prev <= level && curr > level
}

// crossedBelowLevel reports whether s crossed strictly below a fixed
// level between i-1 and i.
func crossedBelowLevel(s series.Series, level float64, i int) bool {
	prev, ok1 := s.At(i - 1)
	curr, ok2 := s.At(i)
	return ok1 && ok2 && prev >= level && curr < level
}
