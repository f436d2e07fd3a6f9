package indicator

// highestIn returns the maximum of values[from..to] inclusive.
func highestIn(values []float64, from, to int) float64 {
	max := values[from]
	for i := from + 1; i <= to; i++ {
		if values[i] > max {
			max = values[i]
		}
	}
	return max
}

// lowestIn returns the minimum of values[from..to] inclusive.
func lowestIn(values []float64, from, to int) float64 {
	min := values[from]
	for i := from + 1; i <= to; i++ {
		if values[i] < min {
			min = values[i]
		}
	}
	return min
}
