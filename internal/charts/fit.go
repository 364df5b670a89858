package charts

import "gonum.org/v1/gonum/stat"

// FitLine returns the least-squares line y = slope*x + intercept through the
// points. When every x is equal the slope is 0 and the intercept is mean(y).
func FitLine(xs, ys []float64) (slope, intercept float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	if constant(xs) {
		return 0, stat.Mean(ys, nil)
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
