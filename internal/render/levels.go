package render

import "math"

var niceSteps = []float64{1, 2, 2.5, 5, 10}

// Levels returns ascending contour boundaries that cover [min, max] in at
// most n+1 bands of equal, round width. A constant field is widened by 0.5
// on either side so it still gets one band.
func Levels(min, max float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if max < min {
		min, max = max, min
	}
	if max == min {
		min, max = min-0.5, max+0.5
	}

	raw := (max - min) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, m := range niceSteps {
		if m*mag >= raw*(1-1e-9) {
			step = m * mag
			break
		}
	}

	lo := math.Floor(min/step+1e-9) * step
	hi := math.Ceil(max/step-1e-9) * step
	count := int(math.Round((hi - lo) / step))
	if count < 1 {
		count = 1
	}

	decimals := int(math.Max(0, 2-math.Floor(math.Log10(step))))
	levels := make([]float64, count+1)
	for i := range levels {
		levels[i] = roundTo(lo+float64(i)*step, decimals)
	}
	if levels[0] > min {
		levels[0] = min
	}
	if levels[count] < max {
		levels[count] = max
	}
	return levels
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
