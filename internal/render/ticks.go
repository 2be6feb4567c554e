package render

import (
	"math"
	"strconv"
	"time"

	"gonum.org/v1/plot"
)

const day = 24 * 60 * 60

// daySteps are the candidate spacings, in days, between date ticks.
var daySteps = []int{1, 2, 7, 14, 30, 61, 91, 182, 365, 730, 1826, 3652}

// dateTicks places labelled ticks on whole UTC days at a spacing that keeps
// at most maxTicks labels on the axis. Axis values are Unix seconds.
type dateTicks struct {
	format   string
	maxTicks int
}

var _ plot.Ticker = dateTicks{}

func (d dateTicks) Ticks(min, max float64) []plot.Tick {
	if max <= min {
		return []plot.Tick{{Value: min, Label: plot.UTCUnixTime(min).Format(d.format)}}
	}

	spanDays := (max - min) / day
	step := daySteps[len(daySteps)-1]
	for _, s := range daySteps {
		if spanDays/float64(s) <= float64(d.maxTicks-1) {
			step = s
			break
		}
	}
	stepSec := float64(step * day)

	var ticks []plot.Tick
	for v := math.Ceil(min/stepSec) * stepSec; v <= max; v += stepSec {
		ticks = append(ticks, plot.Tick{Value: v, Label: plot.UTCUnixTime(v).Format(d.format)})
	}
	if len(ticks) == 0 {
		// The span falls between two aligned days; label its ends.
		ticks = []plot.Tick{
			{Value: min, Label: plot.UTCUnixTime(min).Format(d.format)},
			{Value: max, Label: plot.UTCUnixTime(max).Format(d.format)},
		}
	}
	return ticks
}

// levelTicks labels at most maxTicks of the given levels, always keeping the
// first and the last.
func levelTicks(levels []float64, maxTicks int) plot.ConstantTicks {
	every := 1
	for (len(levels)-1)/every+1 > maxTicks {
		every++
	}

	ticks := make(plot.ConstantTicks, 0, len(levels))
	for i, l := range levels {
		label := ""
		if i%every == 0 || i == len(levels)-1 {
			label = strconv.FormatFloat(l, 'g', 6, 64)
		}
		ticks = append(ticks, plot.Tick{Value: l, Label: label})
	}
	return ticks
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix())
}
