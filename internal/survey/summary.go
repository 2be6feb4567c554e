package survey

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Summary describes the extent of a survey and the spread of its readings.
// Reading statistics cover finite values only.
type Summary struct {
	Dates     int       `json:"dates"`
	Depths    int       `json:"depths"`
	Readings  int       `json:"readings"`
	Masked    int       `json:"masked"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
	MinDepth  float64   `json:"min_depth"`
	MaxDepth  float64   `json:"max_depth"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	StdDev    float64   `json:"std_dev"`
}

// Summarize computes the survey summary. An empty survey yields a zero
// Summary with only the counts set.
func Summarize(s *Survey) (Summary, error) {
	sum := Summary{
		Dates:  len(s.Dates),
		Depths: len(s.Depths),
	}
	if len(s.Dates) > 0 {
		sum.FirstDate = s.Dates[0]
		sum.LastDate = s.Dates[len(s.Dates)-1]
	}

	if len(s.Depths) > 0 {
		depths := stats.Float64Data(s.Depths)
		var err error
		if sum.MinDepth, err = depths.Min(); err != nil {
			return sum, err
		}
		if sum.MaxDepth, err = depths.Max(); err != nil {
			return sum, err
		}
	}

	var readings stats.Float64Data
	for _, row := range s.Grid {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				sum.Masked++
				continue
			}
			readings = append(readings, v)
		}
	}
	sum.Readings = len(readings)
	if len(readings) == 0 {
		return sum, nil
	}

	var err error
	if sum.Min, err = stats.Min(readings); err != nil {
		return sum, err
	}
	if sum.Max, err = stats.Max(readings); err != nil {
		return sum, err
	}
	if sum.Mean, err = stats.Mean(readings); err != nil {
		return sum, err
	}
	if sum.Median, err = stats.Median(readings); err != nil {
		return sum, err
	}
	if sum.StdDev, err = stats.StandardDeviation(readings); err != nil {
		return sum, err
	}
	return sum, nil
}
