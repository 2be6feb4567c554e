package survey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := FromTable(mustTable(t, exampleCSV), Options{})
	require.NoError(t, err)

	sum, err := Summarize(s)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Dates)
	assert.Equal(t, 2, sum.Depths)
	assert.Equal(t, 6, sum.Readings)
	assert.Equal(t, 0, sum.Masked)
	assert.True(t, sum.FirstDate.Equal(date(2020, 1, 1)))
	assert.True(t, sum.LastDate.Equal(date(2020, 2, 1)))
	assert.Equal(t, 0.5, sum.MinDepth)
	assert.Equal(t, 1.5, sum.MaxDepth)
	assert.Equal(t, 1.0, sum.Min)
	assert.Equal(t, 2.2, sum.Max)
	assert.InDelta(t, 1.5833, sum.Mean, 1e-3)
	assert.InDelta(t, 1.6, sum.Median, 1e-9)
	assert.Greater(t, sum.StdDev, 0.0)
}

func TestSummarize_SkipsNonFinite(t *testing.T) {
	s := &Survey{
		Dates:  DateAxis{date(2020, 1, 1), date(2020, 1, 2)},
		Depths: DepthAxis{1, 2},
		Grid:   Grid{{math.NaN(), 1}, {math.Inf(-1), 3}},
	}

	sum, err := Summarize(s)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Readings)
	assert.Equal(t, 2, sum.Masked)
	assert.Equal(t, 2.0, sum.Mean)
}

func TestSummarize_Empty(t *testing.T) {
	sum, err := Summarize(&Survey{})

	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}
