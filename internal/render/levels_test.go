package render

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		min, max float64
		n        int
		want     []float64
	}{
		{1.0, 2.2, 10, []float64{1.0, 1.2, 1.4, 1.6, 1.8, 2.0, 2.2}},
		{0, 10, 5, []float64{0, 2, 4, 6, 8, 10}},
		{0, 10, 10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{-3, 7, 4, []float64{-5, -2.5, 0, 2.5, 5, 7.5}},
		{2, 2, 10, []float64{1.5, 1.6, 1.7, 1.8, 1.9, 2.0, 2.1, 2.2, 2.3, 2.4, 2.5}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g..%g/%d", tt.min, tt.max, tt.n), func(t *testing.T) {
			got := Levels(tt.min, tt.max, tt.n)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestLevels_CoverRangeWithinBandBudget(t *testing.T) {
	ranges := [][2]float64{{0.013, 0.98}, {-12.7, 44.1}, {1e-4, 3e-4}, {100, 12345}, {-0.5, -0.1}}

	for _, r := range ranges {
		for _, res := range Resolutions {
			levels := Levels(r[0], r[1], int(res))
			assert.LessOrEqual(t, levels[0], r[0])
			assert.GreaterOrEqual(t, levels[len(levels)-1], r[1])
			assert.LessOrEqual(t, len(levels)-1, int(res)+1)
			for i := 1; i < len(levels); i++ {
				assert.Greater(t, levels[i], levels[i-1])
			}
		}
	}
}

func TestBandMap(t *testing.T) {
	m := newBandMap([]float64{0, 1, 2, 4}, jet)

	tests := []struct {
		v    float64
		band int
	}{
		{0, 0}, {0.5, 0}, {1, 1}, {1.99, 1}, {2, 2}, {4, 2},
	}
	for _, tt := range tests {
		c, err := m.At(tt.v)
		require.NoError(t, err)
		assert.Equal(t, m.colors[tt.band], c, "value %g", tt.v)
	}

	_, err := m.At(-1)
	assert.Error(t, err)
	_, err = m.At(5)
	assert.Error(t, err)

	assert.Equal(t, 0.0, m.Min())
	assert.Equal(t, 4.0, m.Max())
	assert.Len(t, m.Palette(256).Colors(), 3)
}

func TestBandMap_Rescale(t *testing.T) {
	m := newBandMap([]float64{0, 1, 2}, jet)
	m.SetMax(4)

	assert.Equal(t, []float64{0, 2, 4}, m.levels)
}

func TestJetEndpoints(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 128, A: 255}, jet(0))
	assert.Equal(t, color.RGBA{R: 128, G: 0, B: 0, A: 255}, jet(1))
}

func TestGradients(t *testing.T) {
	for _, cm := range Colormaps {
		t.Run(string(cm), func(t *testing.T) {
			g, err := cm.gradient()
			require.NoError(t, err)
			for _, v := range []float64{-1, 0, 0.25, 0.5, 1, 2} {
				_, _, _, a := g(v).RGBA()
				assert.Equal(t, uint32(0xffff), a)
			}
		})
	}

	g, err := GrayR.gradient()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, g(0))
	assert.Equal(t, color.RGBA{A: 255}, g(1))

	_, err = Colormap("hot").gradient()
	assert.Error(t, err)
}
