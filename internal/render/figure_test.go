package render

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/survey"
)

func exampleSurvey() (survey.DateAxis, survey.DepthAxis, survey.Grid) {
	dates := survey.DateAxis{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	depths := survey.DepthAxis{0.5, 1.5}
	grid := survey.Grid{{1.1, 1.3, 1.0}, {2.2, 2.0, 1.9}}
	return dates, depths, grid
}

func TestRender_Example(t *testing.T) {
	dates, depths, grid := exampleSurvey()

	fig, err := Render(dates, depths, grid, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, fig.Title())
	assert.Equal(t, 6, fig.Bands())
	assert.Equal(t, 1.0, fig.Levels()[0])
	assert.InDelta(t, 2.2, fig.Levels()[fig.Bands()], 1e-9)
	assert.Equal(t, Width, fig.Width())
	assert.Equal(t, Height, fig.Height())
}

func TestRender_EveryOption(t *testing.T) {
	dates, depths, grid := exampleSurvey()

	for _, res := range Resolutions {
		for _, cm := range Colormaps {
			cfg := Config{Resolution: res, Colormap: cm, Title: res.Name() + " " + cm.Name()}
			fig, err := Render(dates, depths, grid, cfg)
			require.NoError(t, err, "%d %s", res, cm)

			img := vgimg.New(fig.Width(), fig.Height())
			assert.NotPanics(t, func() { fig.Draw(draw.New(img)) })
		}
	}
}

func TestRender_Errors(t *testing.T) {
	dates, depths, grid := exampleSurvey()
	nan := math.NaN()

	tests := []struct {
		name     string
		dates    survey.DateAxis
		depths   survey.DepthAxis
		grid     survey.Grid
		cfg      Config
		wantType apperrors.ErrorType
	}{
		{"empty grid", nil, nil, nil, DefaultConfig(), apperrors.ErrTypeRender},
		{"too few depths", dates, depths[:1], grid[:1], DefaultConfig(), apperrors.ErrTypeRender},
		{"too few dates", dates[:1], depths, survey.Grid{{1}, {2}}, DefaultConfig(), apperrors.ErrTypeRender},
		{"depth mismatch", dates, depths[:1], grid, DefaultConfig(), apperrors.ErrTypeRender},
		{"date mismatch", dates[:2], depths, grid, DefaultConfig(), apperrors.ErrTypeRender},
		{"ragged grid", dates, depths, survey.Grid{{1, 2, 3}, {1, 2}}, DefaultConfig(), apperrors.ErrTypeRender},
		{"no finite reading", dates[:2], depths, survey.Grid{{nan, nan}, {nan, math.Inf(1)}}, DefaultConfig(), apperrors.ErrTypeRender},
		{"bad resolution", dates, depths, grid, Config{Resolution: 7, Colormap: Jet}, apperrors.ErrTypeConfig},
		{"bad colormap", dates, depths, grid, Config{Resolution: 10, Colormap: "hot"}, apperrors.ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := Render(tt.dates, tt.depths, tt.grid, tt.cfg)
			assert.Nil(t, fig)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestRender_ConstantAndMaskedFields(t *testing.T) {
	dates, depths, _ := exampleSurvey()

	fig, err := Render(dates, depths, survey.Grid{{3, 3, 3}, {3, 3, 3}}, DefaultConfig())
	require.NoError(t, err)
	assert.LessOrEqual(t, fig.Levels()[0], 3.0)
	assert.GreaterOrEqual(t, fig.Levels()[fig.Bands()], 3.0)

	fig, err = Render(dates, depths, survey.Grid{{1, math.NaN(), 3}, {2, 4, math.Inf(-1)}}, DefaultConfig())
	require.NoError(t, err)
	img := vgimg.New(fig.Width(), fig.Height())
	assert.NotPanics(t, func() { fig.Draw(draw.New(img)) })
}

func TestRender_UnsortedDepths(t *testing.T) {
	dates, _, grid := exampleSurvey()

	fig, err := Render(dates, survey.DepthAxis{1.5, 0.5}, grid, DefaultConfig())
	require.NoError(t, err)
	img := vgimg.New(fig.Width(), fig.Height())
	assert.NotPanics(t, func() { fig.Draw(draw.New(img)) })
}
