package services

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/pipeline"
	"clinocontour/internal/render"
	"clinocontour/internal/shared/testutil"
	"clinocontour/internal/validation"
)

func newTestPlotService(t *testing.T) (*PlotService, *pipeline.Recorder) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	recorder := &pipeline.Recorder{}
	runner := pipeline.NewRunner(logger, pipeline.WithObserver(recorder), pipeline.WithSource("http"))
	return NewPlotService(runner, render.DefaultConfig(), logger), recorder
}

func TestPlotService_Plot(t *testing.T) {
	svc, recorder := newTestPlotService(t)

	var out bytes.Buffer
	result, err := svc.Plot(context.Background(), validation.PlotRequest{
		Filename:   "bh1.csv",
		Resolution: "Double",
		Colormap:   "Greys",
		Title:      "BH1",
	}, strings.NewReader(testutil.ExampleSurvey), &out)
	require.NoError(t, err)

	assert.Equal(t, int64(out.Len()), result.Bytes)
	assert.Equal(t, render.ResolutionDouble, result.Figure.Config().Resolution)
	assert.Equal(t, render.GrayR, result.Figure.Config().Colormap)

	img, err := png.DecodeConfig(&out)
	require.NoError(t, err)
	assert.Equal(t, 1250, img.Width)

	stageEvents := recorder.Events()
	require.NotEmpty(t, stageEvents)
	assert.Equal(t, "http", stageEvents[0].Source)
}

func TestPlotService_PlotErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      validation.PlotRequest
		body     string
		wantType apperrors.ErrorType
	}{
		{
			name:     "unknown colormap",
			req:      validation.PlotRequest{Filename: "bh1.csv", Colormap: "viridis"},
			body:     testutil.ExampleSurvey,
			wantType: apperrors.ErrTypeConfig,
		},
		{
			name:     "wrong extension",
			req:      validation.PlotRequest{Filename: "bh1.txt"},
			body:     testutil.ExampleSurvey,
			wantType: apperrors.ErrTypeConfig,
		},
		{
			name:     "bad date",
			req:      validation.PlotRequest{Filename: "bh1.csv"},
			body:     testutil.BadDateSurvey,
			wantType: apperrors.ErrTypeDateParse,
		},
		{
			name:     "strict dates",
			req:      validation.PlotRequest{Filename: "bh1.csv", StrictDates: true},
			body:     testutil.ExampleSurvey,
			wantType: apperrors.ErrTypeMalformedTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPlotService(t)

			var out bytes.Buffer
			_, err := svc.Plot(context.Background(), tt.req, strings.NewReader(tt.body), &out)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			assert.Zero(t, out.Len())
		})
	}
}

func TestPlotService_Inspect(t *testing.T) {
	svc, _ := newTestPlotService(t)

	summary, err := svc.Inspect(context.Background(),
		validation.PlotRequest{Filename: "bh1.csv"},
		strings.NewReader(testutil.ExampleSurvey))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Dates)
	assert.Equal(t, 3, summary.Depths)
	assert.Equal(t, 9, summary.Readings)
	assert.Equal(t, 0.5, summary.MinDepth)
	assert.Equal(t, 2.5, summary.MaxDepth)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 2.2, summary.Max)
	assert.Equal(t, 1, int(summary.FirstDate.Month()))

	_, err = svc.Inspect(context.Background(),
		validation.PlotRequest{Filename: "bh1.csv"},
		strings.NewReader(testutil.BadDateSurvey))
	assert.Equal(t, apperrors.ErrTypeDateParse, apperrors.TypeOf(err))
}

func TestPlotService_Options(t *testing.T) {
	svc, _ := newTestPlotService(t)
	opts := svc.Options()

	require.Len(t, opts.Resolutions, 4)
	assert.Equal(t, Choice{Value: "5", Name: "Halved"}, opts.Resolutions[0])
	require.Len(t, opts.Colormaps, 4)
	assert.Equal(t, Choice{Value: "jet", Name: "Default"}, opts.Colormaps[0])
	assert.Equal(t, "10", opts.DefaultResolution)
	assert.Equal(t, "jet", opts.DefaultColormap)
	assert.Equal(t, render.DefaultTitle, opts.DefaultTitle)
}
