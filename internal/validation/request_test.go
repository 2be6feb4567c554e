package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/render"
)

func TestRequestValidator_Struct(t *testing.T) {
	rv := NewRequestValidator()

	tests := []struct {
		name       string
		req        PlotRequest
		wantFields []string
	}{
		{
			name: "defaults only",
			req:  PlotRequest{Filename: "survey.csv"},
		},
		{
			name: "values and names",
			req:  PlotRequest{Filename: "BH-01.xlsx", Resolution: "Double", Colormap: "coolwarm", Title: "BH-01"},
		},
		{
			name:       "missing filename",
			req:        PlotRequest{},
			wantFields: []string{"filename"},
		},
		{
			name:       "path traversal",
			req:        PlotRequest{Filename: "../survey.csv"},
			wantFields: []string{"filename"},
		},
		{
			name:       "wrong extension",
			req:        PlotRequest{Filename: "survey.txt"},
			wantFields: []string{"filename"},
		},
		{
			name:       "bad options",
			req:        PlotRequest{Filename: "survey.csv", Resolution: "7", Colormap: "viridis"},
			wantFields: []string{"resolution", "colormap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Struct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfig)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			fields, ok := appErr.Context[apperrors.KeyFields].(map[string]string)
			require.True(t, ok)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestRequestValidator_MessagesListChoices(t *testing.T) {
	err := NewRequestValidator().Struct(PlotRequest{Filename: "s.csv", Resolution: "3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 (Halved)")
	assert.Contains(t, err.Error(), "100 (Squared)")
}

func TestPlotRequest_RenderConfig(t *testing.T) {
	defaults := render.DefaultConfig()

	cfg, err := PlotRequest{Filename: "s.csv"}.RenderConfig(defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)

	cfg, err = PlotRequest{Filename: "s.csv", Resolution: "squared", Colormap: "Greys", Title: "BH-02"}.RenderConfig(defaults)
	require.NoError(t, err)
	assert.Equal(t, render.ResolutionSquared, cfg.Resolution)
	assert.Equal(t, render.GrayR, cfg.Colormap)
	assert.Equal(t, "BH-02", cfg.Title)

	cfg, err = PlotRequest{Filename: "s.csv", Title: "   "}.RenderConfig(defaults)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultTitle, cfg.Title)

	_, err = PlotRequest{Filename: "s.csv", Resolution: "11"}.RenderConfig(defaults)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}
