package exporter

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/render"
	"clinocontour/internal/survey"
)

func exampleFigure(t *testing.T) *render.Figure {
	t.Helper()
	dates := survey.DateAxis{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	fig, err := render.Render(dates, survey.DepthAxis{0.5, 1.5},
		survey.Grid{{1.1, 1.3, 1.0}, {2.2, 2.0, 1.9}}, render.DefaultConfig())
	require.NoError(t, err)
	return fig
}

func TestPNGWriter_WriteTo(t *testing.T) {
	w := NewPNGWriter(nil)
	var buf bytes.Buffer

	n, err := w.WriteTo(exampleFigure(t), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1250, img.Bounds().Dx())
	assert.Equal(t, 750, img.Bounds().Dy())
}

func TestPNGWriter_PixelSize(t *testing.T) {
	width, height := NewPNGWriter(nil).PixelSize(exampleFigure(t))

	assert.Equal(t, 1250, width)
	assert.Equal(t, 750, height)
	assert.Equal(t, 250, NewPNGWriter(nil).DPI())
}

func TestPNGWriter_ExportOverwrites(t *testing.T) {
	w := NewPNGWriter(nil)
	fig := exampleFigure(t)
	path := filepath.Join(t.TempDir(), "survey.png")

	require.NoError(t, w.Export(fig, path))
	first, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, first.Size(), int64(0))

	require.NoError(t, w.Export(fig, path))
	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, second.Size(), int64(0))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestPNGWriter_ExportMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "survey.png")

	err := NewPNGWriter(nil).Export(exampleFigure(t), path)

	assert.ErrorIs(t, err, apperrors.ErrFileAccess)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPNGWriter_ExportParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	err := NewPNGWriter(nil).Export(exampleFigure(t), filepath.Join(parent, "survey.png"))

	assert.ErrorIs(t, err, apperrors.ErrFileAccess)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPNGWriter_WriteErrorCarriesPathOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.png")

	_, err := NewPNGWriter(nil).writeFor(path, exampleFigure(t), failingWriter{})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeFileAccess, appErr.Type)
	assert.Equal(t, path, appErr.Context[apperrors.KeyPath])
	assert.Equal(t, 1, strings.Count(err.Error(), "[FILE_ACCESS]"), err.Error())
	assert.Contains(t, err.Error(), "disk full")
}
