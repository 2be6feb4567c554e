package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apperrors "clinocontour/internal/errors"
)

// DPI is the fixed raster resolution of exported images.
const DPI = 250

// Figure is anything that can draw itself at a fixed size.
type Figure interface {
	Draw(c draw.Canvas)
	Width() vg.Length
	Height() vg.Length
}

// PNGWriter rasterises figures to PNG.
type PNGWriter struct {
	dpi    int
	logger *slog.Logger
}

// NewPNGWriter creates a writer at the fixed DPI. A nil logger uses
// slog.Default.
func NewPNGWriter(logger *slog.Logger) *PNGWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PNGWriter{
		dpi:    DPI,
		logger: logger.With(slog.String("component", "png_exporter")),
	}
}

// DPI returns the raster resolution.
func (w *PNGWriter) DPI() int { return w.dpi }

// PixelSize returns the pixel dimensions fig rasterises to.
func (w *PNGWriter) PixelSize(fig Figure) (width, height int) {
	return pixels(fig.Width(), w.dpi), pixels(fig.Height(), w.dpi)
}

func pixels(l vg.Length, dpi int) int {
	return int(l/vg.Inch*vg.Length(dpi) + 0.5)
}

// WriteTo rasterises fig and writes the PNG bytes to out.
func (w *PNGWriter) WriteTo(fig Figure, out io.Writer) (int64, error) {
	img := vgimg.NewWith(
		vgimg.UseWH(fig.Width(), fig.Height()),
		vgimg.UseDPI(w.dpi),
	)
	fig.Draw(draw.New(img))

	n, err := vgimg.PngCanvas{Canvas: img}.WriteTo(out)
	if err != nil {
		return n, apperrors.NewAppError(apperrors.ErrTypeFileAccess, "cannot write png", err)
	}
	return n, nil
}

// Export writes fig to path as a PNG, replacing any existing file. The image
// is written to a temporary file in the same directory and renamed into
// place, so a failed export leaves no partial file behind. The parent
// directory must already exist.
func (w *PNGWriter) Export(fig Figure, path string) error {
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil {
		return apperrors.NewFileAccessError(path, err)
	} else if !info.IsDir() {
		return apperrors.NewFileAccessError(path, fmt.Errorf("%s is not a directory", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewFileAccessError(path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	n, err := w.writeFor(path, fig, tmp)
	if err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewFileAccessError(path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return apperrors.NewFileAccessError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.NewFileAccessError(path, err)
	}
	committed = true

	width, height := w.PixelSize(fig)
	w.logger.Info("Exported contour plot",
		slog.String("file_path", path),
		slog.Int64("bytes", n),
		slog.Int("width_px", width),
		slog.Int("height_px", height),
		slog.Int("dpi", w.dpi))
	return nil
}

// writeFor is WriteTo with the destination path added to any error
func (w *PNGWriter) writeFor(path string, fig Figure, out io.Writer) (int64, error) {
	n, err := w.WriteTo(fig, out)
	if err == nil {
		return n, nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return n, appErr.WithContext(apperrors.KeyPath, path)
	}
	return n, apperrors.NewFileAccessError(path, err)
}
