package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/survey"
)

const (
	// Width and Height are the figure size.
	Width  = 5 * vg.Inch
	Height = 3 * vg.Inch

	// DateFormat labels the time axis.
	DateFormat = "02/01/2006"

	keyWidth      = 1.0 * vg.Inch
	maxDateTicks  = 6
	maxLevelTicks = 11
	tickFontSize  = 8
)

// Figure is a rendered contour plot: the surface with its axes on the left
// and the colour key on the right. It is drawn onto any vg canvas.
type Figure struct {
	surface *plot.Plot
	key     *plot.Plot
	levels  []float64
	cfg     Config
}

// Width and Height report the intended size of the figure.
func (f *Figure) Width() vg.Length  { return Width }
func (f *Figure) Height() vg.Length { return Height }

// Title returns the plot title.
func (f *Figure) Title() string { return f.surface.Title.Text }

// Levels returns the contour band boundaries, ascending.
func (f *Figure) Levels() []float64 {
	return append([]float64(nil), f.levels...)
}

// Bands returns the number of filled bands.
func (f *Figure) Bands() int { return len(f.levels) - 1 }

// Config returns the options the figure was rendered with.
func (f *Figure) Config() Config { return f.cfg }

// Draw lays the surface and key out side by side on c. The key is stretched
// vertically so its bar spans exactly the surface's data area.
func (f *Figure) Draw(c draw.Canvas) {
	width := c.Max.X - c.Min.X

	main := draw.Crop(c, 0, -keyWidth, 0, 0)
	f.surface.Draw(main)
	data := f.surface.DataCanvas(main)

	key := draw.Crop(c, width-keyWidth, 0, 0, 0)
	key.Min.Y, key.Max.Y = data.Min.Y, data.Max.Y
	inner := f.key.DataCanvas(key)
	key.Min.Y -= inner.Min.Y - data.Min.Y
	key.Max.Y += data.Max.Y - inner.Max.Y
	f.key.Draw(key)
}

// Render builds the contour figure of grid over dates and depths.
// grid[i][j] is the reading at depths[i] on dates[j].
func Render(dates survey.DateAxis, depths survey.DepthAxis, grid survey.Grid, cfg Config) (*Figure, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape(dates, depths, grid); err != nil {
		return nil, err
	}

	zmin, zmax, ok := fieldRange(grid)
	if !ok {
		return nil, apperrors.NewRenderError("grid has no finite readings", nil)
	}

	g, err := cfg.Colormap.gradient()
	if err != nil {
		return nil, err
	}
	levels := Levels(zmin, zmax, int(cfg.Resolution))
	bands := newBandMap(levels, g)

	xs := make([]float64, len(dates))
	for j, d := range dates {
		xs[j] = unixSeconds(d)
	}

	surface := plot.New()
	surface.Title.Text = cfg.Title
	surface.Add(&filledContour{xs: xs, ys: depths, z: grid, bands: bands})

	surface.X.Tick.Marker = dateTicks{format: DateFormat, maxTicks: maxDateTicks}
	surface.X.Tick.Label.Font.Size = vg.Points(tickFontSize)
	surface.X.Tick.Label.Rotation = math.Pi / 6
	surface.X.Tick.Label.XAlign = draw.XRight
	surface.X.Tick.Label.YAlign = draw.YCenter

	surface.Y.Label.Text = "Depth (m)"
	surface.Y.Tick.Label.Font.Size = vg.Points(tickFontSize)
	surface.Y.Scale = plot.InvertedScale{Normalizer: surface.Y.Scale}

	key := plot.New()
	key.Add(&plotter.ColorBar{ColorMap: bands, Vertical: true})
	key.HideX()
	key.Y.Label.Text = "Inclination"
	key.Y.Tick.Marker = levelTicks(levels, maxLevelTicks)
	key.Y.Tick.Label.Font.Size = vg.Points(tickFontSize)

	return &Figure{surface: surface, key: key, levels: levels, cfg: cfg}, nil
}

func checkShape(dates survey.DateAxis, depths survey.DepthAxis, grid survey.Grid) error {
	if grid.Rows() == 0 || grid.Cols() == 0 {
		return apperrors.NewRenderError("grid is empty", nil)
	}
	if grid.Rows() != len(depths) || grid.Cols() != len(dates) {
		return apperrors.NewRenderError(fmt.Sprintf(
			"grid is %dx%d but axes have %d depths and %d dates",
			grid.Rows(), grid.Cols(), len(depths), len(dates)), nil)
	}
	for i, row := range grid {
		if len(row) != len(dates) {
			return apperrors.NewRenderError(fmt.Sprintf(
				"grid row %d has %d readings, want %d", i, len(row), len(dates)), nil).
				WithContext(apperrors.KeyRow, i+1)
		}
	}
	if len(dates) < 2 || len(depths) < 2 {
		return apperrors.NewRenderError(fmt.Sprintf(
			"a contour needs at least 2 dates and 2 depths, got %d and %d", len(dates), len(depths)), nil)
	}
	return nil
}
