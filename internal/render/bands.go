package render

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/palette"
)

// bandMap is a stepped palette.ColorMap: every value between two adjacent
// levels gets that band's colour. It drives the colour key so the key shows
// exactly the bands drawn on the surface.
type bandMap struct {
	levels []float64
	colors []color.Color
	alpha  float64
}

var _ palette.ColorMap = (*bandMap)(nil)

// newBandMap colours band k with the gradient at the band's midpoint,
// normalised over the full level range.
func newBandMap(levels []float64, g gradient) *bandMap {
	lo, hi := levels[0], levels[len(levels)-1]
	colors := make([]color.Color, len(levels)-1)
	for k := range colors {
		mid := (levels[k] + levels[k+1]) / 2
		colors[k] = g((mid - lo) / (hi - lo))
	}
	return &bandMap{levels: levels, colors: colors, alpha: 1}
}

// band returns the index of the band holding v, clamped to the outer bands.
func (m *bandMap) band(v float64) int {
	inner := m.levels[1 : len(m.levels)-1]
	return sort.Search(len(inner), func(i int) bool { return inner[i] > v })
}

func (m *bandMap) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, palette.ErrNaN
	}
	tol := (m.Max() - m.Min()) * 1e-9
	if v < m.Min()-tol {
		return nil, palette.ErrUnderflow
	}
	if v > m.Max()+tol {
		return nil, palette.ErrOverflow
	}
	return m.withAlpha(m.colors[m.band(v)]), nil
}

func (m *bandMap) withAlpha(c color.Color) color.Color {
	if m.alpha >= 1 {
		return c
	}
	r, g, b, _ := c.RGBA()
	a := m.alpha
	return color.NRGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a * 0xffff)}
}

func (m *bandMap) Min() float64 { return m.levels[0] }
func (m *bandMap) Max() float64 { return m.levels[len(m.levels)-1] }

// SetMin and SetMax rescale the levels linearly onto the new range.
func (m *bandMap) SetMin(v float64) { m.rescale(v, m.Max()) }
func (m *bandMap) SetMax(v float64) { m.rescale(m.Min(), v) }

func (m *bandMap) rescale(lo, hi float64) {
	oldLo, oldHi := m.Min(), m.Max()
	if oldHi == oldLo {
		return
	}
	scaled := make([]float64, len(m.levels))
	for i, l := range m.levels {
		scaled[i] = lo + (l-oldLo)*(hi-lo)/(oldHi-oldLo)
	}
	m.levels = scaled
}

func (m *bandMap) Alpha() float64     { return m.alpha }
func (m *bandMap) SetAlpha(a float64) { m.alpha = a }

// Palette returns one colour per band; n is ignored because the map is
// discrete.
func (m *bandMap) Palette(n int) palette.Palette {
	colors := make([]color.Color, len(m.colors))
	for i, c := range m.colors {
		colors[i] = m.withAlpha(c)
	}
	return bandPalette(colors)
}

type bandPalette []color.Color

func (p bandPalette) Colors() []color.Color { return p }
