package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"

	apperrors "clinocontour/internal/errors"
)

// Colormap identifies a scalar-to-colour mapping by its conventional name.
type Colormap string

const (
	Jet      Colormap = "jet"
	CoolWarm Colormap = "coolwarm"
	YlOrRd   Colormap = "YlOrRd"
	GrayR    Colormap = "gray_r"
)

// Colormaps lists the accepted colormaps in menu order.
var Colormaps = []Colormap{Jet, CoolWarm, YlOrRd, GrayR}

var colormapNames = map[Colormap]string{
	Jet:      "Default",
	CoolWarm: "Diverge",
	YlOrRd:   "Autumn",
	GrayR:    "Greys",
}

// Valid reports whether c is one of Colormaps.
func (c Colormap) Valid() bool {
	_, ok := colormapNames[c]
	return ok
}

// Name returns the menu name, e.g. "Diverge".
func (c Colormap) Name() string {
	return colormapNames[c]
}

// ParseColormap accepts a colormap identifier ("coolwarm") or its menu name
// ("Diverge"), ignoring case.
func ParseColormap(s string) (Colormap, error) {
	s = strings.TrimSpace(s)
	for c, name := range colormapNames {
		if strings.EqualFold(string(c), s) || strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return "", colormapError(s)
}

func colormapError(s string) error {
	return apperrors.NewConfigError(
		fmt.Sprintf("colormap %q is not one of jet, coolwarm, YlOrRd, gray_r (Default, Diverge, Autumn, Greys)", s), nil).
		WithContext("field", "colormap")
}

// gradient maps t in [0, 1] to a colour.
type gradient func(t float64) color.Color

func (c Colormap) gradient() (gradient, error) {
	switch c {
	case Jet:
		return jet, nil
	case CoolWarm:
		cm := moreland.SmoothBlueRed()
		cm.SetMin(0)
		cm.SetMax(1)
		return func(t float64) color.Color {
			col, err := cm.At(clamp01(t))
			if err != nil {
				return color.Black
			}
			return col
		}, nil
	case YlOrRd:
		p, err := brewer.GetPalette(brewer.TypeAny, "YlOrRd", 9)
		if err != nil {
			return nil, apperrors.NewRenderError("YlOrRd palette unavailable", err)
		}
		return interpolate(p.Colors()), nil
	case GrayR:
		return func(t float64) color.Color {
			v := uint8(math.Round(255 * (1 - clamp01(t))))
			return color.RGBA{R: v, G: v, B: v, A: 255}
		}, nil
	}
	return nil, colormapError(string(c))
}

// segment is one breakpoint of a piecewise-linear channel.
type segment struct{ x, y float64 }

var (
	jetRed   = []segment{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}}
	jetGreen = []segment{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}}
	jetBlue  = []segment{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}}
)

func jet(t float64) color.Color {
	t = clamp01(t)
	return color.RGBA{
		R: channel(jetRed, t),
		G: channel(jetGreen, t),
		B: channel(jetBlue, t),
		A: 255,
	}
}

func channel(segs []segment, t float64) uint8 {
	for i := 1; i < len(segs); i++ {
		if t <= segs[i].x {
			a, b := segs[i-1], segs[i]
			v := a.y + (b.y-a.y)*(t-a.x)/(b.x-a.x)
			return uint8(math.Round(255 * v))
		}
	}
	return uint8(math.Round(255 * segs[len(segs)-1].y))
}

// interpolate builds a gradient through evenly spaced colour stops.
func interpolate(stops []color.Color) gradient {
	return func(t float64) color.Color {
		t = clamp01(t)
		pos := t * float64(len(stops)-1)
		i := int(math.Floor(pos))
		if i >= len(stops)-1 {
			return stops[len(stops)-1]
		}
		f := pos - float64(i)
		r0, g0, b0, _ := stops[i].RGBA()
		r1, g1, b1, _ := stops[i+1].RGBA()
		mix := func(a, b uint32) uint8 {
			return uint8(math.Round((float64(a) + (float64(b)-float64(a))*f) / 257))
		}
		return color.RGBA{R: mix(r0, r1), G: mix(g0, g1), B: mix(b0, b1), A: 255}
	}
}

func clamp01(t float64) float64 {
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	}
	return t
}
