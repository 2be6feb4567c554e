package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// vertex is a point of the surface with its scalar value.
type vertex struct {
	x, y, z float64
}

// filledContour draws a scalar field sampled on a rectilinear grid as filled
// bands. Each grid cell is split into two triangles; within a triangle the
// field is linear, so a band is the triangle clipped to lo <= z <= hi.
// Triangles touching a non-finite sample are left empty.
type filledContour struct {
	xs, ys []float64
	z      [][]float64
	bands  *bandMap
}

var (
	_ plot.Plotter    = (*filledContour)(nil)
	_ plot.DataRanger = (*filledContour)(nil)
)

// seam is the outline stroked around each band fragment so that
// antialiasing does not leave hairline gaps between neighbours.
var seam = vg.Points(0.25)

func (f *filledContour) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for i := 0; i+1 < len(f.ys); i++ {
		for j := 0; j+1 < len(f.xs); j++ {
			a := vertex{f.xs[j], f.ys[i], f.z[i][j]}
			b := vertex{f.xs[j+1], f.ys[i], f.z[i][j+1]}
			d := vertex{f.xs[j+1], f.ys[i+1], f.z[i+1][j+1]}
			e := vertex{f.xs[j], f.ys[i+1], f.z[i+1][j]}

			f.fillTriangle(&c, trX, trY, []vertex{a, b, d})
			f.fillTriangle(&c, trX, trY, []vertex{a, d, e})
		}
	}
}

func (f *filledContour) fillTriangle(c *draw.Canvas, trX, trY func(float64) vg.Length, tri []vertex) {
	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, v := range tri {
		if !finite(v.z) {
			return
		}
		zmin = math.Min(zmin, v.z)
		zmax = math.Max(zmax, v.z)
	}

	levels := f.bands.levels
	for k := f.bands.band(zmin); k < len(levels)-1; k++ {
		lo, hi := levels[k], levels[k+1]
		if lo > zmax {
			break
		}
		poly := clipBand(tri, lo, hi)
		if len(poly) < 3 {
			continue
		}

		pts := make([]vg.Point, len(poly))
		for i, v := range poly {
			pts[i] = vg.Point{X: trX(v.x), Y: trY(v.y)}
		}
		fill := f.bands.colors[k]
		c.FillPolygon(fill, pts)
		c.StrokeLines(draw.LineStyle{Color: fill, Width: seam}, append(pts, pts[0]))
	}
}

// clipBand returns the part of the convex polygon poly where lo <= z <= hi.
func clipBand(poly []vertex, lo, hi float64) []vertex {
	poly = clipLevel(poly, lo, true)
	if len(poly) < 3 {
		return nil
	}
	return clipLevel(poly, hi, false)
}

// clipLevel is one Sutherland-Hodgman pass against the plane z = level,
// keeping z >= level when above is set and z <= level otherwise.
func clipLevel(poly []vertex, level float64, above bool) []vertex {
	inside := func(v vertex) bool {
		if above {
			return v.z >= level
		}
		return v.z <= level
	}

	out := make([]vertex, 0, len(poly)+2)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			out = append(out, crossing(prev, cur, level))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// crossing interpolates the point on segment ab where z equals level.
func crossing(a, b vertex, level float64) vertex {
	t := (level - a.z) / (b.z - a.z)
	return vertex{
		x: a.x + t*(b.x-a.x),
		y: a.y + t*(b.y-a.y),
		z: level,
	}
}

func (f *filledContour) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = span(f.xs)
	ymin, ymax = span(f.ys)
	return xmin, xmax, ymin, ymax
}

func span(vs []float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fieldRange returns the smallest and largest finite values of z.
func fieldRange(z [][]float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range z {
		for _, v := range row {
			if !finite(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
			ok = true
		}
	}
	return min, max, ok
}
