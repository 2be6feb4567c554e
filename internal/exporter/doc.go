// Package exporter writes rendered contour figures to disk.
//
// PNGWriter rasterises any Figure at a fixed 250 DPI. Export replaces the
// target file atomically: the image is written to a temporary file next to
// the target and renamed over it, so re-exporting to the same path simply
// overwrites the previous image and a failed export leaves nothing behind.
// WriteTo streams the same bytes to any io.Writer, which the HTTP service
// uses to answer plot requests.
//
// Example usage:
//
//	fig, err := render.Render(s.Dates, s.Depths, s.Grid, render.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	err = exporter.NewPNGWriter(logger).Export(fig, "survey.png")
package exporter
