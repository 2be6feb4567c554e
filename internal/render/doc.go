// Package render draws inclinometer readings as a filled contour plot.
//
// Render takes the date axis, the depth axis and the reading grid produced
// by the survey package and returns a Figure: time runs left to right with
// dd/mm/yyyy tick labels, depth increases downwards, and a colour key
// labelled "Inclination" sits on the right.
//
// The number of bands is chosen from the requested Resolution by rounding
// the band width to 1, 2, 2.5 or 5 times a power of ten, so a figure may
// show slightly fewer bands than requested. Readings that are NaN or
// infinite leave a hole in the surface.
//
// Config values come from a fixed menu: resolutions 5, 10, 25 and 100
// (Halved, Default, Double, Squared) and the colormaps jet, coolwarm, YlOrRd
// and gray_r (Default, Diverge, Autumn, Greys). Anything else is a
// CONFIG error.
package render
