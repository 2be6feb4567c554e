// Package http implements the HTTP handlers of the plotting service. Handlers
// stay thin: they decode the multipart upload, delegate to the services
// package, and render either the PNG, a JSON body, or an RFC 7807 problem
// through errors.ErrorHandler.
//
// # Routes
//
//	POST /api/v1/plots            survey upload → image/png
//	POST /api/v1/surveys/inspect  survey upload → JSON summary
//	GET  /api/v1/plots/options    accepted resolutions and colormaps
//	GET  /api/health              liveness
//	GET  /api/version             build information
//
// Uploads are multipart/form-data with the file in the "survey" field and
// optional "title", "resolution", "colormap" and "strict_dates" fields.
package http
