// Package services implements the business logic behind the HTTP API.
// Handlers decode requests and render responses; services validate the
// plot options, drive the survey pipeline and shape the results.
//
// # Available Services
//
//	- PlotService: renders uploaded surveys to PNG, summarises them, and
//	  lists the accepted plot options
//	- HealthService: liveness and build information
//
// # Error Handling
//
// Services return the typed errors of internal/errors unchanged, so the
// HTTP layer can map each failure kind to its problem document:
//
//	- CONFIG for rejected plot options
//	- MALFORMED_TABLE, DATE_PARSE, NUMERIC_PARSE for unusable surveys
//	- RENDER when a survey cannot be contoured
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, pipeline.WithSource("http"))
//	svc := services.NewPlotService(runner, render.DefaultConfig(), logger)
//
//	var buf bytes.Buffer
//	result, err := svc.Plot(ctx, validation.PlotRequest{Filename: "bh1.csv"}, file, &buf)
package services
