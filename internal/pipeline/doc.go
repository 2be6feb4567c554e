// Package pipeline runs a survey through its stages: load the table, build
// the date and depth axes, assemble the grid, render the contour figure and
// export the PNG. Any failure ends the run and nothing partial is written.
//
// Each run gets a UUID, an OpenTelemetry span with one child span per
// stage, and stage timings on the metrics it was given. Observers see a
// StageEvent as every stage completes or fails; the WebSocket hub is one.
//
//	runner := pipeline.NewRunner(logger, pipeline.WithMetrics(metrics))
//	result, err := runner.Run(ctx, pipeline.Request{
//	    InputPath:  "survey.csv",
//	    OutputPath: "survey.png",
//	    Config:     render.DefaultConfig(),
//	})
package pipeline
