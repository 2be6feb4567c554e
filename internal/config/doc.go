// Package config provides configuration management for the contour plotter.
// It loads settings from layered sources, validates them, and exposes a
// typed Config to the CLI and the HTTP service.
//
// # Configuration Sources
//
// Configuration is built from the following sources, later ones winning:
//
//	1. Default() values
//	2. A YAML file: the path passed to Load, or the first of
//	   clinocontour.yaml and configs/clinocontour.yaml found in the working
//	   directory or next to the executable
//	3. Environment variables
//
// # Environment Variables
//
// Environment variables are prefixed with CLINO_ and follow the struct
// nesting:
//
//	CLINO_SERVER_PORT=8080
//	CLINO_LOGGING_LEVEL=debug
//	CLINO_RENDER_COLORMAP=coolwarm
//	CLINO_SECURITY_RATE_LIMIT_RPS=5
//
// # Validation
//
// Load validates the merged result and reports problems as CONFIG errors
// from the errors package. Render defaults accept both values ("25",
// "coolwarm") and menu names ("Double", "Diverge").
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
