// Package app wires the plotting HTTP service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and initialises the logger
//	2. NewApplication validates the configuration and starts OpenTelemetry
//	3. The WebSocket hub, pipeline runner and services are created
//	4. The chi router and middleware chain are assembled
//	5. Run listens, serves, and shuts down on SIGINT/SIGTERM
//
// # Middleware Order
//
//	RequestID → RealIP → Recovery → [/ws, /metrics]
//	           → OTel → ErrorMiddleware → SecurityHeaders → CORS → RateLimiter → Timeout → /api
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	logger, err := infrastructure.InitializeLogger(cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(context.Background())
package app
