// Package httpserver runs the storefront HTTP server with graceful shutdown
// and provides liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
//
// Run returns once ctx is cancelled and in-flight requests have finished or
// ShutdownTimeout elapsed.
package httpserver
