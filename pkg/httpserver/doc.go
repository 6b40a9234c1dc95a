// Package httpserver runs the service's HTTP listener and exposes the
// liveness and readiness handlers.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg, log)
//	if err := srv.Run(ctx, handler); err != nil {
//		return err
//	}
//
// Run returns once ctx is cancelled and in-flight requests finished, or after
// ShutdownTimeout.
package httpserver
