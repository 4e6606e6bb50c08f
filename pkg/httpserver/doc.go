// Package httpserver wraps net/http with graceful shutdown, timeouts from
// environment configuration and health-check handlers.
//
// Run blocks until its context is cancelled or Shutdown is called. On
// shutdown the base context of every in-flight request is cancelled first,
// which lets streaming handlers return, and then http.Server.Shutdown waits
// up to the configured deadline for the rest.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	router.Get("/healthz", httpserver.LivenessHandler())
//	router.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
//	err := srv.Run(ctx, router)
//
// Ready and Addr report when and where the server listens, which lets tests
// bind to port 0.
//
// Errors are wrapped with ErrStart and ErrShutdown for errors.Is checks.
package httpserver
