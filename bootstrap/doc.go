// Package bootstrap runs the identity service lifecycle: start the
// registered components in order, run the startup hooks, check readiness,
// block until a shutdown signal, then stop everything in reverse within a
// graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithLogger(log))
//	app.RegisterComponent(db)
//	app.RegisterComponent(grpcServer)
//	return app.Run(ctx)
package bootstrap
