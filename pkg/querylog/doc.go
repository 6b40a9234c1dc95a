// Package querylog prints the SQL executed by each request to a developer
// terminal.
//
// Install Tracer on the pgx pool and Middleware in the request pipeline:
//
//	pool, err := pg.Connect(ctx, cfg.Postgres, pg.WithTracer(querylog.Tracer{}))
//	handler = querylog.Middleware(cfg.Debug)(handler)
//
// Queries are only collected for requests that went through an enabled
// Middleware, so the tracer costs a context lookup otherwise.
package querylog
