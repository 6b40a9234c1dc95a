// Package pg opens the PostgreSQL pool used by the postgres storage driver.
//
//	pool, err := pg.Connect(ctx, cfg, pg.WithTracer(querylog.Tracer{}))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, migrations.Dir, log); err != nil {
//		return err
//	}
//
// Connect retries while the database is starting up. Healthcheck builds the
// readiness check mounted on /readyz. The Is*Error helpers classify pgx and
// *pgconn.PgError failures so storage code can map them to domain errors.
package pg
