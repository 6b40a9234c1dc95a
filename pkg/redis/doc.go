// Package redis connects the optional Redis client that backs the shared
// tenant record cache (tenant.NewRedisCache).
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect retries until the server answers PING. Healthcheck builds the check
// added to /readyz.
package redis
