// Package redis connects to Redis for the shared email rate-limit store.
//
// Connect retries the initial ping using Config, which is populated from
// REDIS_* environment variables. Healthcheck returns a ping function for
// readiness probes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	limiter, err := ratelimit.NewFromConfig(rlCfg, client)
package redis
