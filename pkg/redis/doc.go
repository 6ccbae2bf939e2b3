// Package redis opens [github.com/redis/go-redis/v9] clients with retry,
// and provides the readiness check and shutdown hook a shipy app wires in.
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	if err != nil {
//		return err
//	}
//
//	app := shipy.New(
//		shipy.WithHealthChecks(shipy.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	)
//	app.Run(":8000", shipy.ShutdownHook(redis.Shutdown(client)))
//
// The throttle package stores login failures in Redis through the same client.
package redis
