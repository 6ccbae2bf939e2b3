// Package health runs readiness checks for the services an app depends on.
//
// A check is any func(context.Context) error; db.Healthcheck and
// redis.Healthcheck produce them. [Run] executes a set of [Checks] in parallel
// with a shared timeout. [ReadinessHandler] serves the result over HTTP:
//
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Plain text by default ("OK" / "Service Unavailable"). JSON is returned for
// Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// Liveness is not handled here: the app answers /health itself.
package health
