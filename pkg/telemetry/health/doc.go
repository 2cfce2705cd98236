// Package health serves the liveness, readiness and version endpoints.
//
// /health answers 200 as long as the process can serve requests. /ready runs
// the registered checks (the server registers one that loads the provider
// store) and answers 503 with the failing checks listed when any of them
// fails:
//
//	{
//	    "status": "degraded",
//	    "checks": {"store": {"status": "unhealthy", "message": "database is closed"}},
//	    "timestamp": "2026-01-01T00:00:00Z"
//	}
package health
