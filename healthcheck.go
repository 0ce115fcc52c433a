package main

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// setupHealthcheckRoutes sets up a healthcheck route. When events are
// received from Redis, the process is only healthy as long as Redis is
// reachable.
func setupHealthcheckRoutes(redisconn *redis.Client) http.Handler {
	hcrouter := http.NewServeMux()

	hcrouter.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		r.Body.Close()

		if redisconn != nil {
			if err := redisconn.Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "Redis unreachable: %s", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	return hcrouter
}
