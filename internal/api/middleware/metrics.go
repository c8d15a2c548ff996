package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters holds the running request totals surfaced by the metrics endpoint.
// The zero value is ready to use.
type Counters struct {
	Requests     atomic.Int64
	ClientErrors atomic.Int64
	ServerErrors atomic.Int64
}

// Count returns middleware that tallies every request and classifies its
// outcome by status: 4xx as a client error, 5xx as a server error.
func Count(c *Counters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Requests.Add(1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			switch {
			case rw.statusCode >= 500:
				c.ServerErrors.Add(1)
			case rw.statusCode >= 400:
				c.ClientErrors.Add(1)
			}
		})
	}
}
