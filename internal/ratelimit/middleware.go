package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// KeyFunc derives the rate-limiting key for a request, normally the client
// address.
type KeyFunc func(r *http.Request) string

// Options configures the rate-limiting middleware.
type Options struct {
	Store      *Store
	Stats      StatsRecorder
	KeyFn      KeyFunc
	RetryAfter time.Duration
}

// Middleware rejects requests whose client bucket is drained with 429 and a
// Retry-After hint. Allowed and denied decisions are recorded in the stats
// store when one is configured.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			allowed := opts.Store.Get(key).Allow()

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
