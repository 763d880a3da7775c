package limiter

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DynamicRateLimiter is a token bucket whose rate can be changed at runtime.
type DynamicRateLimiter struct {
	limiter *rate.Limiter
}

// NewDynamicRateLimiter allows one event per interval with the given burst.
func NewDynamicRateLimiter(interval time.Duration, burst int) *DynamicRateLimiter {
	return &DynamicRateLimiter{limiter: rate.NewLimiter(rate.Every(interval), burst)}
}

func (drl *DynamicRateLimiter) Allow() bool {
	return drl.limiter.Allow()
}

// Update changes rate and burst. Safe for concurrent use.
func (drl *DynamicRateLimiter) Update(interval time.Duration, burst int) {
	drl.limiter.SetLimit(rate.Every(interval))
	drl.limiter.SetBurst(burst)
}

// Middleware rejects requests once the bucket is empty by calling onLimit.
func (drl *DynamicRateLimiter) Middleware(onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !drl.Allow() {
				w.Header().Set("Retry-After", "1")
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
