// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
)

type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}

	return limiter
}

// Handler answers 429 once a client exceeds its budget. Clients are keyed by RemoteAddr,
// so mount middleware.RealIP first when running behind a proxy.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(r.RemoteAddr).Allow() {
			slog.Warn("rate limit exceeded", "key", r.RemoteAddr, "method", r.Method, "path", r.URL.Path)
			response.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})

			return
		}

		next.ServeHTTP(w, r)
	})
}
