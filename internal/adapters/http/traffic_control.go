package httpadapter

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client address and forgets
// clients idle for longer than limiterIdleTTL.
type clientLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientLimiter
	swept   time.Time
}

func (c *clientLimiters) get(key string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.swept) > limiterIdleTTL {
		for k, v := range c.clients {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(c.clients, k)
			}
		}
		c.swept = now
	}

	entry, ok := c.clients[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func rateLimitMiddleware(next http.Handler, rps float64, burst int, onReject func(string)) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = int(math.Ceil(rps))
	}
	limiters := &clientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		reservation := limiters.get(clientKey(r), now).ReserveN(now, 1)
		if !reservation.OK() {
			rejectTooManyRequests(w, time.Second, onReject)
			return
		}
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			rejectTooManyRequests(w, delay, onReject)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rejectTooManyRequests(w http.ResponseWriter, retryAfter time.Duration, onReject func(string)) {
	if onReject != nil {
		onReject("rate_limit")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// backpressureMiddleware admits at most maxInFlight concurrent requests and
// waits up to wait for a free slot before answering 503.
func backpressureMiddleware(next http.Handler, maxInFlight int, wait time.Duration, onReject func(string)) http.Handler {
	if maxInFlight <= 0 {
		return next
	}
	slots := make(chan struct{}, maxInFlight)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case slots <- struct{}{}:
		case <-timer.C:
			if onReject != nil {
				onReject("backpressure")
			}
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "server is busy, retry later")
			return
		case <-r.Context().Done():
			return
		}
		defer func() { <-slots }()

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
