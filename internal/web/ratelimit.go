package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client's limiter is kept after its last request.
const clientIdleTTL = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	rps     rate.Limit
	burst   int
	now     func() time.Time
	sweptAt time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*clientEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.sweptAt) > clientIdleTTL {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > clientIdleTTL {
				delete(l.clients, k)
			}
		}
		l.sweptAt = now
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimit throttles mutating requests only; page views are never limited.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.allow(clientIP(r)) {
			s.metrics.rateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
