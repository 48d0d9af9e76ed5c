package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"healthmed-scheduler/pkg/response"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitMiddleware applies a token bucket per client IP.
type RateLimitMiddleware struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	log     *logrus.Logger
}

func NewRateLimitMiddleware(rps float64, burst int, log *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		log:     log,
	}
}

// StartCleanup drops limiters not seen for maxIdle, checking every interval,
// until ctx is done.
func (m *RateLimitMiddleware) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.cleanup(maxIdle)
			}
		}
	}()
}

func (m *RateLimitMiddleware) cleanup(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ip, c := range m.clients {
		if time.Since(c.seen) > maxIdle {
			delete(m.clients, ip)
		}
	}
}

func (m *RateLimitMiddleware) get(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(m.r, m.burst)
	m.clients[ip] = &client{lim: l, seen: time.Now()}
	return l
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !m.get(ip).Allow() {
			m.log.Warnf("Rate limit exceeded: ip=%s path=%s", ip, r.URL.Path)
			response.Error(w, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys on the connection address. Forwarding headers are client
// controlled and are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
