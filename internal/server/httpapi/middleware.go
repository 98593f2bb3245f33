package httpapi

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/rosvit/journal-backend/internal/logging"
	"github.com/rosvit/journal-backend/internal/server/auth"
	"github.com/rosvit/journal-backend/internal/server/metrics"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the authenticated caller set by the
// authentication middleware, or nil outside protected routes.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

// authenticate resolves the Authorization header and stores the caller
// identity in the request context. All resolver failures answer 401, with the
// specific sentinel in the body.
func authenticate(resolver *auth.Resolver, logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r.Header.Get("Authorization"))
			if err != nil {
				writeError(r.Context(), w, logger, err)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder wraps http.ResponseWriter to capture the final status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// instrument logs every finished request and records it in the collector,
// labeled with the chi route pattern rather than the raw path so ids do not
// explode the metric cardinality.
func instrument(logger logging.Logger, collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			collector.RecordRequest(r.Method, route, rec.statusCode, duration)
			logger.Info(r.Context(), "request handled",
				"method", r.Method,
				"route", route,
				"status", rec.statusCode,
				"duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond),
			)
		})
	}
}

// ipLimiter tracks one rate limiter per client IP, with idle entries evicted
// so the map does not grow without bound.
type ipLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	limiters map[string]*ipEntry
}

type ipEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newIPLimiter(limit rate.Limit, burst int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		limiters: make(map[string]*ipEntry),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.limiters[ip]
	if !ok {
		for key, e := range l.limiters {
			if now.Sub(e.lastAccess) > l.ttl {
				delete(l.limiters, key)
			}
		}
		entry = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = now

	return entry.limiter.Allow()
}

// rateLimit throttles requests per client IP. It guards the credential
// endpoints, where unauthenticated callers can otherwise probe passwords.
func rateLimit(limiter *ipLimiter, logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.allow(ip) {
				logger.Warn(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeJSON(r.Context(), w, logger, http.StatusTooManyRequests,
					errorResponse{Error: "too many requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
