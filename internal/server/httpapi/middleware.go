package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mlodewijk/modcat/internal/common"
	"github.com/mlodewijk/modcat/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// principalFromContext returns the authenticated user stored by the
// authenticate middleware, or nil when the request was not authenticated.
func principalFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(principalKey).(*models.User)
	return u
}

// extractBearerToken pulls the token out of the Authorization header.
// Returns common.ErrNoToken when the header is absent or not a bearer scheme.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
		return "", common.ErrNoToken
	}
	token := strings.TrimPrefix(header, common.BearerPrefix)
	if token == "" {
		return "", common.ErrNoToken
	}
	return token, nil
}

// authenticate verifies the bearer token and re-fetches the user behind its
// subject on every request, so a deleted account is rejected immediately.
// The resolved user is stored in the request context for handlers.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, KindUnauthorized, "Missing token")
			return
		}

		claims, err := s.auth.VerifyToken(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token expired"
			}
			writeError(w, http.StatusUnauthorized, KindUnauthorized, msg)
			return
		}

		user, err := s.auth.ResolvePrincipal(r.Context(), claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, KindUnauthorized, "Unknown principal")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimiter hands out one token bucket per client address.
type rateLimiter struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	perMinute int
	burst     int
}

func newRateLimiter(perMinute, burst int) *rateLimiter {
	return &rateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
		burst:     burst,
	}
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rl.perMinute)/60, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// rateLimit throttles the credential endpoints per client IP.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter.get(host).Allow() {
			writeError(w, http.StatusTooManyRequests, KindRateLimited, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// logging records every request with its outcome and duration.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}
