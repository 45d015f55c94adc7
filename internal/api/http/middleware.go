package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"renthub-backend/internal/config"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"
)

var errUnauthenticated = errors.New("authorization token is not provided")

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil on public routes
// called without a token.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "path", r.URL.Path, "panic", rec)
				w.Header().Set("Connection", "close")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest tags the request with an id and logs it once it completes.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.WithContext(r.Context(), logger.Get().With("request_id", requestID))

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		logger.HTTPRequest(ctx, r.Method, r.URL.Path, rec.status, time.Since(start), "remote", r.RemoteAddr)
	})
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

// authenticator resolves bearer tokens to users and enforces the security
// level configured for the matched route.
type authenticator struct {
	verifier security.Verifier
	users    service.UserService
}

func (a *authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}
		level := config.GetSecurityLevel(route)

		token := security.BearerToken(r.Header.Get("Authorization"))
		if token == "" && route == "ws" {
			// Browsers cannot set headers on websocket handshakes.
			token = r.URL.Query().Get("access_token")
		}

		if level == config.SecurityPublic {
			if token != "" {
				if u, err := a.resolve(r.Context(), token); err == nil {
					r = r.WithContext(withUser(r.Context(), u))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			writeError(w, r, errUnauthenticated)
			return
		}
		u, err := a.resolve(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if level == config.SecurityAdmin && !u.IsAdmin() {
			writeError(w, r, service.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func (a *authenticator) resolve(ctx context.Context, token string) (*domain.User, error) {
	identity, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.users.Authenticate(ctx, *identity)
}

// rateLimiter applies a token bucket per user, or per client IP for
// anonymous requests.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(requestsPerSecond, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (rl *rateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if u := UserFromContext(r.Context()); u != nil {
			key = "user:" + strconv.Itoa(int(u.ID))
		}
		if !rl.getLimiter(key).Allow() {
			logger.WarnContext(r.Context(), "Rate limit exceeded", "key", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cleanup drops limiters idle for longer than idle.
func (rl *rateLimiter) cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	for k, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, k)
		}
	}
}

// StartCleanup runs cleanup every interval until ctx is done.
func (rl *rateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(interval)
			}
		}
	}()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
