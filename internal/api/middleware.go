package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"github.com/muhammedsharbag/E-Shop-App/internal/auth"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

type contextKey string

const userContextKey contextKey = "user"

// maxJSONBodySize caps API request bodies; the largest legitimate
// payload is a shipping address.
const maxJSONBodySize = 50 << 10 // 50KB

func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator resolves the bearer token to a live user on every
// request. A token for a deleted or deactivated account stops working
// immediately, whatever its expiry says.
type Authenticator struct {
	tokens *auth.TokenService
	users  repository.UserRepository
}

func NewAuthenticator(tokens *auth.TokenService, users repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "account no longer exists")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		if !user.Active {
			respondError(w, http.StatusForbidden, "account_disabled", "account is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// allowedTo gates a subtree to the listed roles. Must run after the
// Authenticator.
func allowedTo(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromContext(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
				return
			}
			if !allowed[user.Role] {
				respondError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter throttles per client IP. Used on the credential
// endpoints only; the rest of the API is protected by auth.
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	l := &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
	}
	go l.cleanup()
	return l
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *ipRateLimiter) cleanup() {
	for range time.Tick(time.Minute) {
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			respondError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
