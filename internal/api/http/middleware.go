package http

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"everkeep-backend/internal/logger"
	"everkeep-backend/internal/ratelimit"
	"everkeep-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "user_claims"

// Middleware bundles the cross-cutting HTTP concerns: authentication and
// rate limiting.
type Middleware struct {
	tokens  security.TokenManager
	limiter ratelimit.Limiter
}

func NewMiddleware(tokens security.TokenManager, limiter ratelimit.Limiter) *Middleware {
	if limiter == nil {
		limiter = ratelimit.NoopLimiter{}
	}
	return &Middleware{tokens: tokens, limiter: limiter}
}

// RequireAuth rejects requests without a valid access token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		if claims.Type != security.TokenTypeAccess {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "access token required"})
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through. Used on public memorial views where the
// response depends on who (if anyone) is asking.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err == nil && claims.Type == security.TokenTypeAccess {
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit applies the fixed-window limiter keyed by caller identity and
// route, falling back to the client IP for anonymous requests. Keying per
// route keeps one hot endpoint from exhausting a caller's budget everywhere.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + clientIP(r)
		if claims, ok := r.Context().Value(claimsContextKey).(*security.UserClaims); ok {
			key = "user:" + strconv.Itoa(int(claims.UserID))
		}
		key += ":" + routeTemplate(r)
		allowed, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			// Limiter backend failure should not take the API down.
			logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) claimsFromRequest(r *http.Request) (*security.UserClaims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, security.ErrInvalidToken
	}
	return m.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
}

// claimsFromContext returns the authenticated claims, or nil for anonymous
// requests.
func claimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsContextKey).(*security.UserClaims)
	return claims
}

// viewerIDFromContext returns the authenticated user ID or nil when the
// request is anonymous.
func viewerIDFromContext(ctx context.Context) *int32 {
	claims := claimsFromContext(ctx)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// routeTemplate returns the matched mux route pattern, so the limiter window
// is scoped per endpoint rather than shared across the whole API.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
