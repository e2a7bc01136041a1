package v1

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tinoosan/bank/internal/auth"
)

func parseBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[len("Bearer "):]), true
}

// requireAuth enforces Authorization: Bearer JWT (HS256) on account-scoped
// routes and puts the verified claims in the request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := parseBearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}
			claims, err := auth.VerifyHS256(tok, s.secret)
			if err != nil {
				unauthorized(w)
				return
			}
			now := time.Now().Unix()
			if claims.NotBefore != 0 && now < claims.NotBefore {
				unauthorized(w)
				return
			}
			if claims.ExpiresAt != 0 && now >= claims.ExpiresAt {
				unauthorized(w)
				return
			}
			if s.issuer != "" && !strings.EqualFold(claims.Issuer, s.issuer) {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// claimsFrom returns the verified claims, if the route was authenticated.
func claimsFrom(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(auth.Claims)
	return c, ok
}

// ownsAccount reports whether the request may act on the given account. With
// auth disabled every request passes; with auth enabled the token subject
// must match.
func ownsAccount(ctx context.Context, number string) bool {
	c, ok := claimsFrom(ctx)
	if !ok {
		return true
	}
	return c.Subject == number
}
