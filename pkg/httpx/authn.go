package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/pharmahadir/hadir/pkg/jwtx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

type ctxKey string

// CtxKeySubject carries the verified token subject through the request
// context.
const CtxKeySubject ctxKey = "subject"

// AuthnMiddleware verifies the Bearer session token on admin endpoints.
// A nil signer disables auth entirely; the app only does that in dev mode
// when no admin key is configured.
func AuthnMiddleware(signer *jwtx.Signer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signer == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := signer.Verify(raw)
			if err != nil {
				log.Warn("session token verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeySubject, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
