package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/menulink/emenu-backend/internal/core/domain"
	"github.com/menulink/emenu-backend/internal/core/ports"
	"github.com/menulink/emenu-backend/internal/infrastructure/logging"
)

// IdentityKey is the key used to store the resolved identity in the request context.
const IdentityKey contextKey = "identity"

// Authentication resolves the caller's identity from the Authorization header
// and stores it in the request context. Resolution goes through the
// authenticator so development-identity mode applies to REST the same way it
// does to real-time connections.
func Authentication(authn ports.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			identity, err := authn.Resolve(r.Context(), token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			ctx = logging.WithUserID(ctx, identity.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the resolved identity from the context.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
