package accounthandlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
)

type contextKey string

const accountContextKey contextKey = "account"

// HashAPIKey maps a presented API key to its stored form.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ContextWithAccount returns a context carrying the authenticated account.
func ContextWithAccount(ctx context.Context, account *accountdb.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext returns the authenticated account set by APIKeyAuth.
func AccountFromContext(ctx context.Context) (*accountdb.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*accountdb.Account)
	return account, ok
}

// APIKeyAuth authenticates requests via the X-API-Key header (an
// "Authorization: Bearer" form is accepted too) and stores the owning
// account in the request context.
func APIKeyAuth(repo accountdb.AccountRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
					key = strings.TrimPrefix(bearer, "Bearer ")
				}
			}
			if key == "" {
				writeDetail(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}

			account, err := repo.GetByAPIKeyHash(r.Context(), HashAPIKey(key))
			if err != nil {
				if !errors.Is(err, accountdb.ErrAccountNotFound) {
					logger.ErrorContext(r.Context(), "account lookup failed", slog.Any("error", err))
				}
				writeDetail(w, http.StatusUnauthorized, "Invalid API Key.")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
		})
	}
}

// RequireResearcher gates the cross-account analytics surface.
func RequireResearcher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok || !account.Researcher {
			writeDetail(w, http.StatusForbidden, "You are not allowed to access this endpoint.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
