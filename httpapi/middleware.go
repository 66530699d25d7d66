package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/authgate/authgate"
)

type contextKey int

const accountKey contextKey = iota

// requireAccount resolves the bearer token and stores the live account
// record in the request context. Missing or malformed headers are rejected
// before the engine is consulted.
func (a *API) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		account, err := a.engine.Resolve(r.Context(), token)
		if err != nil {
			a.writeEngineError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), account)))
	})
}

// clientIP threads the caller address into the engine context so audit
// events carry it. RealIP has already rewritten RemoteAddr from proxy
// headers by the time this runs.
func (a *API) clientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(authgate.WithClientIP(r.Context(), ip)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func withAccount(ctx context.Context, account *authgate.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

func accountFromContext(ctx context.Context) *authgate.Account {
	account, _ := ctx.Value(accountKey).(*authgate.Account)
	return account
}
