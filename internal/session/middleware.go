package session

import (
	"context"
	"net/http"
	"strings"

	"ShopCart/pkg/kit"
)

type ctxKey string

const customerKey ctxKey = "customer"

func CustomerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(customerKey).(string)
	return id, ok && id != ""
}

func WithCustomer(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerKey, customerID)
}

// Require rejects requests without a valid session bearer token and puts the
// token's customer id on the request context.
func Require(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}

			claims, err := tm.Parse(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), claims.CustomerID)))
		})
	}
}
