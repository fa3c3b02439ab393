package api

import (
	"context"
	"net/http"

	"github.com/skicoach/coach-schedule/internal/store"
)

// UserIDHeader carries the remote session identity. Requests without it
// operate on the local backend.
const UserIDHeader = "X-User-ID"

type ctxKey int

const userIDKey ctxKey = iota

// Identity lifts the session header into the request context, where the
// backend selector picks it up per call.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(UserIDHeader); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the session identity of the current request, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Resolver adapts UserID to the store's per-call identity contract.
func Resolver() store.IdentityResolver {
	return store.IdentityFunc(UserID)
}
