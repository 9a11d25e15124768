package middleware

import (
	"context"
	"net/http"

	"github.com/sweepmind/minesweeper-agent/internal/config"
)

type CtxKey int

const (
	CtxAccountClaims CtxKey = iota
)

/*
Auth attaches parsed account claims to the request context when the
auth cookies check out, and clears stale cookies otherwise. Handlers
that work for anonymous callers simply find no claims in the context.
*/
func Auth(cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseAccountClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxAccountClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
