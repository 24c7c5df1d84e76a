package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

type principalKey struct{}

// principalMiddleware loads the caller's current role and access for the
// authenticated account, so role changes apply to tokens already issued.
func principalMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			p, err := sessions.PrincipalForAccount(ctx, httpx.UserIDFromContext(ctx))
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !p.IsAnonymous() {
				ctx = slogx.WithActor(ctx, p.AccountID, p.Role.Code())
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, p)))
		})
	}
}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey{}).(domain.Principal)
	return p
}
