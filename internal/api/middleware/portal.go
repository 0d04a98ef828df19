package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

const PortalUserKey contextKey = "portal_user"

// PortalAuth returns a middleware that validates the portal bearer token
// and puts the authenticated client user on the request context.
func PortalAuth(portal *core.PortalService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			user, err := portal.VerifyToken(r.Context(), token)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), PortalUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPortalUser returns the authenticated portal user, or nil when the
// request did not pass PortalAuth.
func GetPortalUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(PortalUserKey).(*model.User)
	return user
}
