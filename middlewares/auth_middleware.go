package middlewares

import (
	"errors"
	"net/http"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/utils"
)

// Attribute keys populated by Auth for downstream handlers.
const (
	UserIDAttr    = "user_id"
	UserEmailAttr = "user_email"
	UserRoleAttr  = "user_role"
)

const loginPath = "/api/admin/login"

// Auth verifies the bearer token on protected routes and injects the
// claim set into the attribute bag. The login endpoint is exempt even
// though it lives under the protected prefix.
func Auth(cfg *config.Config) router.Middleware {
	return func(req *router.Request) *router.Response {
		if req.Method == http.MethodPost && req.Path == loginPath {
			return nil
		}

		token := req.BearerToken()
		if token == "" {
			return router.Unauthorized("Authentication required")
		}

		claims, err := utils.ParseToken(cfg, token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return router.Unauthorized("Token has expired")
			}
			return router.Unauthorized("Invalid token")
		}

		req.SetAttr(UserIDAttr, claims.Subject)
		req.SetAttr(UserEmailAttr, claims.Email)
		req.SetAttr(UserRoleAttr, claims.Role)
		return nil
	}
}
