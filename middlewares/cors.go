package middlewares

import (
	"net/http"
	"regexp"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/router"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With, X-CSRF-Token, Accept, Origin"
	corsMaxAge       = "86400"
)

// Hosting-platform previews and local development are always allowed in
// addition to the configured origin list.
var corsOriginPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://[a-z0-9-]+\.vercel\.app$`),
	regexp.MustCompile(`^https://[a-z0-9-]+\.koyeb\.app$`),
	regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1)(:\d+)?$`),
}

// CORS must run first in the global chain: it sets response headers even
// on requests rejected later, and answers preflight before any body
// parsing or auth.
func CORS(cfg *config.Config) router.Middleware {
	return func(req *router.Request) *router.Response {
		origin := req.Header.Get("Origin")
		allowed := origin != "" && originAllowed(cfg, origin)

		if req.Method == http.MethodOptions && origin != "" {
			if !allowed {
				return router.Forbidden("Origin not allowed")
			}
			resp := router.NoContent()
			resp.Header.Set("Access-Control-Allow-Origin", origin)
			resp.Header.Set("Access-Control-Allow-Credentials", "true")
			resp.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			resp.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			resp.Header.Set("Access-Control-Max-Age", corsMaxAge)
			resp.Header.Set("Vary", "Origin")
			return resp
		}

		if allowed {
			req.RespHeader.Set("Access-Control-Allow-Origin", origin)
			req.RespHeader.Set("Access-Control-Allow-Credentials", "true")
			req.RespHeader.Set("Vary", "Origin")
		}

		return nil
	}
}

func originAllowed(cfg *config.Config, origin string) bool {
	for _, o := range cfg.CORSOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	for _, pattern := range corsOriginPatterns {
		if pattern.MatchString(origin) {
			return true
		}
	}
	return false
}
