// Package server wires the middleware chain, controllers and routes into
// a dispatchable router.
package server

import (
	"time"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/controllers"
	"github.com/tableserve/tableserve/middlewares"
	"github.com/tableserve/tableserve/ratelimit"
	"github.com/tableserve/tableserve/router"
	"gorm.io/gorm"
)

// SetupRouter builds the full route table. Global middleware order is
// fixed: CORS first (it must answer preflight and decorate rejected
// responses), then security, then rate limiting; auth applies only to
// the admin group.
func SetupRouter(db *gorm.DB, cfg *config.Config) *router.Router {
	r := router.New()

	r.Use(middlewares.CORS(cfg))
	r.Use(middlewares.Security(cfg))
	r.Use(middlewares.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, ratelimit.NewMemoryStore()))

	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	authCtrl := controllers.NewAuthController(db, cfg)
	adminOrderCtrl := controllers.NewAdminOrderController(db)
	adminMenuCtrl := controllers.NewAdminMenuController(db)
	analyticsCtrl := controllers.NewAnalyticsController(db)
	qrCtrl := controllers.NewQRController(cfg)

	// Public routes.
	r.GET("/api/health", healthHandler)

	r.GET("/api/menu", menuCtrl.List)
	r.GET("/api/menu/{id}", menuCtrl.Show)
	r.POST("/api/menu/availability", menuCtrl.CheckAvailability)

	r.POST("/api/order", orderCtrl.Create)
	// wait-time must be registered before {id} so the literal segment
	// wins under first-match dispatch.
	r.GET("/api/order/wait-time", orderCtrl.WaitTime)
	r.GET("/api/order/{id}", orderCtrl.Show)

	// Protected admin routes. Login sits inside the group but the auth
	// middleware exempts it; it carries its own stricter limiter.
	r.Group([]router.Middleware{middlewares.Auth(cfg)}, func(r *router.Router) {
		r.POST("/api/admin/login", authCtrl.Login, middlewares.LoginLimiter())
		r.POST("/api/admin/logout", authCtrl.Logout)
		r.GET("/api/admin/me", authCtrl.Me)

		r.GET("/api/admin/orders", adminOrderCtrl.Index)
		r.GET("/api/admin/orders/{id}", adminOrderCtrl.Show)
		r.PATCH("/api/admin/orders/{id}", adminOrderCtrl.Update)
		r.DELETE("/api/admin/orders/{id}", adminOrderCtrl.Delete)

		r.POST("/api/admin/menu", adminMenuCtrl.Create)
		r.PUT("/api/admin/menu/{id}", adminMenuCtrl.Update)
		r.DELETE("/api/admin/menu/{id}", adminMenuCtrl.Delete)

		r.GET("/api/admin/analytics", analyticsCtrl.Dashboard)
		r.GET("/api/admin/analytics/orders", analyticsCtrl.Orders)

		r.POST("/api/admin/qr/generate", qrCtrl.Generate)
		r.GET("/api/admin/qr/batch", qrCtrl.Batch)
	})

	return r
}

func healthHandler(req *router.Request, _ router.Params) *router.Response {
	return router.JSON(200, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
