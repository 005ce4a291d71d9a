package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-tracker-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes. Export and
// Metrics may be nil to leave their endpoints unmounted.
type Handlers struct {
	Events  *EventHandler
	Admin   *AdminEventHandler
	Auth    *AuthHandler
	Export  *ExportHandler
	Metrics *MetricsHandler
}

// RouteOptions controls optional route groups.
type RouteOptions struct {
	APIPrefix      string
	ExposeMetrics  bool
	ExportsEnabled bool
}

// RegisterRoutes mounts the API under opts.APIPrefix and the probes at the root.
func RegisterRoutes(r *gin.Engine, h Handlers, auth middleware.SessionAuthenticator, opts RouteOptions) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		if opts.ExposeMetrics {
			r.GET("/metrics", h.Metrics.Prometheus)
		}
	}

	api := r.Group(opts.APIPrefix)
	if h.Metrics != nil {
		api.GET("/health", h.Metrics.Health)
	}

	api.GET("/events", h.Events.List)
	if opts.ExportsEnabled && h.Export != nil {
		api.GET("/events/export", h.Export.Export)
	}

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)

	me := api.Group("/me", middleware.JWT(auth))
	me.GET("", h.Events.Me)
	me.GET("/events", h.Events.MyEvents)
	me.POST("/toggle", h.Events.Toggle)

	admin := api.Group("/admin", middleware.JWT(auth), middleware.RequireAdmin())
	admin.POST("/events", h.Admin.Create)
	admin.PATCH("/events/:id", h.Admin.Update)
	admin.DELETE("/events/:id", h.Admin.Delete)
	if h.Metrics != nil {
		admin.GET("/stats", h.Metrics.Stats)
	}
}
