package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the API handlers mounted under the API prefix.
type Handlers struct {
	Conflicts *ConflictHandler
	Courses   *CourseHandler
	Students  *StudentHandler
}

// Register mounts every API route on group.
func Register(group *gin.RouterGroup, h Handlers) {
	if h.Conflicts != nil {
		conflicts := group.Group("/conflicts")
		conflicts.GET("", h.Conflicts.List)
		conflicts.GET("/matrix", h.Conflicts.Matrix)
		conflicts.GET("/export", h.Conflicts.Export)
		conflicts.DELETE("/cache", h.Conflicts.InvalidateCache)
	}
	if h.Courses != nil {
		group.GET("/courses/:id/offering", h.Courses.Offering)
		group.GET("/courses/:id/next-offering", h.Courses.NextOffering)
	}
	if h.Students != nil {
		group.GET("/students/:id/standing", h.Students.Standing)
	}
}

// RegisterOps mounts the health, readiness and metrics endpoints at the router root.
func RegisterOps(router gin.IRouter, h *MetricsHandler, exposeMetrics bool) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	if exposeMetrics {
		router.GET("/metrics", h.Prometheus)
	}
}
