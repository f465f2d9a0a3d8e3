package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the routes. An empty origins list allows every origin.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/", HealthCheck)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:id", h.GetJob)
		api.POST("/jobs/:id/applied", h.MarkApplied)
		api.DELETE("/jobs/:id", h.DeleteJob)

		api.GET("/analysis", h.ListAnalyses)
		api.GET("/analysis/:id", h.GetAnalysis)

		api.GET("/resume", h.GetResume)
		api.PUT("/resume", h.UpdateResume)
	}
	return r
}
