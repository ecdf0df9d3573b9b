package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/api/handlers"
	"github.com/linskybing/pinta-go/internal/domain/job"
)

// JobRoutes registers job endpoints
func JobRoutes(rg *gin.RouterGroup, h *handlers.JobHandler) {
	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.CreateJob)
		jobs.POST("/symmetric", h.CreateTyped(job.TypeSymmetric))
		jobs.POST("/ps_worker", h.CreateTyped(job.TypePSWorker))
		jobs.POST("/mpi", h.CreateTyped(job.TypeMPI))
		jobs.POST("/image_builder", h.CreateTyped(job.TypeImageBuilder))
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.PUT("/:id", h.UpdateJob)
		jobs.PATCH("/:id", h.ScheduleJob)
		jobs.DELETE("/:id", h.DeleteJob)
		jobs.POST("/:id/commit", h.CommitJob)
		jobs.GET("/:id/manifest", h.GetManifest)
	}
}

// StreamRoutes registers the websocket endpoints. They authenticate through
// the authorization query parameter, not the JWT middleware.
func StreamRoutes(r *gin.Engine, h *handlers.StreamHandler) {
	ws := r.Group("/ws/jobs")
	{
		ws.GET("/:id/exec", h.Exec)
		ws.GET("/:id/commit", h.Commit)
		ws.GET("/:id/watch", h.Watch)
	}
}
