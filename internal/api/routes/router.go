package routes

import (
	"github.com/gin-gonic/gin"
	_ "github.com/linskybing/pinta-go/docs"
	"github.com/linskybing/pinta-go/internal/api/handlers"
	"github.com/linskybing/pinta-go/internal/api/middleware"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/register", h.User.Register)
	r.POST("/login", h.User.Login)
	StreamRoutes(r, h.Stream)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(), h.User.RequireActive)
	{
		auth.GET("/users/me", h.User.Me)

		JobRoutes(auth, h.Job)

		volumes := auth.Group("/volumes")
		{
			volumes.GET("", h.Volume.ListVolumes)
			volumes.POST("", h.Volume.CreateVolume)
			volumes.GET("/:id", h.Volume.GetVolume)
			volumes.DELETE("/:id", h.Volume.DeleteVolume)
		}

		images := auth.Group("/images")
		{
			images.GET("", h.Image.ListImages)
			images.POST("", h.Job.CreateTyped(job.TypeImageBuilder))
			images.GET("/:id", h.Image.GetImage)
			images.DELETE("/:id", h.Image.DeleteImage)
		}
	}
}
