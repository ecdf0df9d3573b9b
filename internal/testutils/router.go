package testutils

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/api/handlers"
	"github.com/linskybing/pinta-go/internal/api/middleware"
	"github.com/linskybing/pinta-go/internal/api/routes"
	"github.com/linskybing/pinta-go/internal/application"
)

// SetupRouter builds the production router around svc.
func SetupRouter(svc *application.Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Observe())
	routes.RegisterRoutes(r, handlers.New(svc))
	return r
}
