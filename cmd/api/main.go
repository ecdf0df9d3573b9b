package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/internal/api/handlers"
	"github.com/linskybing/pinta-go/internal/api/middleware"
	"github.com/linskybing/pinta-go/internal/api/routes"
	"github.com/linskybing/pinta-go/internal/application"
	appjob "github.com/linskybing/pinta-go/internal/application/job"
	"github.com/linskybing/pinta-go/internal/config"
	"github.com/linskybing/pinta-go/internal/config/db"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/metrics"
	"github.com/linskybing/pinta-go/pkg/minio"
)

// @title Pinta API
// @version 1.0
// @description Control plane for distributed training jobs on Kubernetes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()

	// Initialize JWT signing key
	middleware.Init()

	db.Init()
	repos := repository.NewRepositories(db.DB)

	cluster, err := k8s.Init(config.KubeNamespace, config.StorageClassName)
	if err != nil {
		log.Fatalf("Failed to initialize kubernetes client: %v", err)
	}

	var archiver appjob.LogArchiver
	if config.MinioEndpoint != "" {
		a, err := minio.New(context.Background(), minio.Options{
			Endpoint:  config.MinioEndpoint,
			AccessKey: config.MinioAccessKey,
			SecretKey: config.MinioSecretKey,
			UseSSL:    config.MinioUseSSL,
			Bucket:    config.MinioBucket,
		})
		if err != nil {
			log.Printf("Warning: log archiving disabled: %v", err)
		} else {
			archiver = a
		}
	}

	metrics.Register()

	services := application.New(repos, cluster, config.RegistryServer, archiver)
	if err := services.User.EnsureSuperuser(config.FirstSuperuser, config.FirstSuperuserPassword); err != nil {
		log.Fatalf("Failed to create first superuser: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.Observe())

	routes.RegisterRoutes(router, handlers.New(services))

	port := ":" + config.ServerPort
	log.Printf("Starting API server on %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}
