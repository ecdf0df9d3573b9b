package application

import (
	"github.com/linskybing/pinta-go/internal/application/job"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/pkg/k8s"
)

type Services struct {
	User   *UserService
	Volume *VolumeService
	Image  *ImageService
	Job    *job.Service
}

// New wires the services. archiver may be nil when log archiving is off.
func New(repos *repository.Repos, cluster k8s.Cluster, registry string, archiver job.LogArchiver) *Services {
	resolver := job.NewResolver(repos.User, repos.Volume, repos.Image, registry)
	return &Services{
		User:   NewUserService(repos),
		Volume: NewVolumeService(repos, cluster),
		Image:  NewImageService(repos),
		Job:    job.NewService(repos, cluster, resolver, archiver),
	}
}
