package handlers

import (
	"github.com/linskybing/pinta-go/internal/application"
)

type Handlers struct {
	User   *UserHandler
	Volume *VolumeHandler
	Image  *ImageHandler
	Job    *JobHandler
	Stream *StreamHandler
}

func New(svc *application.Services) *Handlers {
	return &Handlers{
		User:   NewUserHandler(svc.User),
		Volume: NewVolumeHandler(svc.Volume),
		Image:  NewImageHandler(svc.Image),
		Job:    NewJobHandler(svc.Job),
		Stream: NewStreamHandler(svc.Job, svc.User),
	}
}
