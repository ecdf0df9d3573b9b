package application

import (
	"errors"

	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/pkg/types"
	"gorm.io/gorm"
)

// ImageService manages the records of committed images. Registry contents
// are not touched.
type ImageService struct {
	Repos *repository.Repos
}

func NewImageService(repos *repository.Repos) *ImageService {
	return &ImageService{Repos: repos}
}

func (s *ImageService) List(caller access.Subject, paging types.Paging) ([]image.Image, error) {
	p := paging.Normalize()
	var owner *uint
	if !caller.IsSuperuser {
		owner = &caller.UserID
	}
	return s.Repos.Image.List(owner, p.Skip, p.Limit)
}

func (s *ImageService) Get(caller access.Subject, id uint) (*image.Image, error) {
	img, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !caller.CanSee(img.OwnerID, img.IsPublic) {
		return nil, access.ErrPermissionDenied
	}
	return img, nil
}

func (s *ImageService) Delete(caller access.Subject, id uint) error {
	img, err := s.find(id)
	if err != nil {
		return err
	}
	if err := caller.Authorize(img.OwnerID); err != nil {
		return err
	}
	return s.Repos.Image.Delete(img.ID)
}

func (s *ImageService) find(id uint) (*image.Image, error) {
	img, err := s.Repos.Image.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.NotFound("Image not found")
		}
		return nil, err
	}
	return img, nil
}
