package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
	"gorm.io/gorm"
	"k8s.io/apimachinery/pkg/api/resource"
)

// VolumeService keeps volume records and their persistent volume claims in
// step. A record never outlives a failed claim creation.
type VolumeService struct {
	Repos   *repository.Repos
	Cluster k8s.Cluster
}

func NewVolumeService(repos *repository.Repos, cluster k8s.Cluster) *VolumeService {
	return &VolumeService{Repos: repos, Cluster: cluster}
}

func (s *VolumeService) Create(ctx context.Context, caller access.Subject, input volume.CreateVolumeInput) (*volume.Volume, error) {
	if !utils.ValidResourceName(input.Name) {
		return nil, fmt.Errorf("%w: invalid volume name %q", volume.ErrInvalidInput, input.Name)
	}
	if _, err := resource.ParseQuantity(input.Capacity); err != nil {
		return nil, fmt.Errorf("%w: capacity %q is not a valid quantity", volume.ErrInvalidInput, input.Capacity)
	}
	_, err := s.Repos.Volume.GetByOwnerAndName(caller.UserID, input.Name)
	if err == nil {
		return nil, access.Conflict("Volume %s already exists", input.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	v := &volume.Volume{
		OwnerID:     caller.UserID,
		Name:        input.Name,
		Description: input.Description,
		Capacity:    input.Capacity,
		IsPublic:    input.IsPublic,
	}
	if err := s.Repos.Volume.Create(v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, access.Conflict("Volume %s already exists", input.Name)
		}
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}
	if err := s.Cluster.CreateVolumeClaim(ctx, v.ClaimName(), v.Capacity); err != nil {
		if derr := s.Repos.Volume.Delete(v.ID); derr != nil {
			log.Printf("rollback of volume %d failed: %v", v.ID, derr)
		}
		return nil, err
	}
	return v, nil
}

func (s *VolumeService) Get(caller access.Subject, id uint) (*volume.Volume, error) {
	v, err := s.Repos.Volume.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.NotFound("Volume not found")
		}
		return nil, err
	}
	if !caller.CanSee(v.OwnerID, v.IsPublic) {
		return nil, access.ErrPermissionDenied
	}
	return v, nil
}

func (s *VolumeService) List(caller access.Subject, paging types.Paging) ([]volume.Volume, error) {
	p := paging.Normalize()
	var owner *uint
	if !caller.IsSuperuser {
		owner = &caller.UserID
	}
	return s.Repos.Volume.List(owner, p.Skip, p.Limit)
}

// Delete removes the claim first. A claim that cannot be removed is logged
// and the record is deleted anyway.
func (s *VolumeService) Delete(ctx context.Context, caller access.Subject, id uint) error {
	v, err := s.Repos.Volume.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.NotFound("Volume not found")
		}
		return err
	}
	if err := caller.Authorize(v.OwnerID); err != nil {
		return err
	}
	if err := s.Cluster.DeleteVolumeClaim(ctx, v.ClaimName()); err != nil {
		log.Printf("delete claim of volume %d: %v", v.ID, err)
	}
	return s.Repos.Volume.Delete(v.ID)
}
