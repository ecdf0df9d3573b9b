package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/internal/workload"
	"gorm.io/gorm"
)

// Resolver turns user supplied volume and image references into cluster
// mountable claims and registry paths. A reference is either a bare name,
// owned by the subject, or "owner/name" for another user's public resource.
type Resolver struct {
	users    user.Repository
	volumes  volume.Repository
	images   image.Repository
	registry string
}

func NewResolver(users user.Repository, volumes volume.Repository, images image.Repository, registry string) *Resolver {
	return &Resolver{users: users, volumes: volumes, images: images, registry: registry}
}

func splitOwnerAndName(ref string) (owner, name string, qualified bool) {
	if i := strings.Index(ref, "/"); i >= 0 {
		return ref[:i], ref[i+1:], true
	}
	return "", ref, false
}

// ownerOf returns the id that owns ref's namespace, or ok=false when the
// named owner does not exist.
func (r *Resolver) ownerOf(owner string, qualified bool, subject access.Subject) (uint, bool, error) {
	if !qualified || owner == subject.Username {
		return subject.UserID, true, nil
	}
	u, err := r.users.GetByUsername(owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return u.ID, true, nil
}

// ResolveVolumes splits raw on commas, ignoring blanks, and resolves each
// entry. It fails on the first entry that does not exist or is not visible.
func (r *Resolver) ResolveVolumes(raw string, subject access.Subject) ([]workload.Mount, error) {
	mounts := []workload.Mount{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		v, err := r.lookupVolume(token, subject)
		if err != nil {
			return nil, err
		}
		mounts = append(mounts, workload.Mount{Name: v.Name, ClaimName: v.ClaimName()})
	}
	return mounts, nil
}

func (r *Resolver) lookupVolume(ref string, subject access.Subject) (*volume.Volume, error) {
	owner, name, qualified := splitOwnerAndName(ref)
	ownerID, ok, err := r.ownerOf(owner, qualified, subject)
	if err != nil {
		return nil, err
	}
	if ok && name != "" {
		v, err := r.volumes.GetByOwnerAndName(ownerID, name)
		switch {
		case err == nil:
			if subject.CanSee(v.OwnerID, v.IsPublic) {
				return v, nil
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return nil, access.NotFound("Volume %s does not exist", ref)
}

// ResolveImage returns the registry path of a stored image. Bare names are
// qualified under the subject's username, "owner/name" under owner.
func (r *Resolver) ResolveImage(raw string, subject access.Subject) (string, error) {
	ref := strings.TrimSpace(raw)
	owner, name, qualified := splitOwnerAndName(ref)
	ownerID, ok, err := r.ownerOf(owner, qualified, subject)
	if err != nil {
		return "", err
	}
	if ok && name != "" {
		img, err := r.images.GetByOwnerAndName(ownerID, name)
		switch {
		case err == nil:
			if subject.CanSee(img.OwnerID, img.IsPublic) {
				if !qualified {
					owner = subject.Username
				}
				return r.ImagePath(owner, name), nil
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return "", err
		}
	}
	return "", access.NotFound("Image %s does not exist", ref)
}

// ImagePath is the registry location of owner's image name.
func (r *Resolver) ImagePath(owner, name string) string {
	return fmt.Sprintf("%s/%s/%s", r.registry, owner, name)
}
