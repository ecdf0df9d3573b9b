package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/internal/workload"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/metrics"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/linskybing/pinta-go/pkg/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const (
	statusLookupConcurrency = 8
	archiveTimeout          = 30 * time.Second
)

// Service owns the job state machine: unscheduled -> scheduled -> deleted.
// Running, completed and error are read-time projections of the cluster
// phase and are never stored.
type Service struct {
	repos    *repository.Repos
	cluster  k8s.Cluster
	resolver *Resolver
	archiver LogArchiver
}

func NewService(repos *repository.Repos, cluster k8s.Cluster, resolver *Resolver, archiver LogArchiver) *Service {
	return &Service{
		repos:    repos,
		cluster:  cluster,
		resolver: resolver,
		archiver: archiver,
	}
}

// Create persists a new job and, if requested, submits it right away. A
// failed submission removes the record again.
func (s *Service) Create(ctx context.Context, caller access.Subject, sub job.Submission) (*job.Job, error) {
	topo := sub.Topology
	img := sub.Image
	if sub.FromPrivate {
		resolved, err := s.resolver.ResolveImage(sub.Image, caller)
		if err != nil {
			return nil, err
		}
		img = resolved
		if ib, ok := topo.(job.ImageBuilder); ok {
			ib.BaseImage = resolved
			topo = ib
		}
	}
	mounts, err := s.resolver.ResolveVolumes(sub.Volumes, caller)
	if err != nil {
		return nil, err
	}

	j := &job.Job{
		OwnerID:     caller.UserID,
		Name:        sub.Name,
		Description: sub.Description,
		Image:       img,
		Volumes:     sub.Volumes,
		WorkingDir:  sub.WorkingDir,
		Ports:       sub.Ports,
	}
	j.ApplyTopology(topo)

	if err := s.repos.Job.Create(j); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	metrics.JobTransition("create", nil)

	if !sub.Schedule {
		log.Printf("Created job %d (%s) unscheduled", j.ID, j.Type)
		return j, nil
	}

	manifest, err := s.submit(ctx, j, mounts)
	if err != nil {
		s.removeRecord(j.ID)
		return nil, err
	}
	j.Scheduled, j.Manifest = true, manifest
	if err := s.repos.Job.Update(j); err != nil {
		s.teardown(ctx, j.ID)
		s.removeRecord(j.ID)
		return nil, fmt.Errorf("failed to mark job scheduled: %w", err)
	}
	log.Printf("Created and scheduled job %d (%s)", j.ID, j.Type)
	return j, nil
}

// Get returns the job with its live status.
func (s *Service) Get(ctx context.Context, caller access.Subject, id uint) (*job.JobWithStatus, error) {
	j, err := s.findJob(s.repos, caller, id, false)
	if err != nil {
		return nil, err
	}
	out := s.project(ctx, *j)
	return &out, nil
}

// List returns one page of jobs visible to caller. Status lookups run in
// parallel since each one is a cluster round trip.
func (s *Service) List(ctx context.Context, caller access.Subject, paging types.Paging) ([]job.JobWithStatus, error) {
	p := paging.Normalize()
	var owner *uint
	if !caller.IsSuperuser {
		owner = &caller.UserID
	}
	jobs, err := s.repos.Job.List(owner, p.Skip, p.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]job.JobWithStatus, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusLookupConcurrency)
	for i := range jobs {
		g.Go(func() error {
			out[i] = s.project(gctx, jobs[i])
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// Update replaces the definition of an unscheduled job. When sub asks for
// scheduling the job is submitted in the same transaction, so a rejected
// submission leaves the stored job untouched.
func (s *Service) Update(ctx context.Context, caller access.Subject, id uint, sub job.Submission) (*job.Job, error) {
	var (
		updated   *job.Job
		submitted bool
	)
	err := s.repos.ExecTx(func(tx *repository.Repos) error {
		j, err := s.findJob(tx, caller, id, true)
		if err != nil {
			return err
		}
		if j.Scheduled {
			return access.InvalidState("Job already scheduled")
		}
		owner, err := s.ownerSubject(tx, caller, j.OwnerID)
		if err != nil {
			return err
		}

		topo := sub.Topology
		img := sub.Image
		if sub.FromPrivate {
			if img, err = s.resolver.ResolveImage(sub.Image, owner); err != nil {
				return err
			}
			if ib, ok := topo.(job.ImageBuilder); ok {
				ib.BaseImage = img
				topo = ib
			}
		}
		mounts, err := s.resolver.ResolveVolumes(sub.Volumes, owner)
		if err != nil {
			return err
		}

		j.Name, j.Description = sub.Name, sub.Description
		j.Image, j.Volumes = img, sub.Volumes
		j.WorkingDir, j.Ports = sub.WorkingDir, sub.Ports
		j.ApplyTopology(topo)

		if sub.Schedule {
			manifest, err := s.submit(ctx, j, mounts)
			if err != nil {
				return err
			}
			submitted = true
			j.Scheduled, j.Manifest = true, manifest
		}
		if err := tx.Job.Update(j); err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		updated = j
		return nil
	})
	if err != nil {
		if submitted {
			s.teardown(ctx, id)
		}
		return nil, err
	}
	metrics.JobTransition("update", nil)
	return updated, nil
}

// Schedule submits a previously unscheduled job. The row stays locked from
// the scheduled check until the flag is written.
func (s *Service) Schedule(ctx context.Context, caller access.Subject, id uint) (*job.Job, error) {
	var (
		scheduled *job.Job
		submitted bool
	)
	err := s.repos.ExecTx(func(tx *repository.Repos) error {
		j, err := s.findJob(tx, caller, id, true)
		if err != nil {
			return err
		}
		if j.Scheduled {
			return access.InvalidState("Job already scheduled")
		}
		owner, err := s.ownerSubject(tx, caller, j.OwnerID)
		if err != nil {
			return err
		}
		// Visibility may have changed since creation.
		mounts, err := s.resolver.ResolveVolumes(j.Volumes, owner)
		if err != nil {
			return err
		}
		manifest, err := s.submit(ctx, j, mounts)
		if err != nil {
			return err
		}
		submitted = true
		j.Scheduled, j.Manifest = true, manifest
		if err := tx.Job.Update(j); err != nil {
			return fmt.Errorf("failed to mark job scheduled: %w", err)
		}
		scheduled = j
		return nil
	})
	if err != nil {
		if submitted {
			s.teardown(ctx, id)
		}
		return nil, err
	}
	log.Printf("Scheduled job %d", id)
	return scheduled, nil
}

// Delete tears down the cluster resource, then removes the record. A job that
// no longer exists is not an error. The row stays locked throughout so a
// concurrent Schedule either finishes first or finds the job gone.
func (s *Service) Delete(ctx context.Context, caller access.Subject, id uint) error {
	var removed bool
	err := s.repos.ExecTx(func(tx *repository.Repos) error {
		j, err := tx.Job.GetByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := caller.Authorize(j.OwnerID); err != nil {
			return err
		}

		if j.Scheduled {
			s.archiveLogs(ctx, j)
		}
		s.teardown(ctx, j.ID)
		if err := tx.Job.Delete(j.ID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil || !removed {
		return err
	}
	metrics.JobTransition("delete", nil)
	log.Printf("Deleted job %d", id)
	return nil
}

// Commit snapshots the builder container of an image-builder job into a new
// image owned by caller, then removes the job.
func (s *Service) Commit(ctx context.Context, caller access.Subject, id uint, imageName string) (*image.Image, error) {
	j, name, ref, err := s.prepareCommit(caller, id, imageName)
	if err != nil {
		return nil, err
	}
	out, err := s.cluster.RunCommand(ctx, commitTarget(j.ID, ref, false))
	if err != nil {
		metrics.JobTransition("commit", err)
		log.Printf("commit of job %d failed: %v\n%s", j.ID, err, out)
		return nil, err
	}
	return s.finalizeCommit(ctx, caller, j, name)
}

// Manifest returns the workload document of the job: the one the cluster
// accepted for scheduled jobs, a fresh rendering otherwise.
func (s *Service) Manifest(ctx context.Context, caller access.Subject, id uint) (map[string]interface{}, error) {
	j, err := s.findJob(s.repos, caller, id, false)
	if err != nil {
		return nil, err
	}
	if j.Scheduled && len(j.Manifest) > 0 {
		var doc map[string]interface{}
		if err := json.Unmarshal(j.Manifest, &doc); err != nil {
			return nil, fmt.Errorf("decode stored manifest: %w", err)
		}
		return doc, nil
	}
	owner, err := s.ownerSubject(s.repos, caller, j.OwnerID)
	if err != nil {
		return nil, err
	}
	mounts, err := s.resolver.ResolveVolumes(j.Volumes, owner)
	if err != nil {
		return nil, err
	}
	doc, err := s.build(j, mounts)
	if err != nil {
		return nil, err
	}
	return doc.Object, nil
}

func (s *Service) findJob(repos *repository.Repos, caller access.Subject, id uint, lock bool) (*job.Job, error) {
	get := repos.Job.GetByID
	if lock {
		get = repos.Job.GetByIDForUpdate
	}
	j, err := get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.NotFound("Job not found")
		}
		return nil, err
	}
	if err := caller.Authorize(j.OwnerID); err != nil {
		return nil, err
	}
	return j, nil
}

// ownerSubject is the identity bare references of the job resolve against.
func (s *Service) ownerSubject(repos *repository.Repos, caller access.Subject, ownerID uint) (access.Subject, error) {
	if caller.UserID == ownerID {
		return caller, nil
	}
	u, err := repos.User.GetByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Subject{}, access.NotFound("Owner of job not found")
		}
		return access.Subject{}, err
	}
	return access.Subject{UserID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser}, nil
}

func (s *Service) build(j *job.Job, mounts []workload.Mount) (*unstructured.Unstructured, error) {
	topo, err := j.Topology()
	if err != nil {
		return nil, err
	}
	return workload.Build(workload.Input{
		ID:         j.ID,
		Image:      j.Image,
		WorkingDir: j.WorkingDir,
		Ports:      j.PortList(),
		Mounts:     mounts,
		Topology:   topo,
	})
}

// submit creates the cluster resource and returns the accepted document.
func (s *Service) submit(ctx context.Context, j *job.Job, mounts []workload.Mount) (datatypes.JSON, error) {
	doc, err := s.build(j, mounts)
	if err != nil {
		return nil, err
	}
	if err := s.cluster.CreateJob(ctx, doc); err != nil {
		metrics.JobTransition("schedule", err)
		log.Printf("submit job %d: %v", j.ID, err)
		return nil, err
	}
	metrics.JobTransition("schedule", nil)
	raw, err := json.Marshal(doc.Object)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (s *Service) project(ctx context.Context, j job.Job) job.JobWithStatus {
	out := job.JobWithStatus{Job: j}
	if !j.Scheduled {
		return out
	}
	obj, err := s.cluster.GetJob(ctx, j.ResourceName())
	status := workload.MapPhase(workload.Phase(obj), err)
	out.Status = &status
	return out
}

func (s *Service) teardown(ctx context.Context, id uint) {
	if err := s.cluster.DeleteJob(ctx, job.ResourceNameFor(id)); err != nil {
		log.Printf("teardown of job %d failed: %v", id, err)
	}
}

func (s *Service) removeRecord(id uint) {
	if err := s.repos.Job.Delete(id); err != nil {
		log.Printf("rollback of job %d failed: %v", id, err)
	}
}

func (s *Service) prepareCommit(caller access.Subject, id uint, imageName string) (*job.Job, string, string, error) {
	j, err := s.findJob(s.repos, caller, id, false)
	if err != nil {
		return nil, "", "", err
	}
	if j.Type != job.TypeImageBuilder {
		return nil, "", "", access.InvalidState("Job is not an image builder")
	}
	if !j.Scheduled {
		return nil, "", "", access.InvalidState("Image builder job not scheduled")
	}
	name := strings.TrimSpace(imageName)
	if !utils.ValidResourceName(name) {
		return nil, "", "", fmt.Errorf("%w: invalid image name %q", job.ErrInvalidInput, name)
	}
	_, err = s.repos.Image.GetByOwnerAndName(caller.UserID, name)
	switch {
	case err == nil:
		return nil, "", "", access.Conflict("Image %s already exists", name)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, "", "", err
	}
	return j, name, s.resolver.ImagePath(caller.Username, name), nil
}

func (s *Service) finalizeCommit(ctx context.Context, caller access.Subject, j *job.Job, name string) (*image.Image, error) {
	img := &image.Image{
		OwnerID:     caller.UserID,
		Name:        name,
		Description: fmt.Sprintf("Committed from job %s", j.Name),
	}
	err := s.repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Image.Create(img); err != nil {
			// another commit claimed the name while this one was pushing
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return access.Conflict("Image %s already exists", name)
			}
			return fmt.Errorf("failed to create image: %w", err)
		}
		return tx.Job.Delete(j.ID)
	})
	metrics.JobTransition("commit", err)
	if err != nil {
		return nil, err
	}
	s.teardown(ctx, j.ID)
	log.Printf("Committed job %d as image %d (%s)", j.ID, img.ID, name)
	return img, nil
}

func commitTarget(id uint, ref string, tty bool) k8s.ExecTarget {
	return k8s.ExecTarget{
		Pod:       job.PodName(id, job.TypeImageBuilder.ReplicaRole(), 0),
		Container: workload.DockerCLIContainer,
		Command:   workload.CommitCommand(ref),
		TTY:       tty,
	}
}
