package job

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/workload"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/metrics"
	"github.com/linskybing/pinta-go/pkg/minio"
	"github.com/linskybing/pinta-go/pkg/stream"
)

const (
	defaultShell   = "sh"
	watchTailLines = int64(100)
)

// LogArchiver stores the final logs of a job before its pods are removed.
type LogArchiver interface {
	Archive(ctx context.Context, objectName string, r io.Reader) error
}

// The session methods return an error only when the session could not be
// established. Once bytes flow, any interruption is a normal end of session.

// ExecSession attaches client to a shell inside one pod of the job.
func (s *Service) ExecSession(ctx context.Context, caller access.Subject, id uint, in job.ExecInput, client stream.Conn) error {
	j, err := s.scheduledJob(caller, id)
	if err != nil {
		return err
	}
	pod, container, err := podFor(j, in.Role, in.Index)
	if err != nil {
		return err
	}
	command := strings.TrimSpace(in.Command)
	if command == "" {
		command = defaultShell
	}
	target := k8s.ExecTarget{
		Pod:       pod,
		Container: container,
		Command:   workload.ExecCommand(j.Type, command, in.TTY),
		TTY:       in.TTY,
	}
	_, err = s.attach(ctx, "exec", client, target)
	return err
}

// CommitSession runs the commit interactively so the client sees the push
// progress. The image is recorded only when the command reports success.
func (s *Service) CommitSession(ctx context.Context, caller access.Subject, id uint, imageName string, client stream.Conn) error {
	j, name, ref, err := s.prepareCommit(caller, id, imageName)
	if err != nil {
		return err
	}
	res, err := s.attach(ctx, "commit", client, commitTarget(j.ID, ref, true))
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		metrics.JobTransition("commit", io.ErrUnexpectedEOF)
		log.Printf("commit of job %d did not complete, keeping job", j.ID)
		return nil
	}
	// The client is usually gone by now.
	if _, err := s.finalizeCommit(context.WithoutCancel(ctx), caller, j, name); err != nil {
		log.Printf("finalize commit of job %d: %v", j.ID, err)
	}
	return nil
}

// WatchSession follows the log of one pod of the job.
func (s *Service) WatchSession(ctx context.Context, caller access.Subject, id uint, in job.WatchInput, client stream.Conn) error {
	j, err := s.scheduledJob(caller, id)
	if err != nil {
		return err
	}
	pod, container, err := podFor(j, in.Role, in.Index)
	if err != nil {
		return err
	}
	tail := watchTailLines
	logs, err := s.cluster.StreamLogs(ctx, k8s.LogOptions{
		Pod:       pod,
		Container: container,
		Follow:    true,
		TailLines: &tail,
	})
	if err != nil {
		return err
	}
	done := metrics.SessionStarted("watch")
	defer done()
	if err := stream.Tail(ctx, client, logs); err != nil {
		log.Printf("watch of %s ended: %v", pod, err)
	}
	return nil
}

func (s *Service) attach(ctx context.Context, kind string, client stream.Conn, target k8s.ExecTarget) (stream.Result, error) {
	upstream, err := s.cluster.OpenExec(ctx, target)
	if err != nil {
		return stream.Result{}, err
	}
	done := metrics.SessionStarted(kind)
	defer done()

	sid := uuid.NewString()
	log.Printf("session %s: %s on %s/%s", sid, kind, target.Pod, target.Container)
	res := stream.Pipe(ctx, client, upstream)
	log.Printf("session %s closed (succeeded=%t)", sid, res.Succeeded())
	return res, nil
}

func (s *Service) scheduledJob(caller access.Subject, id uint) (*job.Job, error) {
	j, err := s.findJob(s.repos, caller, id, false)
	if err != nil {
		return nil, err
	}
	if !j.Scheduled {
		return nil, access.InvalidState("Job not scheduled")
	}
	return j, nil
}

// podFor picks the pod and container behind role/index. Image builders have
// a single pod and are always reached through the docker cli sidecar.
func podFor(j *job.Job, role string, index int) (pod, container string, err error) {
	if j.Type == job.TypeImageBuilder {
		return job.PodName(j.ID, j.Type.ReplicaRole(), 0), workload.DockerCLIContainer, nil
	}
	if role == "" {
		role = j.Type.ReplicaRole()
	}
	if !j.Type.HasRole(role) {
		return "", "", access.InvalidState("Role %s is not valid for %s jobs", role, j.Type)
	}
	count := replicaCount(j, role)
	if index < 0 || index >= count {
		return "", "", access.InvalidState("Index %d out of range for role %s", index, role)
	}
	return job.PodName(j.ID, role, index), role, nil
}

func replicaCount(j *job.Job, role string) int {
	n := j.NumReplicas
	if role == j.Type.MasterRole() {
		n = j.NumMasters
	}
	if n == nil {
		return 0
	}
	return *n
}

type podRef struct {
	pod, container string
}

func podsOf(j *job.Job) []podRef {
	if j.Type == job.TypeImageBuilder {
		return []podRef{{job.PodName(j.ID, j.Type.ReplicaRole(), 0), workload.DockerCLIContainer}}
	}
	var pods []podRef
	for _, role := range []string{j.Type.MasterRole(), j.Type.ReplicaRole()} {
		if role == "" {
			continue
		}
		for i := 0; i < replicaCount(j, role); i++ {
			pods = append(pods, podRef{job.PodName(j.ID, role, i), role})
		}
	}
	return pods
}

// archiveLogs copies the log of every pod to object storage. Failures are
// logged and never block deletion.
func (s *Service) archiveLogs(ctx context.Context, j *job.Job) {
	if s.archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	for _, p := range podsOf(j) {
		logs, err := s.cluster.StreamLogs(ctx, k8s.LogOptions{Pod: p.pod, Container: p.container})
		if err != nil {
			log.Printf("archive logs of %s: %v", p.pod, err)
			continue
		}
		if err := s.archiver.Archive(ctx, minio.LogObjectName(j.ID, p.pod), logs); err != nil {
			log.Printf("archive logs of %s: %v", p.pod, err)
		}
		logs.Close()
	}
}
