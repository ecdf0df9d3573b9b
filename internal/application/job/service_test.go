package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/internal/workload"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/stream"
	"github.com/linskybing/pinta-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const testRegistry = "registry.test:5000"

type harness struct {
	svc      *Service
	jobs     *fakeJobs
	images   *fakeImages
	cluster  *fakeCluster
	archiver *fakeArchiver

	alice, bob, admin access.Subject
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	users := &fakeUsers{byID: map[uint]*user.User{}}
	require.NoError(t, users.Create(&user.User{Username: "alice"}))
	require.NoError(t, users.Create(&user.User{Username: "bob"}))
	require.NoError(t, users.Create(&user.User{Username: "admin", IsSuperuser: true}))

	volumes := &fakeVolumes{}
	require.NoError(t, volumes.Create(&volume.Volume{OwnerID: 1, Name: "data", Capacity: "1Gi"}))
	require.NoError(t, volumes.Create(&volume.Volume{OwnerID: 2, Name: "secret", Capacity: "1Gi"}))
	require.NoError(t, volumes.Create(&volume.Volume{OwnerID: 2, Name: "shared", Capacity: "1Gi", IsPublic: true}))

	images := &fakeImages{}
	require.NoError(t, images.Create(&image.Image{OwnerID: 2, Name: "pub", IsPublic: true}))

	h := &harness{
		jobs:     newFakeJobs(),
		images:   images,
		cluster:  newFakeCluster(),
		archiver: &fakeArchiver{objects: map[string]string{}},
		alice:    access.Subject{UserID: 1, Username: "alice"},
		bob:      access.Subject{UserID: 2, Username: "bob"},
		admin:    access.Subject{UserID: 3, Username: "admin", IsSuperuser: true},
	}
	repos := &repository.Repos{User: users, Job: h.jobs, Volume: volumes, Image: images}
	resolver := NewResolver(users, volumes, images, testRegistry)
	h.svc = NewService(repos, h.cluster, resolver, h.archiver)
	return h
}

func symmetric(schedule bool) job.Submission {
	return job.Submission{
		Name:     "train",
		Image:    "tensorflow/tensorflow:2.4.0",
		Volumes:  "data",
		Schedule: schedule,
		Topology: job.Symmetric{Command: "python train.py", NumReplicas: 2},
	}
}

func builder(schedule bool) job.Submission {
	return job.Submission{
		Name:     "build",
		Image:    "alpine:latest",
		Schedule: schedule,
		Topology: job.ImageBuilder{BaseImage: "alpine:latest"},
	}
}

// ---------------- Create ----------------

func TestCreate_SymmetricScheduled(t *testing.T) {
	h := newHarness(t)

	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)
	assert.True(t, j.Scheduled)
	assert.Equal(t, uint(1), j.OwnerID)
	assert.True(t, h.cluster.has("pinta-job-1"))

	stored, err := h.jobs.GetByID(j.ID)
	require.NoError(t, err)
	assert.True(t, stored.Scheduled)
	require.NotEmpty(t, stored.Manifest)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(stored.Manifest, &doc))
	spec := doc["spec"].(map[string]interface{})
	assert.EqualValues(t, 2, spec["numReplicas"])
	vols := spec["volumes"].([]interface{})
	require.Len(t, vols, 1)
	assert.Equal(t, "/volumes/data", vols[0].(map[string]interface{})["mountPath"])
	assert.Equal(t, "pinta-volume-1", vols[0].(map[string]interface{})["volumeClaimName"])

	got, err := h.svc.Get(context.Background(), h.alice, j.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, job.StatusScheduled, *got.Status)

	h.cluster.phase = "Running"
	got, err = h.svc.Get(context.Background(), h.alice, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusRunning, *got.Status)
}

func TestCreate_ForeignPrivateVolumeRejected(t *testing.T) {
	h := newHarness(t)
	sub := symmetric(true)
	sub.Volumes = "bob/secret"

	_, err := h.svc.Create(context.Background(), h.alice, sub)
	require.Error(t, err)
	assert.True(t, errors.Is(err, access.ErrNotFound))
	assert.Equal(t, "Volume bob/secret does not exist", err.Error())
	assert.Equal(t, 0, h.jobs.count())
	assert.Empty(t, h.cluster.jobs)
}

func TestCreate_ForeignPublicVolumeAccepted(t *testing.T) {
	h := newHarness(t)
	sub := symmetric(false)
	sub.Volumes = " data , bob/shared ,"

	j, err := h.svc.Create(context.Background(), h.alice, sub)
	require.NoError(t, err)
	assert.False(t, j.Scheduled)
}

func TestCreate_PrivateImageIsQualified(t *testing.T) {
	h := newHarness(t)
	sub := symmetric(false)
	sub.FromPrivate = true
	sub.Image = "bob/pub"

	j, err := h.svc.Create(context.Background(), h.alice, sub)
	require.NoError(t, err)
	assert.Equal(t, testRegistry+"/bob/pub", j.Image)
}

func TestCreate_SubmitFailureRemovesRecord(t *testing.T) {
	h := newHarness(t)
	h.cluster.createErr = errors.Join(k8s.ErrCluster, errors.New("admission denied"))

	_, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, k8s.ErrCluster))
	assert.Equal(t, 0, h.jobs.count())
}

func TestCreate_MarkFailureTearsDown(t *testing.T) {
	h := newHarness(t)
	h.jobs.updateErr = errors.New("db gone")

	_, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.Error(t, err)
	assert.Equal(t, 0, h.jobs.count())
	assert.False(t, h.cluster.has("pinta-job-1"))
	assert.Contains(t, h.cluster.deleted, "pinta-job-1")
}

// ---------------- Schedule ----------------

func TestSchedule_EveryTopologyOnlyOnce(t *testing.T) {
	subs := map[string]job.Submission{
		"symmetric": symmetric(false),
		"ps-worker": {Name: "ps", Image: "img", Topology: job.PSWorker{PSCommand: "ps", WorkerCommand: "w", NumPS: 1, NumWorkers: 3}},
		"mpi":       {Name: "mpi", Image: "img", Topology: job.MPI{MasterCommand: "mpirun", ReplicaCommand: "sleep inf", NumReplicas: 2}},
		"builder":   builder(false),
	}
	for name, sub := range subs {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			j, err := h.svc.Create(context.Background(), h.alice, sub)
			require.NoError(t, err)
			assert.False(t, j.Scheduled)
			assert.Empty(t, h.cluster.jobs)

			scheduled, err := h.svc.Schedule(context.Background(), h.alice, j.ID)
			require.NoError(t, err)
			assert.True(t, scheduled.Scheduled)
			assert.True(t, h.cluster.has(j.ResourceName()))

			_, err = h.svc.Schedule(context.Background(), h.alice, j.ID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, access.ErrInvalidState))
			assert.Equal(t, "Job already scheduled", err.Error())
		})
	}
}

func TestSchedule_Ownership(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	_, err = h.svc.Schedule(context.Background(), h.bob, j.ID)
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
	assert.Empty(t, h.cluster.jobs)

	// superusers act on behalf of the owner, so "data" still means alice's volume
	_, err = h.svc.Schedule(context.Background(), h.admin, j.ID)
	require.NoError(t, err)
	assert.True(t, h.cluster.has(j.ResourceName()))
}

func TestSchedule_SubmitFailureKeepsJobUnscheduled(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	h.cluster.createErr = k8s.ErrCluster
	_, err = h.svc.Schedule(context.Background(), h.alice, j.ID)
	require.ErrorIs(t, err, k8s.ErrCluster)

	stored, err := h.jobs.GetByID(j.ID)
	require.NoError(t, err)
	assert.False(t, stored.Scheduled)
	assert.Empty(t, stored.Manifest)
}

func TestSchedule_MissingJob(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Schedule(context.Background(), h.alice, 42)
	assert.ErrorIs(t, err, access.ErrNotFound)
}

// ---------------- Update ----------------

func TestUpdate_ReplacesDefinition(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	sub := job.Submission{
		Name:     "mpi-run",
		Image:    "horovod/horovod",
		Topology: job.MPI{MasterCommand: "mpirun", ReplicaCommand: "sleep inf", NumReplicas: 4},
	}
	updated, err := h.svc.Update(context.Background(), h.alice, j.ID, sub)
	require.NoError(t, err)
	assert.Equal(t, job.TypeMPI, updated.Type)
	assert.Equal(t, 1, *updated.NumMasters)
	assert.Equal(t, 4, *updated.NumReplicas)
	assert.False(t, updated.Scheduled)
}

func TestUpdate_ScheduledJobRejected(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)

	_, err = h.svc.Update(context.Background(), h.alice, j.ID, symmetric(false))
	assert.ErrorIs(t, err, access.ErrInvalidState)
}

func TestUpdate_FailedSubmitLeavesRecordUntouched(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	h.cluster.createErr = k8s.ErrCluster
	sub := symmetric(true)
	sub.Name = "renamed"
	_, err = h.svc.Update(context.Background(), h.alice, j.ID, sub)
	require.Error(t, err)

	stored, err := h.jobs.GetByID(j.ID)
	require.NoError(t, err)
	assert.Equal(t, "train", stored.Name)
	assert.False(t, stored.Scheduled)
}

// ---------------- Delete ----------------

func TestDelete_MissingJobIsNoop(t *testing.T) {
	h := newHarness(t)
	assert.NoError(t, h.svc.Delete(context.Background(), h.alice, 99))
}

func TestDelete_ClusterResourceAlreadyGone(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)
	require.NoError(t, h.cluster.DeleteJob(context.Background(), j.ResourceName()))

	require.NoError(t, h.svc.Delete(context.Background(), h.alice, j.ID))
	assert.Equal(t, 0, h.jobs.count())
}

func TestDelete_OtherUsersJob(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)

	err = h.svc.Delete(context.Background(), h.bob, j.ID)
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
	assert.Equal(t, 1, h.jobs.count())
	assert.True(t, h.cluster.has(j.ResourceName()))
}

func TestDelete_HoldsRowLock(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)

	require.NoError(t, h.svc.Delete(context.Background(), h.alice, j.ID))
	assert.Equal(t, []uint{j.ID}, h.jobs.locked)
	assert.Equal(t, 0, h.jobs.count())
	assert.False(t, h.cluster.has(j.ResourceName()))
}

func TestDelete_ArchivesEveryPodLog(t *testing.T) {
	h := newHarness(t)
	sub := job.Submission{Name: "mpi", Image: "img", Schedule: true,
		Topology: job.MPI{MasterCommand: "mpirun", ReplicaCommand: "sleep inf", NumReplicas: 2}}
	j, err := h.svc.Create(context.Background(), h.alice, sub)
	require.NoError(t, err)
	h.cluster.logs["pinta-job-1-master-0"] = "done\n"

	require.NoError(t, h.svc.Delete(context.Background(), h.alice, j.ID))
	assert.Len(t, h.archiver.objects, 3)
	assert.Equal(t, "done\n", h.archiver.objects["jobs/1/pinta-job-1-master-0.log"])
	assert.Contains(t, h.archiver.objects, "jobs/1/pinta-job-1-replica-1.log")
	assert.False(t, h.cluster.has(j.ResourceName()))
}

func TestOwnership_NonOwnerRejected(t *testing.T) {
	ops := []struct {
		name string
		run  func(h *harness, caller access.Subject, id uint) error
	}{
		{"get", func(h *harness, caller access.Subject, id uint) error {
			_, err := h.svc.Get(context.Background(), caller, id)
			return err
		}},
		{"delete", func(h *harness, caller access.Subject, id uint) error {
			return h.svc.Delete(context.Background(), caller, id)
		}},
		{"schedule", func(h *harness, caller access.Subject, id uint) error {
			_, err := h.svc.Schedule(context.Background(), caller, id)
			return err
		}},
	}
	for _, scheduled := range []bool{false, true} {
		for _, op := range ops {
			name := op.name + "/unscheduled"
			if scheduled {
				name = op.name + "/scheduled"
			}
			t.Run(name, func(t *testing.T) {
				h := newHarness(t)
				j, err := h.svc.Create(context.Background(), h.alice, symmetric(scheduled))
				require.NoError(t, err)
				created := len(h.cluster.jobs)

				err = op.run(h, h.bob, j.ID)
				assert.ErrorIs(t, err, access.ErrPermissionDenied)

				stored, err := h.jobs.GetByID(j.ID)
				require.NoError(t, err)
				assert.Equal(t, scheduled, stored.Scheduled)
				assert.Len(t, h.cluster.jobs, created)
				assert.Empty(t, h.cluster.deleted)

				got, err := h.svc.Get(context.Background(), h.admin, j.ID)
				require.NoError(t, err)
				assert.Equal(t, j.ID, got.ID)
			})
		}
	}
}

// ---------------- List ----------------

func TestList_FiltersByOwnerAndPages(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		_, err := h.svc.Create(context.Background(), h.alice, symmetric(i%2 == 0))
		require.NoError(t, err)
	}
	_, err := h.svc.Create(context.Background(), h.bob, job.Submission{
		Name: "bob", Image: "img", Topology: job.Symmetric{Command: "true", NumReplicas: 1}})
	require.NoError(t, err)

	mine, err := h.svc.List(context.Background(), h.alice, types.Paging{})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.NotNil(t, mine[0].Status)
	assert.Nil(t, mine[1].Status)

	all, err := h.svc.List(context.Background(), h.admin, types.Paging{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint(2), all[0].ID)
}

// ---------------- Commit ----------------

func TestCommit_ImageBuilder(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)

	img, err := h.svc.Commit(context.Background(), h.alice, j.ID, "my-img")
	require.NoError(t, err)
	assert.Equal(t, uint(1), img.OwnerID)
	assert.Equal(t, "my-img", img.Name)

	require.Len(t, h.cluster.ran, 1)
	target := h.cluster.ran[0]
	assert.Equal(t, "pinta-job-1-image-builder-0", target.Pod)
	assert.Equal(t, workload.DockerCLIContainer, target.Container)
	assert.Equal(t, workload.CommitCommand(testRegistry+"/alice/my-img"), target.Command)

	assert.Equal(t, 0, h.jobs.count())
	assert.Contains(t, h.cluster.deleted, "pinta-job-1")
	_, err = h.images.GetByOwnerAndName(1, "my-img")
	assert.NoError(t, err)
}

func TestCommit_Guards(t *testing.T) {
	h := newHarness(t)
	sym, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)
	idle, err := h.svc.Create(context.Background(), h.alice, builder(false))
	require.NoError(t, err)
	live, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)
	require.NoError(t, h.images.Create(&image.Image{OwnerID: 1, Name: "taken"}))

	_, err = h.svc.Commit(context.Background(), h.alice, sym.ID, "x")
	assert.ErrorIs(t, err, access.ErrInvalidState)

	_, err = h.svc.Commit(context.Background(), h.alice, idle.ID, "x")
	assert.ErrorIs(t, err, access.ErrInvalidState)

	_, err = h.svc.Commit(context.Background(), h.alice, live.ID, "taken")
	assert.ErrorIs(t, err, access.ErrConflict)

	_, err = h.svc.Commit(context.Background(), h.alice, live.ID, "Bad Name")
	assert.ErrorIs(t, err, job.ErrInvalidInput)

	_, err = h.svc.Commit(context.Background(), h.bob, live.ID, "x")
	assert.ErrorIs(t, err, access.ErrPermissionDenied)

	assert.Empty(t, h.cluster.ran)
}

func TestCommit_CommandFailureKeepsJob(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)
	h.cluster.runErr = k8s.ErrCluster

	_, err = h.svc.Commit(context.Background(), h.alice, j.ID, "my-img")
	require.ErrorIs(t, err, k8s.ErrCluster)
	assert.Equal(t, 1, h.jobs.count())
	assert.Empty(t, h.images.items[1:])
}

func TestCommit_NameTakenDuringPushIsConflict(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)

	// a second commit of the same name completes while this push runs
	h.cluster.onRun = func() {
		require.NoError(t, h.images.Create(&image.Image{OwnerID: 1, Name: "my-img"}))
	}
	_, err = h.svc.Commit(context.Background(), h.alice, j.ID, "my-img")
	require.ErrorIs(t, err, access.ErrConflict)
	assert.Equal(t, "Image my-img already exists", err.Error())

	assert.Equal(t, 1, h.jobs.count())
	assert.True(t, h.cluster.has(j.ResourceName()))
}

func statusFrame(status string) frame {
	payload, _ := json.Marshal(map[string]string{"status": status})
	return frame{mt: websocket.BinaryMessage, data: append([]byte{stream.ErrorChannel}, payload...)}
}

func TestCommitSession_FinalizesOnSuccess(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)

	upstream := newFakeConn()
	upstream.in <- frame{mt: websocket.BinaryMessage, data: []byte("\x01pushing\n")}
	upstream.in <- statusFrame("Success")
	close(upstream.in)
	h.cluster.upstream = upstream

	client := newFakeConn()
	require.NoError(t, h.svc.CommitSession(context.Background(), h.alice, j.ID, "my-img", client))

	require.Len(t, h.cluster.opened, 1)
	assert.True(t, h.cluster.opened[0].TTY)
	assert.Equal(t, 0, h.jobs.count())
	_, err = h.images.GetByOwnerAndName(1, "my-img")
	assert.NoError(t, err)
	assert.NotEmpty(t, client.frames())
}

func TestCommitSession_FailureKeepsJob(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)

	upstream := newFakeConn()
	upstream.in <- statusFrame("Failure")
	close(upstream.in)
	h.cluster.upstream = upstream

	require.NoError(t, h.svc.CommitSession(context.Background(), h.alice, j.ID, "my-img", newFakeConn()))
	assert.Equal(t, 1, h.jobs.count())
	_, err = h.images.GetByOwnerAndName(1, "my-img")
	assert.Error(t, err)
}

// ---------------- Exec / Watch ----------------

func TestExecSession_Target(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)

	upstream := newFakeConn()
	close(upstream.in)
	h.cluster.upstream = upstream

	err = h.svc.ExecSession(context.Background(), h.alice, j.ID, job.ExecInput{Command: "ls", Index: 1}, newFakeConn())
	require.NoError(t, err)
	require.Len(t, h.cluster.opened, 1)
	target := h.cluster.opened[0]
	assert.Equal(t, "pinta-job-1-replica-1", target.Pod)
	assert.Equal(t, "replica", target.Container)
	assert.Equal(t, []string{"/bin/sh", "-c", "ls"}, target.Command)
}

func TestExecSession_Rejections(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)
	idle, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller access.Subject
		id     uint
		in     job.ExecInput
		want   error
	}{
		{"unknown role", h.alice, j.ID, job.ExecInput{Role: "ps"}, access.ErrInvalidState},
		{"index out of range", h.alice, j.ID, job.ExecInput{Index: 2}, access.ErrInvalidState},
		{"negative index", h.alice, j.ID, job.ExecInput{Index: -1}, access.ErrInvalidState},
		{"not scheduled", h.alice, idle.ID, job.ExecInput{}, access.ErrInvalidState},
		{"not owner", h.bob, j.ID, job.ExecInput{}, access.ErrPermissionDenied},
		{"missing job", h.alice, 77, job.ExecInput{}, access.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.svc.ExecSession(context.Background(), tt.caller, tt.id, tt.in, newFakeConn())
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, h.cluster.opened)
}

func TestExecSession_UpstreamRefused(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(true))
	require.NoError(t, err)
	h.cluster.openErr = k8s.ErrCluster

	err = h.svc.ExecSession(context.Background(), h.alice, j.ID, job.ExecInput{}, newFakeConn())
	assert.ErrorIs(t, err, k8s.ErrCluster)
}

func TestExecSession_ImageBuilderWrapsCommand(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, builder(true))
	require.NoError(t, err)
	upstream := newFakeConn()
	close(upstream.in)
	h.cluster.upstream = upstream

	err = h.svc.ExecSession(context.Background(), h.alice, j.ID, job.ExecInput{TTY: true}, newFakeConn())
	require.NoError(t, err)
	target := h.cluster.opened[0]
	assert.Equal(t, workload.DockerCLIContainer, target.Container)
	assert.Equal(t, workload.ExecCommand(job.TypeImageBuilder, "sh", true), target.Command)
}

func TestWatchSession_TailsLog(t *testing.T) {
	h := newHarness(t)
	sub := job.Submission{Name: "ps", Image: "img", Schedule: true,
		Topology: job.PSWorker{PSCommand: "ps", WorkerCommand: "w", NumPS: 1, NumWorkers: 2}}
	j, err := h.svc.Create(context.Background(), h.alice, sub)
	require.NoError(t, err)
	h.cluster.logs["pinta-job-1-ps-0"] = "a\nb\n"

	client := newFakeConn()
	err = h.svc.WatchSession(context.Background(), h.alice, j.ID, job.WatchInput{Role: "ps"}, client)
	require.NoError(t, err)

	opts := h.cluster.logOpts[len(h.cluster.logOpts)-1]
	assert.Equal(t, "pinta-job-1-ps-0", opts.Pod)
	assert.Equal(t, "ps", opts.Container)
	assert.True(t, opts.Follow)
	require.NotNil(t, opts.TailLines)
	assert.EqualValues(t, 100, *opts.TailLines)

	frames := client.frames()
	require.GreaterOrEqual(t, len(frames), 2)
	assert.Equal(t, []byte("\x01a\n"), frames[0].data)
	assert.Equal(t, []byte("\x01b\n"), frames[1].data)
}

// ---------------- Manifest ----------------

func TestManifest_DryRunAndStored(t *testing.T) {
	h := newHarness(t)
	j, err := h.svc.Create(context.Background(), h.alice, symmetric(false))
	require.NoError(t, err)

	doc, err := h.svc.Manifest(context.Background(), h.alice, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "PintaJob", doc["kind"])
	assert.Empty(t, h.cluster.jobs)

	_, err = h.svc.Schedule(context.Background(), h.alice, j.ID)
	require.NoError(t, err)
	stored, err := h.svc.Manifest(context.Background(), h.alice, j.ID)
	require.NoError(t, err)
	name, _, _ := unstructured.NestedString(stored, "metadata", "name")
	assert.Equal(t, "pinta-job-1", name)
}
