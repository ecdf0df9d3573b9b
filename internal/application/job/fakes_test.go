package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/linskybing/pinta-go/internal/domain/image"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/internal/repository"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/stream"
	"gorm.io/gorm"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ---------- repositories ----------

type fakeUsers struct {
	byID map[uint]*user.User
}

func (f *fakeUsers) Create(u *user.User) error {
	u.ID = uint(len(f.byID) + 1)
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUsers) GetByID(id uint) (*user.User, error) {
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByUsername(name string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Username == name {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) WithTx(*gorm.DB) repository.UserRepo { return f }

type fakeVolumes struct {
	items []volume.Volume
}

func (f *fakeVolumes) Create(v *volume.Volume) error {
	v.ID = uint(len(f.items) + 1)
	f.items = append(f.items, *v)
	return nil
}

func (f *fakeVolumes) GetByID(id uint) (*volume.Volume, error) {
	for _, v := range f.items {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVolumes) GetByOwnerAndName(ownerID uint, name string) (*volume.Volume, error) {
	for _, v := range f.items {
		if v.OwnerID == ownerID && v.Name == name {
			c := v
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVolumes) List(ownerID *uint, skip, limit int) ([]volume.Volume, error) {
	return nil, errors.New("not used")
}

func (f *fakeVolumes) Delete(id uint) error { return errors.New("not used") }

func (f *fakeVolumes) WithTx(*gorm.DB) repository.VolumeRepo { return f }

type fakeImages struct {
	items []image.Image
}

func (f *fakeImages) Create(img *image.Image) error {
	for _, existing := range f.items {
		if existing.OwnerID == img.OwnerID && existing.Name == img.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	img.ID = uint(len(f.items) + 1)
	f.items = append(f.items, *img)
	return nil
}

func (f *fakeImages) GetByID(id uint) (*image.Image, error) {
	for _, img := range f.items {
		if img.ID == id {
			c := img
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImages) GetByOwnerAndName(ownerID uint, name string) (*image.Image, error) {
	for _, img := range f.items {
		if img.OwnerID == ownerID && img.Name == name {
			c := img
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImages) List(ownerID *uint, skip, limit int) ([]image.Image, error) {
	return f.items, nil
}

func (f *fakeImages) Delete(id uint) error { return errors.New("not used") }

func (f *fakeImages) WithTx(*gorm.DB) repository.ImageRepo { return f }

type fakeJobs struct {
	mu        sync.Mutex
	byID      map[uint]job.Job
	nextID    uint
	updateErr error
	locked    []uint
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{byID: map[uint]job.Job{}}
}

func (f *fakeJobs) Create(j *job.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	j.ID = f.nextID
	f.byID[j.ID] = *j
	return nil
}

func (f *fakeJobs) GetByID(id uint) (*job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &j, nil
}

func (f *fakeJobs) GetByIDForUpdate(id uint) (*job.Job, error) {
	f.mu.Lock()
	f.locked = append(f.locked, id)
	f.mu.Unlock()
	return f.GetByID(id)
}

func (f *fakeJobs) List(ownerID *uint, skip, limit int) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []job.Job
	for _, j := range f.byID {
		if ownerID == nil || j.OwnerID == *ownerID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	if skip >= len(out) {
		return []job.Job{}, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobs) Update(j *job.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[j.ID] = *j
	return nil
}

func (f *fakeJobs) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeJobs) WithTx(*gorm.DB) repository.JobRepo { return f }

func (f *fakeJobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// ---------- cluster ----------

type fakeCluster struct {
	mu        sync.Mutex
	jobs      map[string]*unstructured.Unstructured
	phase     string
	createErr error
	deleted   []string

	ran    []k8s.ExecTarget
	runErr error
	onRun  func()

	upstream stream.Conn
	openErr  error
	opened   []k8s.ExecTarget

	logs    map[string]string
	logOpts []k8s.LogOptions
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		jobs:  map[string]*unstructured.Unstructured{},
		phase: "Pending",
		logs:  map[string]string{},
	}
}

func (f *fakeCluster) CreateJob(_ context.Context, doc *unstructured.Unstructured) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.jobs[doc.GetName()] = doc.DeepCopy()
	return nil
}

func (f *fakeCluster) GetJob(_ context.Context, name string) (*unstructured.Unstructured, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: pintajob %s not found", k8s.ErrCluster, name)
	}
	out := doc.DeepCopy()
	_ = unstructured.SetNestedField(out.Object, f.phase, "status", "state", "phase")
	return out, nil
}

func (f *fakeCluster) DeleteJob(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeCluster) RunCommand(_ context.Context, target k8s.ExecTarget) (string, error) {
	f.mu.Lock()
	f.ran = append(f.ran, target)
	hook, err := f.onRun, f.runErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return "pushed", err
}

func (f *fakeCluster) OpenExec(_ context.Context, target k8s.ExecTarget) (stream.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, target)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.upstream, nil
}

func (f *fakeCluster) StreamLogs(_ context.Context, opts k8s.LogOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOpts = append(f.logOpts, opts)
	return io.NopCloser(bytes.NewBufferString(f.logs[opts.Pod])), nil
}

func (f *fakeCluster) CreateVolumeClaim(context.Context, string, string) error { return nil }

func (f *fakeCluster) DeleteVolumeClaim(context.Context, string) error { return nil }

func (f *fakeCluster) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[name]
	return ok
}

// ---------- archiver ----------

type fakeArchiver struct {
	objects map[string]string
}

func (f *fakeArchiver) Archive(_ context.Context, name string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[name] = string(b)
	return nil
}

// ---------- websocket ----------

var errConnClosed = errors.New("use of closed connection")

type frame struct {
	mt   int
	data []byte
}

type fakeConn struct {
	in        chan frame
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written []frame
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan frame, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m, ok := <-f.in:
		if !ok {
			return 0, nil, io.EOF
		}
		return m.mt, m.data, nil
	case <-f.closed:
		return 0, nil, errConnClosed
	}
}

func (f *fakeConn) WriteMessage(mt int, data []byte) error {
	select {
	case <-f.closed:
		return errConnClosed
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, frame{mt: mt, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) frames() []frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]frame(nil), f.written...)
}
