package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Type is the topology discriminator stored with every job and sent to the
// cluster as spec.type.
type Type string

const (
	TypeSymmetric    Type = "symmetric"
	TypePSWorker     Type = "ps-worker"
	TypeMPI          Type = "mpi"
	TypeImageBuilder Type = "image-builder"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSymmetric, TypePSWorker, TypeMPI, TypeImageBuilder:
		return true
	}
	return false
}

// MasterRole returns the master-like role name, or "" when the topology has none.
func (t Type) MasterRole() string {
	switch t {
	case TypePSWorker:
		return "ps"
	case TypeMPI:
		return "master"
	}
	return ""
}

// ReplicaRole returns the role every topology has at least one pod of.
func (t Type) ReplicaRole() string {
	switch t {
	case TypePSWorker:
		return "worker"
	case TypeMPI, TypeSymmetric:
		return "replica"
	case TypeImageBuilder:
		return "image-builder"
	}
	return ""
}

// HasRole reports whether role addresses a pod group of this topology.
func (t Type) HasRole(role string) bool {
	if role == "" {
		return false
	}
	return role == t.ReplicaRole() || role == t.MasterRole()
}

// Status is the user-visible state computed on read. It is never persisted.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Job is the persisted record. Topology specific fields are flattened into
// nullable columns; Topology() rebuilds the typed view.
type Job struct {
	ID             uint           `gorm:"primaryKey;column:id" json:"id"`
	OwnerID        uint           `gorm:"not null;index;column:owner_id" json:"owner_id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Type           Type           `gorm:"size:20;not null" json:"type"`
	Image          string         `gorm:"size:255;not null" json:"image"`
	Volumes        string         `gorm:"type:text" json:"volumes"`
	WorkingDir     string         `gorm:"size:255" json:"working_dir"`
	MasterCommand  *string        `gorm:"type:text" json:"master_command"`
	ReplicaCommand *string        `gorm:"type:text" json:"replica_command"`
	NumMasters     *int           `json:"num_masters"`
	NumReplicas    *int           `json:"num_replicas"`
	Ports          string         `gorm:"size:255" json:"ports"`
	Scheduled      bool           `gorm:"default:false" json:"scheduled"`
	Manifest       datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// ResourceName is the name of the PintaJob custom resource backing this job.
func (j Job) ResourceName() string {
	return ResourceNameFor(j.ID)
}

func ResourceNameFor(id uint) string {
	return fmt.Sprintf("pinta-job-%d", id)
}

// PodName addresses one pod of a running job.
func PodName(id uint, role string, index int) string {
	return fmt.Sprintf("pinta-job-%d-%s-%d", id, role, index)
}

// PortList parses the comma separated Ports column. Invalid entries are skipped.
func (j Job) PortList() []int32 {
	var ports []int32
	for _, p := range strings.Split(j.Ports, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil || n <= 0 || n > 65535 {
			continue
		}
		ports = append(ports, int32(n))
	}
	return ports
}

// Topology is a closed sum over the four job kinds. Each variant carries only
// the fields meaningful for it.
type Topology interface {
	Type() Type
	sealed()
}

type Symmetric struct {
	Command     string
	NumReplicas int
}

type PSWorker struct {
	PSCommand     string
	WorkerCommand string
	NumPS         int
	NumWorkers    int
}

type MPI struct {
	MasterCommand  string
	ReplicaCommand string
	NumReplicas    int
}

// ImageBuilder runs BaseImage inside a docker-in-docker pod so it can be
// modified interactively and committed.
type ImageBuilder struct {
	BaseImage string
}

func (Symmetric) Type() Type    { return TypeSymmetric }
func (PSWorker) Type() Type     { return TypePSWorker }
func (MPI) Type() Type          { return TypeMPI }
func (ImageBuilder) Type() Type { return TypeImageBuilder }

func (Symmetric) sealed()    {}
func (PSWorker) sealed()     {}
func (MPI) sealed()          {}
func (ImageBuilder) sealed() {}

// Topology decodes the flattened columns into the typed variant.
func (j Job) Topology() (Topology, error) {
	switch j.Type {
	case TypeSymmetric:
		return Symmetric{Command: deref(j.ReplicaCommand), NumReplicas: derefInt(j.NumReplicas)}, nil
	case TypePSWorker:
		return PSWorker{
			PSCommand:     deref(j.MasterCommand),
			WorkerCommand: deref(j.ReplicaCommand),
			NumPS:         derefInt(j.NumMasters),
			NumWorkers:    derefInt(j.NumReplicas),
		}, nil
	case TypeMPI:
		return MPI{
			MasterCommand:  deref(j.MasterCommand),
			ReplicaCommand: deref(j.ReplicaCommand),
			NumReplicas:    derefInt(j.NumReplicas),
		}, nil
	case TypeImageBuilder:
		return ImageBuilder{BaseImage: j.Image}, nil
	}
	return nil, fmt.Errorf("unknown job type %q", j.Type)
}

// ApplyTopology flattens t into the record, clearing fields t does not use.
func (j *Job) ApplyTopology(t Topology) {
	j.Type = t.Type()
	j.MasterCommand, j.ReplicaCommand = nil, nil
	j.NumMasters, j.NumReplicas = nil, nil
	switch v := t.(type) {
	case Symmetric:
		j.ReplicaCommand = &v.Command
		j.NumReplicas = &v.NumReplicas
	case PSWorker:
		j.MasterCommand = &v.PSCommand
		j.ReplicaCommand = &v.WorkerCommand
		j.NumMasters = &v.NumPS
		j.NumReplicas = &v.NumWorkers
	case MPI:
		one := 1
		j.MasterCommand = &v.MasterCommand
		j.ReplicaCommand = &v.ReplicaCommand
		j.NumMasters = &one
		j.NumReplicas = &v.NumReplicas
	case ImageBuilder:
		one := 1
		j.Image = v.BaseImage
		j.WorkingDir = ""
		j.Ports = ""
		j.NumReplicas = &one
	}
}

// JobWithStatus is the response projection: the stored record plus the
// status computed from the cluster. Status is nil for unscheduled jobs.
type JobWithStatus struct {
	Job
	Status *Status `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
