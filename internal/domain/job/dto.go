package job

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidInput = errors.New("invalid job input")

// JobInput is the request body for creating or updating a job. Which command
// and count fields are required depends on Type.
type JobInput struct {
	Name           string `json:"name" binding:"required,max=100" example:"mnist-train"`
	Description    string `json:"description" example:"distributed mnist"`
	Type           Type   `json:"type" example:"symmetric"`
	Image          string `json:"image" example:"tensorflow/tensorflow:2.4.0"`
	FromImage      string `json:"from_image" example:"alpine:latest"`
	FromPrivate    *bool  `json:"from_private" example:"false"`
	Volumes        string `json:"volumes" example:"mnist,admin/imagenet"`
	WorkingDir     string `json:"working_dir" example:"/volumes/mnist"`
	Ports          string `json:"ports" example:"8888,6006"`
	Command        string `json:"command"`
	PSCommand      string `json:"ps_command"`
	WorkerCommand  string `json:"worker_command"`
	MasterCommand  string `json:"master_command"`
	ReplicaCommand string `json:"replica_command"`
	NumReplicas    int    `json:"num_replicas" example:"2"`
	NumPS          int    `json:"num_ps"`
	NumWorkers     int    `json:"num_workers"`
	Schedule       *bool  `json:"schedule" example:"true"`
}

// Submission is a validated JobInput.
type Submission struct {
	Name        string
	Description string
	Image       string
	FromPrivate bool
	Volumes     string
	WorkingDir  string
	Ports       string
	Schedule    bool
	Topology    Topology
}

// ToSubmission validates the fields required by in.Type and builds the typed
// topology. from_private and schedule default to true when omitted.
func (in JobInput) ToSubmission() (Submission, error) {
	sub := Submission{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Image:       strings.TrimSpace(in.Image),
		FromPrivate: in.FromPrivate == nil || *in.FromPrivate,
		Volumes:     in.Volumes,
		WorkingDir:  in.WorkingDir,
		Ports:       in.Ports,
		Schedule:    in.Schedule == nil || *in.Schedule,
	}
	if sub.Name == "" {
		return Submission{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	switch in.Type {
	case TypeSymmetric:
		if in.Command == "" || in.NumReplicas < 1 {
			return Submission{}, fmt.Errorf("%w: symmetric jobs need command and num_replicas >= 1", ErrInvalidInput)
		}
		sub.Topology = Symmetric{Command: in.Command, NumReplicas: in.NumReplicas}
	case TypePSWorker:
		if in.PSCommand == "" || in.WorkerCommand == "" || in.NumPS < 1 || in.NumWorkers < 1 {
			return Submission{}, fmt.Errorf("%w: ps-worker jobs need ps_command, worker_command, num_ps and num_workers", ErrInvalidInput)
		}
		sub.Topology = PSWorker{
			PSCommand:     in.PSCommand,
			WorkerCommand: in.WorkerCommand,
			NumPS:         in.NumPS,
			NumWorkers:    in.NumWorkers,
		}
	case TypeMPI:
		if in.MasterCommand == "" || in.ReplicaCommand == "" || in.NumReplicas < 1 {
			return Submission{}, fmt.Errorf("%w: mpi jobs need master_command, replica_command and num_replicas >= 1", ErrInvalidInput)
		}
		sub.Topology = MPI{MasterCommand: in.MasterCommand, ReplicaCommand: in.ReplicaCommand, NumReplicas: in.NumReplicas}
	case TypeImageBuilder:
		base := strings.TrimSpace(in.FromImage)
		if base == "" {
			base = sub.Image
		}
		if base == "" {
			return Submission{}, fmt.Errorf("%w: image-builder jobs need from_image", ErrInvalidInput)
		}
		sub.Image = base
		sub.WorkingDir = ""
		sub.Ports = ""
		sub.Topology = ImageBuilder{BaseImage: base}
		return sub, nil
	default:
		return Submission{}, fmt.Errorf("%w: unknown job type %q", ErrInvalidInput, in.Type)
	}

	if sub.Image == "" {
		return Submission{}, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	return sub, nil
}

// ExecInput holds the query parameters of an interactive exec session.
type ExecInput struct {
	Command string `form:"command"`
	TTY     bool   `form:"tty"`
	Role    string `form:"role"`
	Index   int    `form:"index"`
}

// WatchInput holds the query parameters of a log tail session.
type WatchInput struct {
	Role  string `form:"role"`
	Index int    `form:"index"`
}
