package k8s

import (
	"context"
	"io"

	"github.com/linskybing/pinta-go/pkg/stream"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

//go:generate mockgen -source=cluster.go -destination=mock/cluster.go -package=mock

// Cluster is the cluster surface used by the job and volume services.
type Cluster interface {
	CreateJob(ctx context.Context, doc *unstructured.Unstructured) error
	GetJob(ctx context.Context, name string) (*unstructured.Unstructured, error)
	DeleteJob(ctx context.Context, name string) error
	RunCommand(ctx context.Context, target ExecTarget) (string, error)
	OpenExec(ctx context.Context, target ExecTarget) (stream.Conn, error)
	StreamLogs(ctx context.Context, opts LogOptions) (io.ReadCloser, error)
	CreateVolumeClaim(ctx context.Context, name, capacity string) error
	DeleteVolumeClaim(ctx context.Context, name string) error
}

// ExecTarget addresses one container and the command to run in it.
type ExecTarget struct {
	Pod       string
	Container string
	Command   []string
	TTY       bool
}

type LogOptions struct {
	Pod       string
	Container string
	Follow    bool
	TailLines *int64
}

var _ Cluster = (*Client)(nil)
