package k8s

import (
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
)

// StreamLogs opens the log stream of one container. The caller closes it.
func (c *Client) StreamLogs(ctx context.Context, opts LogOptions) (io.ReadCloser, error) {
	req := c.kube.CoreV1().Pods(c.namespace).GetLogs(opts.Pod, &corev1.PodLogOptions{
		Container: opts.Container,
		Follow:    opts.Follow,
		TailLines: opts.TailLines,
	})
	rc, err := req.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: logs of %s: %v", ErrCluster, opts.Pod, err)
	}
	return rc, nil
}
