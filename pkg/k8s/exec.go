package k8s

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/linskybing/pinta-go/pkg/stream"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	wstransport "k8s.io/client-go/transport/websocket"
)

// ChannelProtocol is the exec subprotocol spoken on the upstream leg.
const ChannelProtocol = "v4.channel.k8s.io"

func (c *Client) execRequest(target ExecTarget, stdin bool) *rest.Request {
	req := c.kube.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Name(target.Pod).
		Namespace(c.namespace).
		SubResource("exec")
	req.VersionedParams(&corev1.PodExecOptions{
		Container: target.Container,
		Command:   target.Command,
		Stdin:     stdin,
		Stdout:    true,
		Stderr:    !target.TTY,
		TTY:       target.TTY,
	}, scheme.ParameterCodec)
	return req
}

// RunCommand executes a command without stdin and returns its combined
// output once it exits.
func (c *Client) RunCommand(ctx context.Context, target ExecTarget) (string, error) {
	target.TTY = false
	req := c.execRequest(target, false)
	executor, err := remotecommand.NewSPDYExecutor(c.config, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("%w: init executor: %v", ErrCluster, err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	out := stdout.String() + stderr.String()
	if err != nil {
		return out, fmt.Errorf("%w: exec in %s/%s: %v", ErrCluster, target.Pod, target.Container, err)
	}
	return out, nil
}

// OpenExec dials the pod exec endpoint over websocket and returns the raw
// channel stream. Frames on it are prefixed with a channel byte. The dial goes
// through the rest config transport so every kubeconfig auth mode applies.
func (c *Client) OpenExec(ctx context.Context, target ExecTarget) (stream.Conn, error) {
	rt, holder, err := wstransport.RoundTripperFor(c.config)
	if err != nil {
		return nil, fmt.Errorf("%w: exec transport: %v", ErrCluster, err)
	}
	u := c.execRequest(target, true).URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: exec %s: %v", ErrCluster, target.Pod, err)
	}
	conn, err := wstransport.Negotiate(rt, holder, req, ChannelProtocol)
	if err != nil {
		return nil, fmt.Errorf("%w: exec %s: %v", ErrCluster, target.Pod, err)
	}
	return conn, nil
}
