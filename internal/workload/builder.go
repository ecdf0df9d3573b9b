package workload

import (
	"fmt"
	"strings"

	"github.com/linskybing/pinta-go/internal/domain/job"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	Group    = "pinta.qed.usc.edu"
	Version  = "v1"
	Kind     = "PintaJob"
	Resource = "pintajobs"

	ControlPort     = 2222
	ControlPortName = "pinta-job-port"
	VolumeMountRoot = "/volumes/"

	DockerdContainer   = "dockerd"
	DockerCLIContainer = "docker-cli"
	BuilderContainer   = "image-builder-container"

	dindImage          = "docker:stable-dind"
	dockerCLIImage     = "docker:stable"
	dockerHost         = "tcp://127.0.0.1:2375"
	daemonConfigVolume = "config-volume"
	daemonConfigMap    = "docker-insecure-registries"
)

// Mount is a resolved volume reference.
type Mount struct {
	Name      string
	ClaimName string
}

func (m Mount) MountPath() string {
	return VolumeMountRoot + m.Name
}

// Input is everything the builder needs. Volumes must already be resolved.
type Input struct {
	ID         uint
	Image      string
	WorkingDir string
	Ports      []int32
	Mounts     []Mount
	Topology   job.Topology
}

// Build renders the PintaJob custom resource for in. It performs no I/O and
// produces the same document for the same input.
func Build(in Input) (*unstructured.Unstructured, error) {
	t := in.Topology.Type()
	spec := map[string]interface{}{
		"type":    string(t),
		"volumes": mountsToList(in.Mounts),
	}

	var master, replica *corev1.PodSpec
	var numMasters, numReplicas *int

	switch v := in.Topology.(type) {
	case job.Symmetric:
		replica = roleSpec(t.ReplicaRole(), v.Command, in)
		numReplicas = &v.NumReplicas
	case job.PSWorker:
		master = roleSpec(t.MasterRole(), v.PSCommand, in)
		replica = roleSpec(t.ReplicaRole(), v.WorkerCommand, in)
		numMasters, numReplicas = &v.NumPS, &v.NumWorkers
	case job.MPI:
		one := 1
		master = roleSpec(t.MasterRole(), v.MasterCommand, in)
		replica = roleSpec(t.ReplicaRole(), v.ReplicaCommand, in)
		numMasters, numReplicas = &one, &v.NumReplicas
	case job.ImageBuilder:
		one := 1
		replica = imageBuilderSpec(v.BaseImage)
		numReplicas = &one
	default:
		return nil, fmt.Errorf("unsupported topology %T", in.Topology)
	}

	if master != nil {
		tmpl, err := podTemplate(master)
		if err != nil {
			return nil, err
		}
		spec["master"] = tmpl
	}
	tmpl, err := podTemplate(replica)
	if err != nil {
		return nil, err
	}
	spec["replica"] = tmpl
	if numMasters != nil {
		spec["numMasters"] = int64(*numMasters)
	}
	if numReplicas != nil {
		spec["numReplicas"] = int64(*numReplicas)
	}

	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": Group + "/" + Version,
		"kind":       Kind,
		"metadata": map[string]interface{}{
			"name": job.ResourceNameFor(in.ID),
		},
		"spec": spec,
	}}, nil
}

func mountsToList(mounts []Mount) []interface{} {
	out := make([]interface{}, 0, len(mounts))
	for _, m := range mounts {
		out = append(out, map[string]interface{}{
			"mountPath":       m.MountPath(),
			"volumeClaimName": m.ClaimName,
		})
	}
	return out
}

func roleSpec(role, command string, in Input) *corev1.PodSpec {
	ports := []corev1.ContainerPort{{ContainerPort: ControlPort, Name: ControlPortName}}
	for _, p := range in.Ports {
		if p == ControlPort {
			continue
		}
		ports = append(ports, corev1.ContainerPort{ContainerPort: p, Name: fmt.Sprintf("port-%d", p)})
	}
	return &corev1.PodSpec{
		Containers: []corev1.Container{{
			Name:       role,
			Image:      in.Image,
			WorkingDir: in.WorkingDir,
			Command:    []string{"sh", "-c", command},
			Ports:      ports,
		}},
		RestartPolicy: corev1.RestartPolicyOnFailure,
	}
}

// imageBuilderSpec is a docker-in-docker daemon plus a CLI container that
// waits for the daemon, creates the builder container from base and idles
// so it can be exec'd into and committed later.
func imageBuilderSpec(base string) *corev1.PodSpec {
	privileged := true
	script := strings.Join([]string{
		"docker info >/dev/null 2>&1",
		"while [ $? -ne 0 ] ; do sleep 3; docker info >/dev/null 2>&1; done",
		fmt.Sprintf("docker create -it --name=%s %s sh", BuilderContainer, base),
		"docker start " + BuilderContainer,
		"while true; do sleep 86400; done",
	}, "; ")

	return &corev1.PodSpec{
		Containers: []corev1.Container{
			{
				Name:            DockerdContainer,
				Image:           dindImage,
				SecurityContext: &corev1.SecurityContext{Privileged: &privileged},
				Command:         []string{"dockerd", "--host=tcp://0.0.0.0:2375"},
				VolumeMounts: []corev1.VolumeMount{{
					Name:      daemonConfigVolume,
					MountPath: "/etc/docker/daemon.json",
					SubPath:   "daemon.json",
				}},
			},
			{
				Name:    DockerCLIContainer,
				Image:   dockerCLIImage,
				Env:     []corev1.EnvVar{{Name: "DOCKER_HOST", Value: dockerHost}},
				Command: []string{"sh", "-c", script},
			},
		},
		Volumes: []corev1.Volume{{
			Name: daemonConfigVolume,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: daemonConfigMap},
				},
			},
		}},
	}
}

func podTemplate(spec *corev1.PodSpec) (map[string]interface{}, error) {
	obj, err := runtime.DefaultUnstructuredConverter.ToUnstructured(spec)
	if err != nil {
		return nil, fmt.Errorf("convert pod spec: %w", err)
	}
	return map[string]interface{}{"spec": obj}, nil
}

// CommitCommand snapshots the builder container into ref and pushes it.
func CommitCommand(ref string) []string {
	return []string{
		"/bin/sh", "-c",
		fmt.Sprintf("docker commit %s %s && docker push %s", BuilderContainer, ref, ref),
	}
}

// ExecCommand wraps command for the exec target of topology t. Image-builder
// sessions run inside the nested builder container.
func ExecCommand(t job.Type, command string, tty bool) []string {
	if t == job.TypeImageBuilder {
		flags := ""
		if tty {
			flags = "-it "
		}
		return []string{"/bin/sh", "-c", fmt.Sprintf("docker exec %s%s %s; exit", flags, BuilderContainer, command)}
	}
	return []string{"/bin/sh", "-c", command}
}
