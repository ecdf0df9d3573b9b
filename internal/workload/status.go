package workload

import (
	"github.com/linskybing/pinta-go/internal/domain/job"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// MapPhase projects a cluster phase onto the user visible status. Any lookup
// failure maps to error.
func MapPhase(phase string, err error) job.Status {
	if err != nil {
		return job.StatusError
	}
	switch phase {
	case "Pending":
		return job.StatusScheduled
	case "Running":
		return job.StatusRunning
	case "Completed":
		return job.StatusCompleted
	}
	return job.StatusError
}

// Phase reads the reported phase from a PintaJob object. The controller
// publishes it under status.state.phase; status.phase is accepted as well.
func Phase(obj *unstructured.Unstructured) string {
	if obj == nil {
		return ""
	}
	if p, found, err := unstructured.NestedString(obj.Object, "status", "state", "phase"); err == nil && found {
		return p
	}
	if p, found, err := unstructured.NestedString(obj.Object, "status", "phase"); err == nil && found {
		return p
	}
	return ""
}
