package k8s

import (
	"context"
	"fmt"
	"log"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func parseResourceQuantity(size string) (resource.Quantity, error) {
	q, err := resource.ParseQuantity(size)
	if err != nil {
		return resource.Quantity{}, fmt.Errorf("invalid PVC size format: %w", err)
	}
	return q, nil
}

// CreateVolumeClaim provisions a ReadWriteMany claim so the volume can be
// mounted by every pod of a job at once.
func (c *Client) CreateVolumeClaim(ctx context.Context, name, capacity string) error {
	quantity, err := parseResourceQuantity(capacity)
	if err != nil {
		return err
	}

	pvc := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: quantity},
			},
		},
	}
	if c.storageClassName != "" {
		sc := c.storageClassName
		pvc.Spec.StorageClassName = &sc
	}

	_, err = c.kube.CoreV1().PersistentVolumeClaims(c.namespace).Create(ctx, pvc, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("%w: create pvc %s: %v", ErrCluster, name, err)
	}
	log.Printf("PVC %s created in namespace %s", name, c.namespace)
	return nil
}

// DeleteVolumeClaim removes the claim. A missing claim is not an error.
func (c *Client) DeleteVolumeClaim(ctx context.Context, name string) error {
	err := c.kube.CoreV1().PersistentVolumeClaims(c.namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: delete pvc %s: %v", ErrCluster, name, err)
	}
	return nil
}
