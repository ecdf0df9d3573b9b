package testutils

import (
	"context"

	"github.com/linskybing/pinta-go/pkg/k8s"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
)

const FakeStorageClassName = "pinta-test-rwx"

// NewFakeCluster returns a cluster client backed by in-memory clientsets. The
// storage class volumes are provisioned from already exists.
func NewFakeCluster(namespace string) (*k8s.Client, *fake.Clientset) {
	kube := fake.NewSimpleClientset()

	sc := &storagev1.StorageClass{
		ObjectMeta: metav1.ObjectMeta{
			Name: FakeStorageClassName,
		},
		Provisioner: "kubernetes.io/no-provisioner", // for testing
		VolumeBindingMode: func() *storagev1.VolumeBindingMode {
			mode := storagev1.VolumeBindingImmediate
			return &mode
		}(),
	}
	_, _ = kube.StorageV1().StorageClasses().Create(context.TODO(), sc, metav1.CreateOptions{})

	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{k8s.PintaJobResource: "PintaJobList"})

	return k8s.NewClient(&rest.Config{}, kube, dyn, namespace, FakeStorageClassName), kube
}
