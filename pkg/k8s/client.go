package k8s

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// PintaJobResource is the custom resource served by the pinta job controller.
var PintaJobResource = schema.GroupVersionResource{
	Group:    "pinta.qed.usc.edu",
	Version:  "v1",
	Resource: "pintajobs",
}

// ErrCluster wraps every failure returned by the cluster API.
var ErrCluster = errors.New("cluster request failed")

// Client talks to one namespace of the cluster. It is built once at startup
// and shared by every request.
type Client struct {
	config           *rest.Config
	kube             kubernetes.Interface
	dynamic          dynamic.Interface
	namespace        string
	storageClassName string
}

// LoadConfig tries KUBECONFIG, then the in-cluster service account, then
// ~/.kube/config.
func LoadConfig() (*rest.Config, error) {
	if configPath := os.Getenv("KUBECONFIG"); configPath != "" {
		return clientcmd.BuildConfigFromFlags("", configPath)
	}
	cfg, err := rest.InClusterConfig()
	if err == nil {
		return cfg, nil
	}
	return clientcmd.BuildConfigFromFlags("", filepath.Join(homedir.HomeDir(), ".kube", "config"))
}

// Init builds a Client from the ambient kube config.
func Init(namespace, storageClassName string) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load kube config: %w", err)
	}
	kube, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	log.Printf("kubernetes client ready (host=%s namespace=%s)", cfg.Host, namespace)
	return NewClient(cfg, kube, dyn, namespace, storageClassName), nil
}

func NewClient(cfg *rest.Config, kube kubernetes.Interface, dyn dynamic.Interface, namespace, storageClassName string) *Client {
	if namespace == "" {
		namespace = "default"
	}
	return &Client{
		config:           cfg,
		kube:             kube,
		dynamic:          dyn,
		namespace:        namespace,
		storageClassName: storageClassName,
	}
}

func (c *Client) jobs() dynamic.ResourceInterface {
	return c.dynamic.Resource(PintaJobResource).Namespace(c.namespace)
}

func (c *Client) CreateJob(ctx context.Context, doc *unstructured.Unstructured) error {
	if _, err := c.jobs().Create(ctx, doc, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("%w: create pintajob %s: %v", ErrCluster, doc.GetName(), err)
	}
	return nil
}

func (c *Client) GetJob(ctx context.Context, name string) (*unstructured.Unstructured, error) {
	obj, err := c.jobs().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get pintajob %s: %v", ErrCluster, name, err)
	}
	return obj, nil
}

// DeleteJob removes the PintaJob. A missing resource is not an error.
func (c *Client) DeleteJob(ctx context.Context, name string) error {
	err := c.jobs().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: delete pintajob %s: %v", ErrCluster, name, err)
	}
	return nil
}
