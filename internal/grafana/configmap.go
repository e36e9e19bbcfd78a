package grafana

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// ConfigMapRef points at a dashboard JSON model stored in a ConfigMap, the way the
// Grafana dashboard sidecar provisions them. Key may be empty when the ConfigMap holds
// a single dashboard.
type ConfigMapRef struct {
	Namespace string
	Name      string
	Key       string
}

// ParseConfigMapRef parses "<namespace>/<name>[:<key>]".
func ParseConfigMapRef(ref string) (ConfigMapRef, error) {
	nsName, key, _ := strings.Cut(ref, ":")
	namespace, name, ok := strings.Cut(nsName, "/")
	if !ok || namespace == "" || name == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid configmap reference %q, expected <namespace>/<name>[:<key>]", ref)
	}
	return ConfigMapRef{Namespace: namespace, Name: name, Key: key}, nil
}

func (r ConfigMapRef) String() string {
	s := r.Namespace + "/" + r.Name
	if r.Key != "" {
		s += ":" + r.Key
	}
	return s
}

// ConfigMapSource loads dashboards out of Kubernetes ConfigMaps.
type ConfigMapSource struct {
	clientset kubernetes.Interface
	log       logrus.FieldLogger
}

func NewConfigMapSource(clientset kubernetes.Interface, log logrus.FieldLogger) *ConfigMapSource {
	return &ConfigMapSource{clientset: clientset, log: log}
}

// NewConfigMapSourceFromKubeconfig builds the clientset from a kubeconfig path.
// An empty path falls back to the default ~/.kube/config.
func NewConfigMapSourceFromKubeconfig(kubeconfig string, log logrus.FieldLogger) (*ConfigMapSource, error) {
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return NewConfigMapSource(clientset, log), nil
}

// GetDashboard reads the dashboard model and wraps it like the HTTP API would,
// with meta.url set to d/<uid>.
func (s *ConfigMapSource) GetDashboard(ctx context.Context, ref ConfigMapRef) (*DashboardResponse, error) {
	cm, err := s.clientset.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get configmap %s: %w", ref, err)
	}

	key := ref.Key
	if key == "" {
		if len(cm.Data) != 1 {
			keys := make([]string, 0, len(cm.Data))
			for k := range cm.Data {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("configmap %s holds %d keys %v, pick one with <namespace>/<name>:<key>", ref, len(keys), keys)
		}
		for k := range cm.Data {
			key = k
		}
	}
	raw, ok := cm.Data[key]
	if !ok {
		return nil, fmt.Errorf("configmap %s has no key %q", ref, key)
	}

	resp, err := DecodeDashboard(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("configmap %s key %q: %w", ref, key, err)
	}
	s.log.WithField("configmap", ref.String()).Debugf("Loaded dashboard %q from key %s", resp.Dashboard.Title, key)
	return resp, nil
}
