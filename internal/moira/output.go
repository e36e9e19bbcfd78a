package moira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/rancher/grafana2moira/internal/grafana"
)

// ConfigMapKey is the data key holding the trigger set inside the ConfigMap manifest.
const ConfigMapKey = "triggers.yaml"

const managedBy = "grafana2moira"

// WriteRawJSON writes the untranslated panel alerts as a pretty printed JSON array.
func WriteRawJSON(w io.Writer, panels []grafana.RawPanelAlert) error {
	if panels == nil {
		panels = make([]grafana.RawPanelAlert, 0)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(panels); err != nil {
		return fmt.Errorf("encoding raw panel alerts: %w", err)
	}
	return nil
}

// EncodeYAML renders the trigger set in block style with a blank line between
// top-level entries and between the items of top-level lists.
func (s *TriggerSet) EncodeYAML() ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding trigger set: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(spaceOut(b.String())), nil
}

func spaceOut(doc string) string {
	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	var out strings.Builder
	prevIsKey := false
	for i, line := range lines {
		topLevelKey := line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "-")
		topLevelItem := strings.HasPrefix(line, "  - ")
		if i > 0 && (topLevelKey || (topLevelItem && !prevIsKey)) {
			out.WriteString("\n")
		}
		out.WriteString(line)
		out.WriteString("\n")
		prevIsKey = topLevelKey
	}
	return out.String()
}

// ConfigMapManifest wraps an encoded trigger set into a ConfigMap manifest.
func ConfigMapManifest(name, namespace string, triggerSet []byte) ([]byte, error) {
	cm := corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ConfigMap",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": managedBy,
			},
		},
		Data: map[string]string{
			ConfigMapKey: string(triggerSet),
		},
	}
	out, err := k8syaml.Marshal(cm)
	if err != nil {
		return nil, fmt.Errorf("encoding configmap %s: %w", name, err)
	}
	return out, nil
}
