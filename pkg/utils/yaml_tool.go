package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	ManifestYAML = "yaml"
	ManifestJSON = "json"
)

// RenderManifest encodes a workload document for download. format is yaml
// (the default) or json.
func RenderManifest(doc map[string]interface{}, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ManifestYAML, "yml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, "", err
		}
		return out, "application/yaml", nil
	case ManifestJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return out, "application/json", nil
	}
	return nil, "", fmt.Errorf("unsupported manifest format %q", format)
}

// ManifestFilename names the downloaded document.
func ManifestFilename(resource, format string) string {
	ext := ManifestYAML
	if strings.EqualFold(strings.TrimSpace(format), ManifestJSON) {
		ext = ManifestJSON
	}
	return fmt.Sprintf("%s.%s", resource, ext)
}
