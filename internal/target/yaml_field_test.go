package target

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mxcd/verparse/internal/configuration"
)

func writeValuesFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}

func TestYamlFieldTarget_ReadCurrentVersion(t *testing.T) {
	tests := []struct {
		name          string
		fileContent   string
		yamlPath      string
		expectedVer   string
		errorContains string
	}{
		{
			name: "nested quoted value",
			fileContent: `image:
  repository: traefik
  tag: "v2.10.1"
`,
			yamlPath:    "image.tag",
			expectedVer: "v2.10.1",
		},
		{
			name: "image reference in a sequence",
			fileContent: `spec:
  containers:
    - name: app
      image: registry.example.com:5000/app:1.4.0-rc2
`,
			yamlPath:    "spec.containers.0.image",
			expectedVer: "1.4.0-rc2",
		},
		{
			name: "plain scalar",
			fileContent: `appVersion: 1.0-beta
`,
			yamlPath:    "appVersion",
			expectedVer: "1.0-beta",
		},
		{
			name: "alias",
			fileContent: `defaults: &defaults
  version: 3.2.1
app: *defaults
`,
			yamlPath:    "app.version",
			expectedVer: "3.2.1",
		},
		{
			name: "missing key",
			fileContent: `image:
  repository: traefik
`,
			yamlPath:      "image.tag",
			errorContains: "key 'tag' not found",
		},
		{
			name: "index out of range",
			fileContent: `items:
  - version: "1.0.0"
`,
			yamlPath:      "items.5.version",
			errorContains: "index 5 out of range",
		},
		{
			name: "non-numeric index",
			fileContent: `items:
  - version: "1.0.0"
`,
			yamlPath:      "items.first.version",
			errorContains: "expected numeric index",
		},
		{
			name: "non-scalar node",
			fileContent: `image:
  tag:
    major: 1
`,
			yamlPath:      "image.tag",
			errorContains: "non-scalar node",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeValuesFile(t, "values.yaml", tt.fileContent)
			config := &configuration.Target{
				Name:  "values",
				Type:  configuration.TargetTypeYamlField,
				File:  file,
				Items: []configuration.TargetItem{{YamlPath: tt.yamlPath, Source: "app"}},
			}

			target, err := NewYamlFieldTarget(config, &config.Items[0])
			if err != nil {
				t.Fatalf("Failed to create target: %v", err)
			}

			version, err := target.ReadCurrentVersion()
			if tt.errorContains != "" {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error containing '%s', got: %v", tt.errorContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if version != tt.expectedVer {
				t.Errorf("Expected version '%s', got '%s'", tt.expectedVer, version)
			}
		})
	}
}

func TestYamlFieldTarget_MultiDocument(t *testing.T) {
	file := writeValuesFile(t, "manifests.yaml", `apiVersion: v1
kind: Service
metadata:
  name: app
---
apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
        - image: ghcr.io/example/app:2.3.0
`)

	config := &configuration.Target{
		Name:  "manifests",
		Type:  configuration.TargetTypeYamlField,
		File:  file,
		Items: []configuration.TargetItem{{Name: "deployment", YamlPath: "spec.template.spec.containers.0.image", Source: "app"}},
	}

	target, err := NewYamlFieldTarget(config, &config.Items[0])
	if err != nil {
		t.Fatalf("Failed to create target: %v", err)
	}

	info := target.GetTargetInfo()
	if info.CurrentValue != "2.3.0" {
		t.Errorf("Expected '2.3.0', got '%s'", info.CurrentValue)
	}
	if info.Name != "deployment" || info.Target != "manifests" {
		t.Errorf("Unexpected names in target info: %+v", info)
	}
	if info.YamlPath != "spec.template.spec.containers.0.image" || info.File != file {
		t.Errorf("Unexpected location in target info: %+v", info)
	}
}

func TestYamlFieldTarget_Errors(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		config := &configuration.Target{Name: "missing", Type: configuration.TargetTypeYamlField, File: "/nonexistent/values.yaml"}
		_, err := NewYamlFieldTarget(config, &configuration.TargetItem{YamlPath: "image.tag"})

		var notFound *FileNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Expected FileNotFoundError, got %v", err)
		}
		if notFound.Path != "/nonexistent/values.yaml" {
			t.Errorf("Unexpected path '%s'", notFound.Path)
		}
	})

	t.Run("missing yaml path", func(t *testing.T) {
		config := &configuration.Target{Name: "values", Type: configuration.TargetTypeYamlField, File: "values.yaml"}
		_, err := NewYamlFieldTarget(config, &configuration.TargetItem{})
		if err == nil || !strings.Contains(err.Error(), "yamlPath is required") {
			t.Errorf("Expected yamlPath error, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		file := writeValuesFile(t, "broken.yaml", "image: [unclosed\n")
		config := &configuration.Target{Name: "broken", Type: configuration.TargetTypeYamlField, File: file}
		_, err := NewYamlFieldTarget(config, &configuration.TargetItem{YamlPath: "image"})
		if err == nil || !strings.Contains(err.Error(), "failed to parse YAML file") {
			t.Errorf("Expected parse error, got %v", err)
		}
	})

	t.Run("not found error unwraps", func(t *testing.T) {
		cause := errors.New("key 'tag' not found")
		err := &YamlFieldNotFoundError{Path: "image.tag", File: "values.yaml", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("Expected YamlFieldNotFoundError to unwrap its cause")
		}
		if !strings.Contains(err.Error(), "image.tag") || !strings.Contains(err.Error(), "values.yaml") {
			t.Errorf("Unexpected message: %s", err.Error())
		}
	})
}

func TestYamlFieldTarget_Validate(t *testing.T) {
	valid := writeValuesFile(t, "values.yml", "image:\n  tag: 1.0.0\n")
	config := &configuration.Target{Name: "values", Type: configuration.TargetTypeYamlField, File: valid}
	target, err := NewYamlFieldTarget(config, &configuration.TargetItem{YamlPath: "image.tag"})
	if err != nil {
		t.Fatalf("Failed to create target: %v", err)
	}
	if err := target.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	text := writeValuesFile(t, "values.txt", "image:\n  tag: 1.0.0\n")
	config = &configuration.Target{Name: "values", Type: configuration.TargetTypeYamlField, File: text}
	target, err = NewYamlFieldTarget(config, &configuration.TargetItem{YamlPath: "image.tag"})
	if err != nil {
		t.Fatalf("Failed to create target: %v", err)
	}

	var formatErr *InvalidFileFormatError
	if err := target.Validate(); !errors.As(err, &formatErr) {
		t.Errorf("Expected InvalidFileFormatError, got %v", err)
	}
}

func TestImageTag(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"nginx:1.25.0", "1.25.0"},
		{"registry:5000/app:2.1", "2.1"},
		{"registry:5000/app", "registry:5000/app"},
		{"1.25.0", "1.25.0"},
		{"https://example.com", "https://example.com"},
		{":latest", ":latest"},
		{"nginx:", "nginx:"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := imageTag(tt.value); got != tt.expected {
				t.Errorf("imageTag(%q) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}
