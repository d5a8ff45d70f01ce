package target

import (
	"errors"
	"testing"

	"github.com/mxcd/verparse/internal/configuration"
)

func TestTargetFactory_CreateTarget(t *testing.T) {
	valuesFile := writeValuesFile(t, "values.yaml", "image:\n  tag: v1.2.3\nsidecar:\n  tag: 0.9-rc1\n")

	tests := []struct {
		name          string
		target        *configuration.Target
		expectedCount int
		expectError   bool
	}{
		{
			name: "literal target",
			target: &configuration.Target{
				Name:  "pinned",
				Type:  configuration.TargetTypeLiteral,
				Items: []configuration.TargetItem{{Source: "app", CurrentVersion: "1.0.0"}},
			},
			expectedCount: 1,
		},
		{
			name: "yaml-field target with two items",
			target: &configuration.Target{
				Name: "values",
				Type: configuration.TargetTypeYamlField,
				File: valuesFile,
				Items: []configuration.TargetItem{
					{Name: "app", Source: "app", YamlPath: "image.tag"},
					{Name: "sidecar", Source: "sidecar", YamlPath: "sidecar.tag"},
				},
			},
			expectedCount: 2,
		},
		{
			name: "unsupported target type",
			target: &configuration.Target{
				Name:  "helm",
				Type:  configuration.TargetType("helm-chart"),
				Items: []configuration.TargetItem{{Source: "app"}},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewTargetFactory(&configuration.Config{})
			clients, err := factory.CreateTarget(tt.target)

			if tt.expectError {
				var unsupported *UnsupportedTargetTypeError
				if !errors.As(err, &unsupported) {
					t.Errorf("Expected UnsupportedTargetTypeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(clients) != tt.expectedCount {
				t.Errorf("Expected %d clients, got %d", tt.expectedCount, len(clients))
			}
		})
	}
}

func TestTargetFactory_CreateAllTargets(t *testing.T) {
	valuesFile := writeValuesFile(t, "values.yaml", "image:\n  tag: v1.2.3\n")

	config := &configuration.Config{
		Targets: []*configuration.Target{
			{
				Name:  "pinned",
				Type:  configuration.TargetTypeLiteral,
				Items: []configuration.TargetItem{{Source: "app", CurrentVersion: "2.0-beta"}},
			},
			{
				Name:  "values",
				Type:  configuration.TargetTypeYamlField,
				File:  valuesFile,
				Items: []configuration.TargetItem{{Source: "app", YamlPath: "image.tag"}},
			},
		},
	}

	clients, err := NewTargetFactory(config).CreateAllTargets()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(clients))
	}

	expected := []string{"2.0-beta", "v1.2.3"}
	for i, client := range clients {
		version, err := client.ReadCurrentVersion()
		if err != nil {
			t.Errorf("Unexpected error reading %s: %v", client.GetTargetInfo().Name, err)
		}
		if version != expected[i] {
			t.Errorf("Expected '%s', got '%s'", expected[i], version)
		}
	}
}

func TestLiteralTarget(t *testing.T) {
	config := &configuration.Target{
		Name: "pinned",
		Type: configuration.TargetTypeLiteral,
		Items: []configuration.TargetItem{
			{Name: "api", Source: "app", CurrentVersion: "1.4"},
			{Source: "app"},
		},
	}

	target := NewLiteralTarget(config, &config.Items[0])
	info := target.GetTargetInfo()
	if info.Name != "api" || info.Target != "pinned" || info.Source != "app" || info.CurrentValue != "1.4" {
		t.Errorf("Unexpected target info: %+v", info)
	}
	if err := target.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	empty := NewLiteralTarget(config, &config.Items[1])
	if empty.GetTargetInfo().Name != "pinned" {
		t.Errorf("Expected item to fall back to the target name, got '%s'", empty.GetTargetInfo().Name)
	}
	if err := empty.Validate(); err == nil {
		t.Error("Expected error for a literal target without currentVersion")
	}
}
