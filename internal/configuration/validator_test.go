package configuration

import (
	"testing"
)

func validBaseConfig() *Config {
	return &Config{
		PackageSourceProviders: []*PackageSourceProvider{
			{Name: "github", Type: PackageSourceProviderTypeGitHub},
			{Name: "local", Type: PackageSourceProviderTypeGit},
		},
		PackageSources: []*PackageSource{
			{
				Name:              "app1",
				Provider:          "github",
				Type:              PackageSourceTypeGitRelease,
				URI:               "https://github.com/example/app1",
				VersionConstraint: ">= 1.0, < 2.0",
				TagPattern:        `^v\d+`,
			},
			{
				Name:     "app2",
				Provider: "local",
				Type:     PackageSourceTypeGitRepository,
				URI:      "./app2",
			},
		},
		Targets: []*Target{
			{
				Name:  "pinned",
				Type:  TargetTypeLiteral,
				Items: []TargetItem{{Source: "app1", CurrentVersion: "1.2.0"}},
			},
		},
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(*Config)
		expectValid     bool
		expectedFields  []string
		expectedMessage []string
	}{
		{
			name:        "valid configuration",
			mutate:      func(*Config) {},
			expectValid: true,
		},
		{
			name: "valid tag types",
			mutate: func(c *Config) {
				c.TagTypes = []*TagType{{Name: "nightly", Weight: 7, Short: "n"}, {Name: "beta", Weight: 3}}
				c.Rendering = &Rendering{Separator: "_"}
			},
			expectValid: true,
		},
		{
			name: "empty provider name",
			mutate: func(c *Config) {
				c.PackageSourceProviders = append(c.PackageSourceProviders, &PackageSourceProvider{Type: PackageSourceProviderTypeGitHub})
			},
			expectedFields:  []string{"packageSourceProviders[2].name"},
			expectedMessage: []string{"provider name cannot be empty"},
		},
		{
			name: "duplicate provider names",
			mutate: func(c *Config) {
				c.PackageSourceProviders = append(c.PackageSourceProviders, &PackageSourceProvider{Name: "github", Type: PackageSourceProviderTypeGitHub})
			},
			expectedFields:  []string{"packageSourceProviders[2].name"},
			expectedMessage: []string{"duplicate provider name: github"},
		},
		{
			name: "token auth without token",
			mutate: func(c *Config) {
				c.PackageSourceProviders[0].AuthType = PackageSourceProviderAuthTypeToken
			},
			expectedFields:  []string{"packageSourceProviders[0].token"},
			expectedMessage: []string{"token is required for token auth"},
		},
		{
			name: "invalid provider type",
			mutate: func(c *Config) {
				c.PackageSourceProviders[1].Type = "docker"
			},
			expectedFields: []string{"packageSourceProviders[1].type", "packageSources[1].type"},
			expectedMessage: []string{
				"invalid provider type: docker",
				"source type 'git-repository' requires provider type 'git', but provider type is 'docker'",
			},
		},
		{
			name: "unknown provider reference",
			mutate: func(c *Config) {
				c.PackageSources[0].Provider = "gitlab"
			},
			expectedFields:  []string{"packageSources[0].provider"},
			expectedMessage: []string{"provider 'gitlab' not found in packageSourceProviders"},
		},
		{
			name: "git-tag on git provider",
			mutate: func(c *Config) {
				c.PackageSources[1].Type = PackageSourceTypeGitTag
			},
			expectedFields:  []string{"packageSources[1].type"},
			expectedMessage: []string{"source type 'git-tag' requires provider type 'github', but provider type is 'git'"},
		},
		{
			name: "invalid constraint and patterns",
			mutate: func(c *Config) {
				c.PackageSources[0].VersionConstraint = ">= banana"
				c.PackageSources[0].TagPattern = "("
				c.PackageSources[0].ExcludePattern = "[a-"
				c.PackageSources[0].SortBy = "date"
			},
			expectedFields: []string{
				"packageSources[0].versionConstraint",
				"packageSources[0].tagPattern",
				"packageSources[0].excludePattern",
				"packageSources[0].sortBy",
			},
		},
		{
			name: "invalid tag types",
			mutate: func(c *Config) {
				c.TagTypes = []*TagType{
					{Name: "", Weight: 1},
					{Name: "pre-release", Weight: 1},
					{Name: "nightly", Weight: -1, Short: "n!"},
					{Name: "Nightly", Weight: 2},
					{Name: "huge", Weight: 2000000},
				}
			},
			expectedFields: []string{
				"tagTypes[0].name",
				"tagTypes[1].name",
				"tagTypes[2].short",
				"tagTypes[2].weight",
				"tagTypes[3].name",
				"tagTypes[4].weight",
			},
			expectedMessage: []string{
				"tag type name cannot be empty",
				"tag type name must be alphanumeric: pre-release",
				"short name must be alphanumeric: n!",
				"weight cannot be negative: -1",
				"duplicate tag type name: nightly",
				"weight cannot exceed 15: 2000000",
			},
		},
		{
			name: "alphanumeric separator",
			mutate: func(c *Config) {
				c.Rendering = &Rendering{Separator: "x"}
			},
			expectedFields: []string{"rendering.separator"},
		},
		{
			name: "literal target without current version",
			mutate: func(c *Config) {
				c.Targets[0].Items[0].CurrentVersion = ""
			},
			expectedFields:  []string{"targets[0].items[0].currentVersion"},
			expectedMessage: []string{"currentVersion is required for literal target"},
		},
		{
			name: "yaml-field target",
			mutate: func(c *Config) {
				c.Targets = append(c.Targets, &Target{
					Name:  "values",
					Type:  TargetTypeYamlField,
					Items: []TargetItem{{Source: "missing"}},
				})
			},
			expectedFields: []string{
				"targets[1].file",
				"targets[1].items[0].source",
				"targets[1].items[0].yamlPath",
			},
			expectedMessage: []string{
				"file path cannot be empty",
				"source 'missing' not found in packageSources",
				"yamlPath is required for yaml-field target",
			},
		},
		{
			name: "target without items",
			mutate: func(c *Config) {
				c.Targets[0].Items = nil
				c.Targets[0].Type = "terraform-variable"
			},
			expectedFields: []string{"targets[0].type", "targets[0].items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validBaseConfig()
			tt.mutate(config)

			result := ValidateConfiguration(config)

			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v, got Valid=%v (%v)", tt.expectValid, result.Valid, result.Errors)
			}

			if len(result.Errors) != len(tt.expectedFields) {
				t.Fatalf("expected %d errors, got %d errors: %v", len(tt.expectedFields), len(result.Errors), result.Errors)
			}

			for i, expectedField := range tt.expectedFields {
				if result.Errors[i].Field != expectedField {
					t.Errorf("expected error field '%s', got '%s'", expectedField, result.Errors[i].Field)
				}
			}

			for i, expectedMsg := range tt.expectedMessage {
				if result.Errors[i].Message != expectedMsg {
					t.Errorf("expected error message '%s', got '%s'", expectedMsg, result.Errors[i].Message)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "tagTypes[0].name", Message: "tag type name cannot be empty"}

	expected := "tagTypes[0].name: tag type name cannot be empty"
	if err.Error() != expected {
		t.Errorf("expected error string '%s', got '%s'", expected, err.Error())
	}
}

func TestIsTagKeyword(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"nightly", true},
		{"RC", true},
		{"m1", true},
		{"1m", false},
		{"pre-release", false},
		{"ü", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := isTagKeyword(tt.value); got != tt.expected {
				t.Errorf("isTagKeyword(%s) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestValidateVocabulary(t *testing.T) {
	config := &Config{
		TagTypes:  []*TagType{{Name: "preview", Weight: 3}, {Name: "9lives", Weight: 1}},
		Rendering: &Rendering{Separator: "_x"},
		Targets:   []*Target{{Name: "ignored"}},
	}

	result := ValidateVocabulary(config)
	if result.Valid {
		t.Fatal("expected invalid result")
	}

	fields := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		fields[i] = err.Field
	}
	expected := []string{"tagTypes[1].name", "rendering.separator"}
	if len(fields) != len(expected) {
		t.Fatalf("expected errors for %v, got %v", expected, fields)
	}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("expected error %d on %s, got %s", i, expected[i], fields[i])
		}
	}
}
