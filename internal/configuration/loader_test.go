package configuration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErr       bool
		errContains   string
		validate      func(*testing.T, *Config)
	}{
		{
			name: "sources and tag types",
			configContent: `tagTypes:
  - name: nightly
    weight: 7
    short: n
rendering:
  separator: "_"
  tagUppercase: true

packageSourceProviders:
  - name: github
    type: github

packageSources:
  - name: traefik
    provider: github
    type: git-tag
    uri: https://github.com/traefik/traefik
    versionConstraint: ">= 2.0, < 3.0"
    sortBy: build-number
    stableOnly: true
`,
			validate: func(t *testing.T, config *Config) {
				if len(config.TagTypes) != 1 {
					t.Fatalf("expected 1 tag type, got %d", len(config.TagTypes))
				}
				if config.TagTypes[0].Name != "nightly" || config.TagTypes[0].Weight != 7 || config.TagTypes[0].Short != "n" {
					t.Errorf("unexpected tag type: %+v", config.TagTypes[0])
				}
				if config.Rendering == nil || config.Rendering.Separator != "_" || !config.Rendering.TagUppercase {
					t.Errorf("unexpected rendering: %+v", config.Rendering)
				}
				if len(config.PackageSources) != 1 {
					t.Fatalf("expected 1 source, got %d", len(config.PackageSources))
				}
				source := config.PackageSources[0]
				if source.Type != PackageSourceTypeGitTag {
					t.Errorf("expected source type 'git-tag', got '%s'", source.Type)
				}
				if source.VersionConstraint != ">= 2.0, < 3.0" {
					t.Errorf("expected version constraint '>= 2.0, < 3.0', got '%s'", source.VersionConstraint)
				}
				if source.SortBy != SortByBuildNumber {
					t.Errorf("expected sortBy 'build-number', got '%s'", source.SortBy)
				}
				if !source.StableOnly {
					t.Errorf("expected stableOnly to be true")
				}
			},
		},
		{
			name: "targets with items",
			configContent: `targets:
  - name: pinned
    type: literal
    items:
      - source: traefik
        currentVersion: v2.10.1
  - name: values
    type: yaml-field
    file: values.yaml
    items:
      - source: traefik
        yamlPath: image.tag
`,
			validate: func(t *testing.T, config *Config) {
				if len(config.Targets) != 2 {
					t.Fatalf("expected 2 targets, got %d", len(config.Targets))
				}
				if config.Targets[0].Items[0].CurrentVersion != "v2.10.1" {
					t.Errorf("expected current version 'v2.10.1', got '%s'", config.Targets[0].Items[0].CurrentVersion)
				}
				if config.Targets[1].Type != TargetTypeYamlField {
					t.Errorf("expected target type 'yaml-field', got '%s'", config.Targets[1].Type)
				}
				if config.Targets[1].Items[0].YamlPath != "image.tag" {
					t.Errorf("expected yaml path 'image.tag', got '%s'", config.Targets[1].Items[0].YamlPath)
				}
			},
		},
		{
			name: "invalid yaml",
			configContent: `packageSources:
  - name: [unclosed
`,
			wantErr:     true,
			errContains: "failed to parse configuration YAML",
		},
		{
			name: "unset environment variable",
			configContent: `packageSourceProviders:
  - name: github
    type: github
    authType: token
    token: ${VERPARSE_TEST_UNSET_TOKEN}
`,
			wantErr:     true,
			errContains: "VERPARSE_TEST_UNSET_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yml")
			if err := os.WriteFile(configPath, []byte(tt.configContent), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			config, err := LoadConfiguration(configPath)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing '%s', got '%s'", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestLoadConfigurationFileErrors(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to access configuration path") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = LoadConfiguration(t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty directory, got nil")
	}
	if !strings.Contains(err.Error(), "no .yml or .yaml files found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfigurationWithDirectory(t *testing.T) {
	t.Run("merges all files", func(t *testing.T) {
		tmpDir := t.TempDir()

		files := map[string]string{
			"providers.yml": `packageSourceProviders:
  - name: github
    type: github
  - name: local
    type: git
`,
			"sources.yaml": `packageSources:
  - name: app1
    provider: github
    type: git-release
    uri: https://github.com/example/app1
  - name: app2
    provider: local
    type: git-repository
    uri: ./app2
`,
			"tagtypes.yml": `tagTypes:
  - name: nightly
    weight: 7
rendering:
  tagUppercase: true
`,
			"notes.txt": "ignored",
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}
		}

		config, err := LoadConfiguration(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error loading from directory: %v", err)
		}

		if len(config.PackageSourceProviders) != 2 {
			t.Errorf("expected 2 providers, got %d", len(config.PackageSourceProviders))
		}
		if len(config.PackageSources) != 2 {
			t.Errorf("expected 2 sources, got %d", len(config.PackageSources))
		}
		if len(config.TagTypes) != 1 {
			t.Errorf("expected 1 tag type, got %d", len(config.TagTypes))
		}
		if config.Rendering == nil || !config.Rendering.TagUppercase {
			t.Errorf("expected merged rendering with tagUppercase, got %+v", config.Rendering)
		}
	})

	t.Run("duplicate tag types across files", func(t *testing.T) {
		tmpDir := t.TempDir()

		for _, name := range []string{"a.yml", "b.yml"} {
			content := "tagTypes:\n  - name: Nightly\n    weight: 7\n"
			if name == "b.yml" {
				content = "tagTypes:\n  - name: nightly\n    weight: 3\n"
			}
			if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}
		}

		_, err := LoadConfiguration(tmpDir)
		if err == nil {
			t.Fatal("expected duplicate error, got nil")
		}
		if !strings.Contains(err.Error(), "duplicate tag type name: nightly") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestExpandWildcardTargets(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		filepath.Join(tmpDir, "envs", "dev", "app1", "values.yaml"),
		filepath.Join(tmpDir, "envs", "dev", "app2", "values.yaml"),
		filepath.Join(tmpDir, "envs", "prod", "app1", "values.yaml"),
	}
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(file, []byte("image:\n  tag: 1.0.0\n"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "envs", "dev", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	pattern := filepath.Join(tmpDir, "envs", "**", "values.yaml")
	config := &Config{
		Targets: []*Target{
			{
				Name:   "values",
				Type:   TargetTypeYamlField,
				File:   pattern,
				Items:  []TargetItem{{Source: "app", YamlPath: "image.tag"}},
				Labels: []string{"helm"},
			},
			{
				Name:  "pinned",
				Type:  TargetTypeLiteral,
				Items: []TargetItem{{Source: "app", CurrentVersion: "1.0.0"}},
			},
			{
				Name:  "nothing",
				Type:  TargetTypeYamlField,
				File:  filepath.Join(tmpDir, "*.missing"),
				Items: []TargetItem{{Source: "app", YamlPath: "x"}},
			},
		},
	}

	if err := ExpandWildcardTargets(config); err != nil {
		t.Fatalf("ExpandWildcardTargets failed: %v", err)
	}

	if len(config.Targets) != 5 {
		t.Fatalf("expected 5 targets, got %d", len(config.Targets))
	}

	var matched []string
	for _, target := range config.Targets {
		if target.Name != "values" {
			continue
		}
		matched = append(matched, target.File)
		if !target.IsWildcardMatch || target.WildcardPattern != pattern {
			t.Errorf("expected wildcard match from '%s', got %+v", pattern, target)
		}
		if len(target.Labels) != 1 || target.Labels[0] != "helm" {
			t.Errorf("expected labels [helm], got %v", target.Labels)
		}
	}
	sort.Strings(matched)
	sort.Strings(files)
	for i := range files {
		if matched[i] != files[i] {
			t.Errorf("expected file %s, got %s", files[i], matched[i])
		}
	}

	last := config.Targets[len(config.Targets)-1]
	if last.Name != "nothing" || last.IsWildcardMatch {
		t.Errorf("expected unmatched pattern to be kept as is, got %+v", last)
	}
}

func TestMatchesAfterPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"dev/app1/values.yaml", "values.yaml", true},
		{"values.yaml", "values.yaml", true},
		{"dev/my-values.yaml", "values.yaml", false},
		{"dev/app1/values.yaml", "*.yaml", true},
		{"dev/app1/values.yml", "*.yaml", false},
	}

	for _, tt := range tests {
		if got := matchesAfterPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchesAfterPattern(%q, %q) = %v, expected %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}
