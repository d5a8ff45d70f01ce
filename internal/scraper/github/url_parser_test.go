package github

import (
	"strings"
	"testing"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		uri       string
		wantOwner string
		wantRepo  string
	}{
		{"https://github.com/traefik/traefik", "traefik", "traefik"},
		{"https://github.com/traefik/traefik.git", "traefik", "traefik"},
		{"https://github.com/traefik/traefik/", "traefik", "traefik"},
		{"https://github.com/traefik/traefik/releases/tag/v3.0.0", "traefik", "traefik"},
		{"https://api.github.com/repos/grafana/loki", "grafana", "loki"},
		{"https://api.github.com/repos/grafana/loki/releases/latest", "grafana", "loki"},
		{"https://ghe.example.com/platform/ingress", "platform", "ingress"},
		{"https://ghe.example.com/api/v3/repos/platform/ingress/tags", "platform", "ingress"},
		{"git@github.com:cert-manager/cert-manager.git", "cert-manager", "cert-manager"},
		{"git@ghe.example.com:platform/ingress", "platform", "ingress"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			info, err := ParseRepositoryURL(tt.uri)
			if err != nil {
				t.Fatalf("ParseRepositoryURL() error = %v", err)
			}
			if info.Owner != tt.wantOwner || info.Repo != tt.wantRepo {
				t.Errorf("expected %s/%s, got %s", tt.wantOwner, tt.wantRepo, info)
			}
		})
	}
}

func TestParseRepositoryURL_Errors(t *testing.T) {
	tests := []struct {
		uri         string
		errContains string
	}{
		{"", "empty URI"},
		{"traefik/traefik", "no path found"},
		{"https://github.com/", "no path found"},
		{"git@github.com:", "no path found"},
		{"https://github.com/traefik", "expected format: owner/repo"},
		{"https://github.com//traefik", "owner or repo is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			_, err := ParseRepositoryURL(tt.uri)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing '%s', got '%v'", tt.errContains, err)
			}
		})
	}
}

func TestBuildAPIURL(t *testing.T) {
	tests := map[string]string{
		"":                               "https://api.github.com",
		"https://ghe.example.com":        "https://ghe.example.com/api/v3",
		"https://ghe.example.com/":       "https://ghe.example.com/api/v3",
		"https://ghe.example.com/api/v3": "https://ghe.example.com/api/v3",
	}

	for baseURL, expected := range tests {
		if got := BuildAPIURL(baseURL); got != expected {
			t.Errorf("BuildAPIURL(%q) = %s, expected %s", baseURL, got, expected)
		}
	}
}
