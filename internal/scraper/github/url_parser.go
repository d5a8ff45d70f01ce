package github

import (
	"fmt"
	"net/url"
	"strings"
)

const publicAPIURL = "https://api.github.com"

type RepositoryInfo struct {
	Owner string
	Repo  string
}

func (r *RepositoryInfo) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepositoryURL extracts owner and repository from a GitHub URL. Web,
// API (including GitHub Enterprise /api/v3) and SSH forms are accepted:
//
//	https://github.com/owner/repo.git
//	https://api.github.com/repos/owner/repo/releases
//	https://enterprise.example.com/api/v3/repos/owner/repo
//	git@github.com:owner/repo.git
func ParseRepositoryURL(uri string) (*RepositoryInfo, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty URI provided")
	}

	repoPath, err := repositoryPath(uri)
	if err != nil {
		return nil, err
	}

	repoPath = strings.TrimPrefix(repoPath, "api/v3/")
	repoPath = strings.TrimPrefix(repoPath, "repos/")

	segments := strings.Split(strings.TrimSuffix(repoPath, "/"), "/")
	if len(segments) < 2 {
		return nil, fmt.Errorf("invalid GitHub repository URI: %s (expected format: owner/repo)", uri)
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid GitHub repository URI: %s (owner or repo is empty)", uri)
	}

	return &RepositoryInfo{Owner: owner, Repo: repo}, nil
}

func repositoryPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "git@") {
		if _, repoPath, ok := strings.Cut(uri, ":"); ok && repoPath != "" {
			return repoPath, nil
		}
		return "", fmt.Errorf("invalid GitHub repository URI: %s (no path found)", uri)
	}

	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid GitHub repository URI: %s (no path found)", uri)
	}

	repoPath := strings.TrimPrefix(u.Path, "/")
	if repoPath == "" {
		return "", fmt.Errorf("invalid GitHub repository URI: %s (no path found)", uri)
	}

	return repoPath, nil
}

// BuildAPIURL returns the REST API root for a provider base URL. The public
// API is used without a base URL; GitHub Enterprise hosts get /api/v3.
func BuildAPIURL(baseURL string) string {
	if baseURL == "" {
		return publicAPIURL
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/api/v3") {
		return baseURL
	}

	return baseURL + "/api/v3"
}
