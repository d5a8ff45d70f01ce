package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
)

const (
	perPage    = 100
	apiVersion = "2022-11-28"
)

// Ref is a version reference found on GitHub: a tag or a release tag name
// with a short description.
type Ref struct {
	Name        string
	Information string
}

type Client struct {
	provider   *configuration.PackageSourceProvider
	apiBaseURL string
	http       *retryablehttp.Client
}

// NewClient creates a GitHub REST client for the provider. Requests are
// retried on connection errors, 5xx and 429 responses.
func NewClient(provider *configuration.PackageSourceProvider) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.RetryWaitMin = 1 * time.Second
	httpClient.RetryWaitMax = 10 * time.Second
	httpClient.Logger = newLeveledLogger()

	return &Client{
		provider:   provider,
		apiBaseURL: BuildAPIURL(provider.BaseUrl),
		http:       httpClient,
	}
}

// ListVersions returns the tags or releases of the source's repository,
// depending on the source type.
func (c *Client) ListVersions(ctx context.Context, source *configuration.PackageSource) ([]Ref, error) {
	repoInfo, err := ParseRepositoryURL(source.URI)
	if err != nil {
		return nil, err
	}

	switch source.Type {
	case configuration.PackageSourceTypeGitTag:
		return c.fetchTags(ctx, repoInfo, source.TagLimit)
	case configuration.PackageSourceTypeGitRelease:
		return c.fetchReleases(ctx, repoInfo, source.TagLimit)
	default:
		return nil, fmt.Errorf("unsupported package source type for GitHub provider: %s", source.Type)
	}
}

// paginate requests pages of a list endpoint until a short page is returned
// or limit items were collected. A limit of 0 means unlimited.
func paginate[T any](ctx context.Context, c *Client, path string, limit int, collect func(item T) bool) (int, error) {
	collected := 0
	page := 1

	for {
		url := fmt.Sprintf("%s%s?per_page=%d&page=%d", c.apiBaseURL, path, perPage, page)

		log.Trace().Str("url", url).Int("page", page).Msg("fetching GitHub page")

		var items []T
		if err := c.getJSON(ctx, url, &items); err != nil {
			return collected, err
		}

		for _, item := range items {
			if limit > 0 && collected >= limit {
				log.Debug().Int("limit", limit).Str("path", path).Msg("reached tag limit, stopping pagination")
				return collected, nil
			}
			if collect(item) {
				collected++
			}
		}

		if len(items) < perPage {
			return collected, nil
		}
		page++
	}
}

func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	switch {
	case c.provider.AuthType == configuration.PackageSourceProviderAuthTypeToken && c.provider.Token != "":
		request.Header.Set("Authorization", "Bearer "+c.provider.Token)
	case c.provider.AuthType == configuration.PackageSourceProviderAuthTypeBasic && c.provider.Username != "":
		request.SetBasicAuth(c.provider.Username, c.provider.Password)
	}
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", apiVersion)

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed: HTTP %d", url, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
