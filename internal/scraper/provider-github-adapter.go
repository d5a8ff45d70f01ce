package scraper

import (
	"context"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/internal/scraper/github"
)

type GitHubProviderClientAdapter struct {
	client *github.Client
}

func NewGitHubProviderClient(provider *configuration.PackageSourceProvider) ProviderClient {
	return &GitHubProviderClientAdapter{
		client: github.NewClient(provider),
	}
}

func (a *GitHubProviderClientAdapter) ListVersions(ctx context.Context, source *configuration.PackageSource) ([]RawVersion, error) {
	refs, err := a.client.ListVersions(ctx, source)
	if err != nil {
		return nil, err
	}

	versions := make([]RawVersion, len(refs))
	for i, ref := range refs {
		versions[i] = RawVersion{Version: ref.Name, Information: ref.Information}
	}
	return versions, nil
}
