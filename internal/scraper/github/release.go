package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type gitHubRelease struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Draft       bool   `json:"draft"`
	PreRelease  bool   `json:"prerelease"`
	PublishedAt string `json:"published_at"`
}

// information summarizes the release for display next to its version.
func (r gitHubRelease) information() string {
	var items []string
	if r.Name != "" && r.Name != r.TagName {
		items = append(items, "name: "+r.Name)
	}
	if r.PreRelease {
		items = append(items, "prerelease: true")
	}
	if r.PublishedAt != "" {
		items = append(items, "published: "+r.PublishedAt)
	}
	return strings.Join(items, ", ")
}

// fetchReleases lists published releases. Drafts are skipped and do not
// count towards the limit.
func (c *Client) fetchReleases(ctx context.Context, repoInfo *RepositoryInfo, limit int) ([]Ref, error) {
	refs := make([]Ref, 0)
	drafts := 0

	_, err := paginate(ctx, c, fmt.Sprintf("/repos/%s/%s/releases", repoInfo.Owner, repoInfo.Repo), limit, func(release gitHubRelease) bool {
		if release.Draft || release.TagName == "" {
			drafts++
			return false
		}
		refs = append(refs, Ref{Name: release.TagName, Information: release.information()})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases: %w", err)
	}

	log.Debug().
		Int("releases", len(refs)).
		Int("skipped", drafts).
		Str("repo", repoInfo.String()).
		Msg("fetched releases from GitHub")

	return refs, nil
}
