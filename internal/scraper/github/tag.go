package github

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type gitHubTag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

func (c *Client) fetchTags(ctx context.Context, repoInfo *RepositoryInfo, limit int) ([]Ref, error) {
	refs := make([]Ref, 0)

	count, err := paginate(ctx, c, fmt.Sprintf("/repos/%s/%s/tags", repoInfo.Owner, repoInfo.Repo), limit, func(tag gitHubTag) bool {
		ref := Ref{Name: tag.Name}
		if tag.Commit.SHA != "" {
			ref.Information = fmt.Sprintf("commit: %.7s", tag.Commit.SHA)
		}
		refs = append(refs, ref)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	log.Debug().
		Int("tags", count).
		Str("repo", repoInfo.String()).
		Msg("fetched tags from GitHub")

	return refs, nil
}
