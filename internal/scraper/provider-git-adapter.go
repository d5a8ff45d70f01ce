package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/internal/git"
	"github.com/rs/zerolog/log"
)

// GitProviderClientAdapter reads tags from local repositories. The
// source URI is a path inside the working tree, relative paths are
// resolved against the provider's base URL when set.
type GitProviderClientAdapter struct {
	provider *configuration.PackageSourceProvider
}

func NewGitProviderClient(provider *configuration.PackageSourceProvider) ProviderClient {
	return &GitProviderClientAdapter{provider: provider}
}

func (a *GitProviderClientAdapter) ListVersions(ctx context.Context, source *configuration.PackageSource) ([]RawVersion, error) {
	if source.Type != configuration.PackageSourceTypeGitRepository {
		return nil, fmt.Errorf("unsupported package source type for git provider: %s", source.Type)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository, err := git.OpenRepository(a.repositoryPath(source.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	tags, err := repository.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	log.Debug().
		Str("source", source.Name).
		Str("workingDirectory", repository.WorkingDirectory).
		Str("branch", repository.Branch).
		Int("tags", len(tags)).
		Msg("Read tags from local repository")

	// newest first, so tagLimit keeps the most recent tags
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].When.After(tags[j].When)
	})
	if source.TagLimit > 0 && len(tags) > source.TagLimit {
		tags = tags[:source.TagLimit]
	}

	versions := make([]RawVersion, len(tags))
	for i, tag := range tags {
		versions[i] = RawVersion{Version: tag.Name, Information: tagInformation(repository, tag)}
	}
	return versions, nil
}

func (a *GitProviderClientAdapter) repositoryPath(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(uri) || a.provider == nil || a.provider.BaseUrl == "" {
		return uri
	}
	return filepath.Join(strings.TrimPrefix(a.provider.BaseUrl, "file://"), uri)
}

func tagInformation(repository *git.Repository, tag *git.Tag) string {
	items := []string{fmt.Sprintf("commit: %.7s", tag.Commit)}
	if !tag.When.IsZero() {
		items = append(items, "date: "+tag.When.UTC().Format(time.RFC3339))
	}
	if tag.Annotated && tag.Message != "" {
		message, _, _ := strings.Cut(tag.Message, "\n")
		items = append(items, "message: "+message)
	}
	if repository.RemoteURL != "" {
		items = append(items, "origin: "+repository.RemoteURL)
	}
	return strings.Join(items, ", ")
}
