package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"
)

// OpenRepository opens the git repository containing path. Parent
// directories are searched for the .git directory.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("not a git repository (or any parent up to mount point): %s", path)
		}
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	r := &Repository{WorkingDirectory: absPath, repo: repo}

	if wt, err := repo.Worktree(); err == nil {
		r.WorkingDirectory = wt.Filesystem.Root()
	}

	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		r.RemoteURL = remote.Config().URLs[0]
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		r.Branch = head.Name().Short()
	}

	log.Debug().
		Str("path", path).
		Str("workingDirectory", r.WorkingDirectory).
		Str("remoteURL", r.RemoteURL).
		Str("branch", r.Branch).
		Msg("Opened git repository")

	return r, nil
}

// Tags lists all tags of the repository, annotated and lightweight,
// ordered by name.
func (r *Repository) Tags() ([]*Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("unable to list tags: %w", err)
	}

	tags := make([]*Tag, 0)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		tag, err := resolveTag(r.repo, ref)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

func resolveTag(repo *gogit.Repository, ref *plumbing.Reference) (*Tag, error) {
	tag := &Tag{
		Name:   ref.Name().Short(),
		Commit: ref.Hash().String(),
	}

	tagObject, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		tag.Annotated = true
		tag.Message = strings.TrimSpace(tagObject.Message)
		tag.When = tagObject.Tagger.When
		tag.Commit = tagObject.Target.String()
		return tag, nil
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return nil, fmt.Errorf("unable to resolve tag %s: %w", tag.Name, err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		// lightweight tags may point at trees or blobs
		log.Trace().Err(err).Str("tag", tag.Name).Msg("tag does not point to a commit")
		return tag, nil
	}
	tag.When = commit.Committer.When

	return tag, nil
}
