package git

import (
	"time"

	gogit "github.com/go-git/go-git/v5"
)

// Repository is a local git repository opened for reading tags.
type Repository struct {
	WorkingDirectory string
	RemoteURL        string
	Branch           string

	repo *gogit.Repository
}

// Tag is a tag of a local repository. For annotated tags, Message and When
// come from the tag object, otherwise When is the commit time.
type Tag struct {
	Name      string
	Commit    string
	Annotated bool
	Message   string
	When      time.Time
}
