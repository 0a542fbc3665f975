// Package git provides read-only access to the local repository: the
// configured origin remote and the currently checked-out branch.
package git

import (
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"

	"shipit.dev/shipit/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens the git repository containing the given path
func OpenRepository(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       path,
	}, nil
}

// OpenCurrentRepository opens the repository containing the working directory
func OpenCurrentRepository() (*Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return OpenRepository(cwd)
}

// CurrentBranch returns the short name of the currently checked-out branch
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errors.ErrNotOnBranch
	}

	return head.Name().Short(), nil
}

// RemoteURL returns the first URL configured for the named remote
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("no URL set for remote %q", name)
	}

	return urls[0], nil
}
