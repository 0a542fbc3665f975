package git

import (
	"fmt"

	"shipit.dev/shipit/internal/errors"
)

// ResolveRef returns the ref to deploy. An explicit ref is returned unchanged
// (GitHub validates it during deployment creation); otherwise the currently
// checked-out branch is used.
func ResolveRef(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	repo, err := OpenCurrentRepository()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrNoRefAvailable, err)
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrNoRefAvailable, err)
	}

	return branch, nil
}
