package github

import (
	"os"

	"shipit.dev/shipit/internal/errors"
)

// TokenFromEnv reads the GitHub token from the process environment. Its
// absence is a fatal precondition, checked before any other work occurs.
func TokenFromEnv() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", errors.ErrMissingCredential
	}
	return token, nil
}
