// Package errors provides sentinel errors and custom error types for the shipit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrMissingCredential indicates that no GitHub token is available
	ErrMissingCredential = errors.New("missing GITHUB_TOKEN. Please set this environment variable")

	// ErrInvalidRemote indicates that a remote URL does not point at a GitHub repository
	ErrInvalidRemote = errors.New("invalid remote")

	// ErrNoRefAvailable indicates that no git ref was given and none could be resolved locally
	ErrNoRefAvailable = errors.New("no ref available")

	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrDeploymentCreateFailed indicates that the deployment could not be created
	ErrDeploymentCreateFailed = errors.New("could not create the specified deployment")

	// ErrStatusCheckUnavailable indicates that the status-query retry budget was exhausted
	ErrStatusCheckUnavailable = errors.New("failed to check deployment status")
)

// InvalidRemoteError represents an error parsing a remote URL or repository shorthand
type InvalidRemoteError struct {
	URL    string
	Reason string
}

func (e *InvalidRemoteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid remote %q: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("invalid remote %q", e.URL)
}

// Is returns true if the target error is ErrInvalidRemote
func (e *InvalidRemoteError) Is(target error) bool {
	return target == ErrInvalidRemote
}

// NewInvalidRemoteError creates a new InvalidRemoteError
func NewInvalidRemoteError(url string, reason string) *InvalidRemoteError {
	return &InvalidRemoteError{URL: url, Reason: reason}
}

// StatusCheckError represents an exhausted retry budget while polling deployment statuses
type StatusCheckError struct {
	Failures int
	Err      error
}

func (e *StatusCheckError) Error() string {
	return fmt.Sprintf("failed to check deployment status after %d consecutive attempts. Exiting", e.Failures)
}

// Is returns true if the target error is ErrStatusCheckUnavailable
func (e *StatusCheckError) Is(target error) bool {
	return target == ErrStatusCheckUnavailable
}

func (e *StatusCheckError) Unwrap() error {
	return e.Err
}

// NewStatusCheckError creates a new StatusCheckError
func NewStatusCheckError(failures int, err error) *StatusCheckError {
	return &StatusCheckError{Failures: failures, Err: err}
}
