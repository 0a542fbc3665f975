// Package github provides a client for the GitHub deployments API.
package github

import (
	"context"
)

// DeploymentState is the state reported by a deployment status
type DeploymentState string

// Deployment status states as reported by GitHub
const (
	StatePending DeploymentState = "pending"
	StateSuccess DeploymentState = "success"
	StateError   DeploymentState = "error"
	StateFailure DeploymentState = "failure"
)

// Deployment is a created deployment
// This is a simplified struct to avoid coupling to go-github library
type Deployment struct {
	ID          int64
	Environment string
}

// DeploymentStatus is one entry in a deployment's status history,
// most recent first
type DeploymentStatus struct {
	State       DeploymentState
	Description string
}

// PriorDeployment is an existing deployment for an environment, used only to
// print a commit comparison link
type PriorDeployment struct {
	SHA string
}

// CreateDeploymentOptions describes a deployment creation request.
// RequiredContexts nil means GitHub verifies all unique contexts; an explicit
// empty slice bypasses status checking entirely.
type CreateDeploymentOptions struct {
	Ref              string
	Environment      string
	AutoMerge        bool
	Description      string
	RequiredContexts *[]string
}

// Client is an interface for GitHub deployments API interactions
type Client interface {
	// ListDeployments lists existing deployments for an environment, most recent first
	ListDeployments(ctx context.Context, owner, repo, environment string) ([]PriorDeployment, error)

	// CreateDeployment creates a new deployment
	CreateDeployment(ctx context.Context, owner, repo string, opts CreateDeploymentOptions) (*Deployment, error)

	// ListDeploymentStatuses lists the status history of a deployment, most recent first
	ListDeploymentStatuses(ctx context.Context, owner, repo string, deploymentID int64) ([]DeploymentStatus, error)
}
