package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
}

// NewRealClient creates a new RealClient authenticated with the given token
func NewRealClient(ctx context.Context, token string) *RealClient {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &RealClient{client: github.NewClient(tc)}
}

// NewClientFromGitHub wraps an already configured go-github client. Used by
// tests to point the client at a mock server.
func NewClientFromGitHub(client *github.Client) *RealClient {
	return &RealClient{client: client}
}

// ListDeployments lists existing deployments for an environment, most recent first
func (c *RealClient) ListDeployments(ctx context.Context, owner, repo, environment string) ([]PriorDeployment, error) {
	deployments, _, err := c.client.Repositories.ListDeployments(ctx, owner, repo, &github.DeploymentsListOptions{
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	prior := make([]PriorDeployment, 0, len(deployments))
	for _, d := range deployments {
		prior = append(prior, PriorDeployment{SHA: d.GetSHA()})
	}
	return prior, nil
}

// CreateDeployment creates a new deployment
func (c *RealClient) CreateDeployment(ctx context.Context, owner, repo string, opts CreateDeploymentOptions) (*Deployment, error) {
	req := &github.DeploymentRequest{
		Ref:         github.String(opts.Ref),
		Environment: github.String(opts.Environment),
		AutoMerge:   github.Bool(opts.AutoMerge),
	}

	if opts.Description != "" {
		req.Description = github.String(opts.Description)
	}

	// From the GitHub deployment API documentation: if this parameter is
	// omitted, GitHub verifies all unique contexts before creating a
	// deployment. An empty array bypasses checking entirely.
	if opts.RequiredContexts != nil {
		req.RequiredContexts = opts.RequiredContexts
	}

	deployment, _, err := c.client.Repositories.CreateDeployment(ctx, owner, repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}

	return &Deployment{
		ID:          deployment.GetID(),
		Environment: deployment.GetEnvironment(),
	}, nil
}

// ListDeploymentStatuses lists the status history of a deployment, most recent first
func (c *RealClient) ListDeploymentStatuses(ctx context.Context, owner, repo string, deploymentID int64) ([]DeploymentStatus, error) {
	statuses, _, err := c.client.Repositories.ListDeploymentStatuses(ctx, owner, repo, deploymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployment statuses: %w", err)
	}

	result := make([]DeploymentStatus, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, DeploymentStatus{
			State:       DeploymentState(s.GetState()),
			Description: s.GetDescription(),
		})
	}
	return result, nil
}
