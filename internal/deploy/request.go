// Package deploy contains the deployment orchestration workflow: building
// the creation request, submitting it, and polling the deployment through to
// a terminal state.
package deploy

import (
	"shipit.dev/shipit/internal/github"
)

// defaultDescription is attached to every deployment this tool creates. It is
// informational only and has no behavioral effect.
const defaultDescription = "Deployment triggered by shipit"

// BuildRequest assembles a deployment creation request. AutoMerge is always
// false: we never want GitHub to merge the base branch before deploying.
// When force is set, RequiredContexts is an explicit empty slice, which
// instructs GitHub to skip all commit-status verification; otherwise the
// field is omitted and GitHub verifies all unique contexts.
func BuildRequest(ref, environment string, force bool) github.CreateDeploymentOptions {
	opts := github.CreateDeploymentOptions{
		Ref:         ref,
		Environment: environment,
		AutoMerge:   false,
		Description: defaultDescription,
	}

	if force {
		contexts := []string{}
		opts.RequiredContexts = &contexts
	}

	return opts
}
