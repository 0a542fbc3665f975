package deploy

import (
	"context"
	"fmt"
	"time"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/output"
)

// State is a terminal-tracking state of the deployment workflow
type State int

// Workflow states
const (
	StateSubmitting State = iota
	StatePolling
	StateSucceeded
	StateFailed
)

const (
	// DefaultInterval is the fixed delay between status queries
	DefaultInterval = 300 * time.Millisecond

	// DefaultFailureBudget is the number of consecutive status-query
	// failures that aborts the run
	DefaultFailureBudget = 3

	// noDescription is reported when GitHub gives no failure description
	noDescription = "No description given"
)

// Options describes one deployment run
type Options struct {
	Repo        github.Repo
	Ref         string
	Environment string

	// Force bypasses commit status checks
	Force bool

	// Detached returns right after creation without polling
	Detached bool
}

// Outcome is the terminal result of a run. A Failed state with a nil error
// means GitHub reported the deployment as failed; the run itself succeeded.
type Outcome struct {
	State   State
	Message string
}

// Poller submits a deployment and drives it to a terminal state
type Poller struct {
	client   github.Client
	reporter output.Reporter
	splog    *output.Splog

	// Interval is the fixed inter-poll delay
	Interval time.Duration

	// FailureBudget aborts the run once this many consecutive status
	// queries have failed
	FailureBudget int

	// Sleep suspends between poll iterations. Tests replace it.
	Sleep func(time.Duration)
}

// NewPoller creates a poller with the default interval and failure budget
func NewPoller(client github.Client, reporter output.Reporter, splog *output.Splog) *Poller {
	return &Poller{
		client:        client,
		reporter:      reporter,
		splog:         splog,
		Interval:      DefaultInterval,
		FailureBudget: DefaultFailureBudget,
		Sleep:         time.Sleep,
	}
}

// Run creates the deployment and polls it to a terminal state. Creation
// failure and an exhausted failure budget return an error; a deployment that
// GitHub reports as failed returns a Failed outcome with a nil error.
func (p *Poller) Run(ctx context.Context, opts Options) (outcome Outcome, err error) {
	// Error returns must tear the progress display down so the terminal is
	// restored before the error is printed.
	defer func() {
		if err != nil {
			p.reporter.Stop()
		}
	}()

	p.printCompareLink(ctx, opts)

	p.reporter.SetMessage("Triggering deployment")

	req := BuildRequest(opts.Ref, opts.Environment, opts.Force)
	deployment, err := p.client.CreateDeployment(ctx, opts.Repo.Owner, opts.Repo.Name, req)
	if err != nil {
		return Outcome{State: StateFailed}, fmt.Errorf("%w: %v", errors.ErrDeploymentCreateFailed, err)
	}

	p.reporter.SetPrefix(fmt.Sprintf("[%s:%d]", deployment.Environment, deployment.ID))

	if opts.Detached {
		p.reporter.Finish("Deployment triggered")
		return Outcome{State: StateSucceeded, Message: "Deployment triggered"}, nil
	}

	return p.poll(ctx, opts.Repo, deployment.ID)
}

// poll queries the deployment's status history until a terminal state is
// reached. A single failed query is retried silently; the consecutive-failure
// counter resets on any successful query.
func (p *Poller) poll(ctx context.Context, repo github.Repo, deploymentID int64) (Outcome, error) {
	failures := 0

	for {
		p.Sleep(p.Interval)

		statuses, err := p.client.ListDeploymentStatuses(ctx, repo.Owner, repo.Name, deploymentID)
		if err != nil {
			failures++
			if failures >= p.FailureBudget {
				return Outcome{State: StateFailed}, errors.NewStatusCheckError(failures, err)
			}
			continue
		}
		failures = 0

		if len(statuses) == 0 {
			p.reporter.SetMessage("Waiting for deployments to begin")
			continue
		}

		// Only the most recent entry is consulted.
		status := statuses[0]
		switch status.State {
		case github.StateSuccess:
			p.reporter.Finish("Done!")
			return Outcome{State: StateSucceeded, Message: "Done!"}, nil

		case github.StateError, github.StateFailure:
			msg := "Build finished with error. " + describe(status)
			p.reporter.Finish(msg)
			return Outcome{State: StateFailed, Message: msg}, nil

		default:
			// pending, queued, in_progress: still running
			p.reporter.SetMessage("Deploying")
		}
	}
}

// printCompareLink prints a commit comparison link against the most recent
// existing deployment for the environment. Failures here are tolerated; the
// link is informational only.
func (p *Poller) printCompareLink(ctx context.Context, opts Options) {
	prior, err := p.client.ListDeployments(ctx, opts.Repo.Owner, opts.Repo.Name, opts.Environment)
	if err != nil {
		p.splog.Warn("Unable to list prior deployments: %v", err)
		return
	}
	if len(prior) == 0 {
		return
	}

	latest := mostRecentPrior(prior)
	p.reporter.Println(fmt.Sprintf(
		"See commit difference at https://%s/%s/%s/compare/%s...%s",
		github.Hostname, opts.Repo.Owner, opts.Repo.Name, opts.Ref, latest.SHA,
	))
}

// mostRecentPrior trusts GitHub's most-recent-first list ordering. The trust
// boundary lives here so it can be hardened without touching the poll loop.
func mostRecentPrior(prior []github.PriorDeployment) github.PriorDeployment {
	return prior[0]
}

func describe(status github.DeploymentStatus) string {
	if status.Description == "" {
		return noDescription
	}
	return status.Description
}
