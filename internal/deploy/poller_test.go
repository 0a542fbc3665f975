package deploy_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/deploy"
	apperrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/output"
)

// statusResponse scripts one answer of the status-list endpoint
type statusResponse struct {
	statuses []github.DeploymentStatus
	err      error
}

// fakeClient is a scripted github.Client
type fakeClient struct {
	prior     []github.PriorDeployment
	listErr   error
	createErr error

	created     []github.CreateDeploymentOptions
	script      []statusResponse
	statusCalls int
}

func (c *fakeClient) ListDeployments(_ context.Context, _, _, _ string) ([]github.PriorDeployment, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.prior, nil
}

func (c *fakeClient) CreateDeployment(_ context.Context, _, _ string, opts github.CreateDeploymentOptions) (*github.Deployment, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, opts)
	return &github.Deployment{ID: 42, Environment: opts.Environment}, nil
}

func (c *fakeClient) ListDeploymentStatuses(_ context.Context, _, _ string, _ int64) ([]github.DeploymentStatus, error) {
	idx := c.statusCalls
	c.statusCalls++
	if len(c.script) == 0 {
		return nil, nil
	}
	if idx >= len(c.script) {
		idx = len(c.script) - 1
	}
	response := c.script[idx]
	return response.statuses, response.err
}

// recordingReporter captures progress events
type recordingReporter struct {
	lines    []string
	prefix   string
	messages []string
	finished string
	done     bool
	stopped  bool
}

func (r *recordingReporter) Println(msg string) { r.lines = append(r.lines, msg) }
func (r *recordingReporter) SetPrefix(prefix string) { r.prefix = prefix }
func (r *recordingReporter) SetMessage(msg string) { r.messages = append(r.messages, msg) }
func (r *recordingReporter) Finish(msg string) {
	r.finished = msg
	r.done = true
}
func (r *recordingReporter) Stop() { r.stopped = true }

func newTestPoller(client *fakeClient) (*deploy.Poller, *recordingReporter) {
	return newTestPollerWithSplog(client, output.NewSplogWithWriter(io.Discard))
}

func newTestPollerWithSplog(client *fakeClient, splog *output.Splog) (*deploy.Poller, *recordingReporter) {
	reporter := &recordingReporter{}
	poller := deploy.NewPoller(client, reporter, splog)
	poller.Interval = time.Millisecond
	poller.Sleep = func(time.Duration) {}
	return poller, reporter
}

func testOptions() deploy.Options {
	return deploy.Options{
		Repo:        github.Repo{Owner: "acme", Name: "widgets"},
		Ref:         "main",
		Environment: "staging",
	}
}

func TestPollerRun(t *testing.T) {
	t.Run("polls a deployment to success", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StatePending}}},
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		poller, reporter := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Equal(t, 2, client.statusCalls)
		require.Contains(t, reporter.messages, "Deploying")
		require.Equal(t, "Done!", reporter.finished)
		require.Equal(t, "[staging:42]", reporter.prefix)
		require.False(t, reporter.stopped)
	})

	t.Run("surfaces a failed deployment without a run error", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StateFailure, Description: "build failed"}}},
			},
		}
		poller, reporter := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateFailed, outcome.State)
		require.Equal(t, "Build finished with error. build failed", reporter.finished)
	})

	t.Run("uses a placeholder when the failure has no description", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StateError}}},
			},
		}
		poller, reporter := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateFailed, outcome.State)
		require.Equal(t, "Build finished with error. No description given", reporter.finished)
	})

	t.Run("only consults the most recent status entry", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{
					{State: github.StateSuccess},
					{State: github.StateFailure, Description: "stale failure"},
					{State: github.StatePending},
				}},
			},
		}
		poller, reporter := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Equal(t, "Done!", reporter.finished)
	})

	t.Run("keeps waiting on an empty status list", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: nil},
				{statuses: nil},
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		poller, reporter := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Contains(t, reporter.messages, "Waiting for deployments to begin")
	})

	t.Run("retries transient status failures and resets the counter", func(t *testing.T) {
		queryErr := errors.New("transport down")
		client := &fakeClient{
			script: []statusResponse{
				{err: queryErr},
				{err: queryErr},
				{statuses: nil},
				{err: queryErr},
				{err: queryErr},
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		poller, _ := newTestPoller(client)

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Equal(t, 6, client.statusCalls)
	})

	t.Run("aborts after three consecutive status failures", func(t *testing.T) {
		queryErr := errors.New("transport down")
		client := &fakeClient{
			script: []statusResponse{
				{err: queryErr},
				{err: queryErr},
				{err: queryErr},
			},
		}
		poller, reporter := newTestPoller(client)

		_, err := poller.Run(context.Background(), testOptions())
		require.ErrorIs(t, err, apperrors.ErrStatusCheckUnavailable)
		require.Equal(t, 3, client.statusCalls)
		require.True(t, reporter.stopped, "the progress display must be torn down before the error surfaces")
	})

	t.Run("detached mode skips polling entirely", func(t *testing.T) {
		client := &fakeClient{}
		poller, reporter := newTestPoller(client)

		opts := testOptions()
		opts.Detached = true

		outcome, err := poller.Run(context.Background(), opts)
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Zero(t, client.statusCalls)
		require.Len(t, client.created, 1)
		require.True(t, reporter.done)
	})

	t.Run("creation failure is fatal", func(t *testing.T) {
		client := &fakeClient{createErr: errors.New("ref does not exist")}
		poller, reporter := newTestPoller(client)

		_, err := poller.Run(context.Background(), testOptions())
		require.ErrorIs(t, err, apperrors.ErrDeploymentCreateFailed)
		require.Zero(t, client.statusCalls)
		require.True(t, reporter.stopped, "the progress display must be torn down before the error surfaces")
	})

	t.Run("prints a compare link against the most recent prior deployment", func(t *testing.T) {
		client := &fakeClient{
			prior: []github.PriorDeployment{
				{SHA: "abc123"},
				{SHA: "older"},
			},
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		poller, reporter := newTestPoller(client)

		_, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Len(t, reporter.lines, 1)
		require.Equal(t, "See commit difference at https://github.com/acme/widgets/compare/main...abc123", reporter.lines[0])
	})

	t.Run("tolerates a failing deployment list but warns", func(t *testing.T) {
		client := &fakeClient{
			listErr: errors.New("list backend unavailable"),
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		var buf bytes.Buffer
		poller, reporter := newTestPollerWithSplog(client, output.NewSplogWithWriter(&buf))

		outcome, err := poller.Run(context.Background(), testOptions())
		require.NoError(t, err)
		require.Equal(t, deploy.StateSucceeded, outcome.State)
		require.Empty(t, reporter.lines)
		require.Contains(t, buf.String(), "Unable to list prior deployments")
	})

	t.Run("passes the built request to the client", func(t *testing.T) {
		client := &fakeClient{
			script: []statusResponse{
				{statuses: []github.DeploymentStatus{{State: github.StateSuccess}}},
			},
		}
		poller, _ := newTestPoller(client)

		opts := testOptions()
		opts.Force = false

		_, err := poller.Run(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, client.created, 1)
		require.Equal(t, "main", client.created[0].Ref)
		require.Equal(t, "staging", client.created[0].Environment)
		require.Nil(t, client.created[0].RequiredContexts)
	})
}
