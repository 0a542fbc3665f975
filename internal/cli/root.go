// Package cli wires the command line surface to the deployment workflow.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/deploy"
	"shipit.dev/shipit/internal/git"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		ref      string
		env      string
		force    bool
		detached bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "shipit [repository]",
		Short: "Shipit triggers GitHub deployments and watches them to completion",
		Long: `Shipit triggers a deployment against the GitHub deployments API and tracks
it through to a terminal state.

The repository argument accepts owner/name or a full remote URL and defaults
to the origin remote of the current repository. When a repository is
specified, --ref is required.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			splog := output.NewSplog()
			defer func() { _ = splog.Close() }()
			splog.SetQuiet(quiet)

			// The credential is a fatal precondition, checked before any
			// other work occurs.
			token, err := github.TokenFromEnv()
			if err != nil {
				return err
			}

			var repoArg string
			if len(args) > 0 {
				repoArg = args[0]
			}
			if repoArg != "" && ref == "" {
				return fmt.Errorf("--ref is required when a repository is specified")
			}

			repo, err := github.ResolveRepo(repoArg)
			if err != nil {
				return fmt.Errorf("failed to resolve repository: %w", err)
			}

			gitRef, err := git.ResolveRef(ref)
			if err != nil {
				return fmt.Errorf("failed to resolve ref: %w", err)
			}

			ctx := cmd.Context()
			client := github.NewRealClient(ctx, token)
			reporter := output.NewReporter(splog)

			poller := deploy.NewPoller(client, reporter, splog)
			outcome, err := poller.Run(ctx, deploy.Options{
				Repo:        repo,
				Ref:         gitRef,
				Environment: env,
				Force:       force,
				Detached:    detached,
			})
			if err != nil {
				return err
			}

			// A deployment GitHub reports as failed is still a clean exit;
			// the reporter has already surfaced the outcome.
			splog.Debug("deployment finished: repo=%s ref=%s state=%d message=%q",
				repo, gitRef, outcome.State, outcome.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ref, "ref", "r", "", "The git ref to deploy. Can be a commit, branch, or tag. Defaults to the current branch.")
	cmd.Flags().StringVarP(&env, "env", "e", "", "The environment to deploy to.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Ignore commit status checks.")
	cmd.Flags().BoolVarP(&detached, "detached", "d", false, "Don't wait for the deployment to complete.")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Silence any output to STDOUT.")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}
