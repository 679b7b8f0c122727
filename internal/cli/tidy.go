// Package cli: tidy.go implements the "gitrepo tidy-branch" command.
//
// tidy-branch flattens the current branch into a single commit on top of
// the target branch. The original commits are kept on <branch>-backup.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// tidyFlags holds the flag values for the tidy-branch command.
type tidyFlags struct {
	quiet  bool
	target string
}

// NewTidyBranchCommand creates the "tidy-branch" cobra command.
func NewTidyBranchCommand() *cobra.Command {
	flags := &tidyFlags{}

	cmd := &cobra.Command{
		Use:   "tidy-branch",
		Short: "Squash the current branch into a single commit",
		Long: `Recreate the current branch from the target branch (main, then master, or
--target) with all of its changes squashed into one commit.

A backup of the branch is created as <branch>-backup before anything is
changed and is never deleted. The upstream of the branch is restored at
the end; you will usually need to force-push afterwards.

Examples:
  gitrepo tidy-branch
  gitrepo tidy-branch --target develop --quiet`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runTidyBranch(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not ask for confirmation")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Branch to rebase onto instead of main/master")

	return cmd
}

func runTidyBranch(cmd *cobra.Command, flags *tidyFlags) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	opts := workflow.TidyOptions{
		Quiet:  flags.quiet,
		Target: flags.target,
		Remote: e.cfg.Git.Remote,
	}
	confirm := stdinConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}

	if err := workflow.TidyBranch(cmd.Context(), e.client, opts, confirm, e.reporter); err != nil {
		return err
	}

	e.printResult("Branch tidied.")
	return nil
}
