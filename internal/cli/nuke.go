// Package cli: nuke.go implements the "gitrepo nuke" command.
//
// The nuke command cleans the working copy back to one branch: it discards
// local changes, switches to main/master (or --use-branch), deletes every
// other local branch, then pulls and prunes. With --no-switch-branch the
// currently checked-out branch is kept instead.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// nukeFlags holds the flag values for the nuke command.
type nukeFlags struct {
	// quiet skips the interactive confirmation prompt when true.
	quiet bool

	// noSwitchBranch keeps the current branch instead of switching.
	noSwitchBranch bool

	// useBranch overrides main/master as the branch to keep.
	useBranch string
}

// NewNukeCommand creates the "nuke" cobra command.
func NewNukeCommand() *cobra.Command {
	flags := &nukeFlags{}

	cmd := &cobra.Command{
		Use:   "nuke",
		Short: "Clean up the current repository",
		Long: `Reset the repository to its main (or master) branch and delete every other
local branch, then pull and prune.

Local changes are discarded. Unless --quiet is given, the command asks for
confirmation first.

Examples:
  gitrepo nuke
  gitrepo nuke --quiet --no-switch-branch
  gitrepo nuke --use-branch develop`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runNuke(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not ask for confirmation")
	cmd.Flags().BoolVarP(&flags.noSwitchBranch, "no-switch-branch", "n", false, "Do not switch to main or master branch")
	cmd.Flags().StringVarP(&flags.useBranch, "use-branch", "b", "", "Branch to keep instead of main/master")

	return cmd
}

func runNuke(cmd *cobra.Command, flags *nukeFlags) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	opts := workflow.NukeOptions{
		Quiet:          flags.quiet,
		NoSwitchBranch: flags.noSwitchBranch,
		UseBranch:      flags.useBranch,
		Remote:         e.cfg.Git.Remote,
	}
	confirm := stdinConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}

	if err := workflow.Nuke(cmd.Context(), e.client, opts, confirm, e.reporter); err != nil {
		return err
	}

	e.printResult("Git repo nuked.")
	return nil
}
