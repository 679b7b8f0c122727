package workflow

import (
	"context"

	"github.com/mmr-tortoise/gitrepo/internal/git"
	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// NukeOptions configures a nuke run.
type NukeOptions struct {
	// Quiet skips the confirmation prompt.
	Quiet bool

	// NoSwitchBranch keeps the currently checked-out branch instead of
	// resetting and switching to the target branch.
	NoSwitchBranch bool

	// UseBranch overrides target selection. Ignored with NoSwitchBranch.
	UseBranch string

	// Remote is the remote whose prefix is stripped from remote branches.
	Remote string
}

var nukePrompt = Prompt{
	Message: "This command will switch to the main/master branch and remove all other local branches.",
	Warning: "This will undo any local changes and is not reversible.",
}

// nukeRun holds the state captured while a nuke run progresses.
type nukeRun struct {
	git  *git.Client
	opts NukeOptions
	log  Reporter

	local   []string
	working string
}

// Nuke cleans the working copy back to a single branch.
//
// Unless NoSwitchBranch is set, local changes are discarded with a hard
// reset and the target branch ("main", then "master", or UseBranch) is
// checked out. Every other local branch is then deleted, in the order git
// listed them before any switch happened, followed by a pull and a prune.
// The pull is skipped when the retained branch has no upstream.
// The first failing deletion aborts the remaining ones.
func Nuke(ctx context.Context, g *git.Client, opts NukeOptions, confirm Confirmer, log Reporter) error {
	n := &nukeRun{git: g, opts: opts, log: log}

	steps := []step{
		{name: "validate repository", run: validateRepo(g)},
		{name: "confirm", run: confirmStep(opts.Quiet, confirm, nukePrompt)},
		{name: "list local branches", run: n.listLocal},
	}
	if opts.NoSwitchBranch {
		steps = append(steps, step{name: "resolve working branch", run: n.useCurrent})
	} else {
		steps = append(steps,
			step{name: "select target", run: n.selectTarget},
			step{name: "reset", run: n.reset},
			step{name: "checkout target", run: n.checkout},
		)
	}
	steps = append(steps,
		step{name: "delete other branches", run: n.deleteOthers},
		step{name: "pull", run: n.pull},
		step{name: "prune", run: n.prune},
	)

	return runSteps(ctx, log, steps)
}

func (n *nukeRun) listLocal(ctx context.Context) error {
	local, err := n.git.LocalBranches(ctx)
	if err != nil {
		return err
	}
	n.local = local
	return nil
}

func (n *nukeRun) useCurrent(ctx context.Context) error {
	working, err := n.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	n.working = working
	n.log.Logf("Working branch: %s", working)
	return nil
}

// selectTarget resolves the branch to keep. A repository without a usable
// remote listing still has its local branches, so a failing remote query
// only narrows the candidates.
func (n *nukeRun) selectTarget(ctx context.Context) error {
	remote, err := n.git.RemoteBranches(ctx)
	if err != nil {
		n.log.verbosef("ignoring remote branch listing failure: %v", err)
		remote = nil
	}
	branches := git.CombineBranches(n.local, remote, n.opts.Remote)

	target, ok := SelectTarget(branches, n.opts.UseBranch)
	if !ok {
		return model.NewCLIError(model.ExitTargetNotFound, "No main or master branch found.")
	}
	n.working = target
	n.log.Logf("Will use branch: %s", target)
	return nil
}

func (n *nukeRun) reset(ctx context.Context) error {
	return n.git.ResetHard(ctx)
}

func (n *nukeRun) checkout(ctx context.Context) error {
	return n.git.Checkout(ctx, n.working)
}

func (n *nukeRun) deleteOthers(ctx context.Context) error {
	for _, branch := range n.local {
		if branch == n.working {
			continue
		}
		if err := n.git.DeleteBranch(ctx, branch); err != nil {
			return err
		}
		n.log.Logf("Deleted branch: %s", branch)
	}
	n.log.Logf("All branches deleted except for %s", n.working)
	return nil
}

// pull updates the retained branch. A branch without an upstream has
// nothing to pull, so its pull failure is skipped; any other failure,
// or a failure of the upstream query itself, keeps the pull error.
func (n *nukeRun) pull(ctx context.Context) error {
	pullErr := n.git.Pull(ctx)
	if pullErr == nil {
		n.log.Logf("Pulled changes from remote repository.")
		return nil
	}

	_, tracked, err := n.git.CurrentUpstream(ctx)
	if err != nil || tracked {
		return pullErr
	}
	n.log.Logf("No upstream configured for %s; skipped pull.", n.working)
	return nil
}

func (n *nukeRun) prune(ctx context.Context) error {
	return n.git.Prune(ctx)
}
