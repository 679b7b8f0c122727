package workflow

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/gitrepo/internal/git"
	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// BackupSuffix is appended to the working branch to name the backup branch.
const BackupSuffix = "-backup"

// TidyOptions configures a tidy-branch run.
type TidyOptions struct {
	// Quiet skips the confirmation prompt.
	Quiet bool

	// Target overrides target-branch selection. Empty means "main", then
	// "master".
	Target string

	// Remote is the remote whose prefix is stripped from remote branches.
	// Empty means git.DefaultRemote.
	Remote string
}

// tidyPrompt is shown before tidy-branch mutates anything.
var tidyPrompt = Prompt{
	Message: "This command will back up the current branch, recreate it from the target branch " +
		"and squash the backup into it as a single commit.",
}

// BackupBranchName returns the backup branch name for working.
func BackupBranchName(working string) string {
	return working + BackupSuffix
}

// TidyCommitMessage returns the commit message written by tidy-branch.
func TidyCommitMessage(working, target string) string {
	return fmt.Sprintf("Tidy branch %s based on %s", working, target)
}

// tidyRun holds the state captured while a tidy-branch run progresses.
type tidyRun struct {
	git  *git.Client
	opts TidyOptions
	log  Reporter

	local       []string
	branches    *model.BranchSet
	working     string
	upstream    string
	hasUpstream bool
	target      string
	backup      string
}

// TidyBranch flattens the current branch into a single commit on top of
// the target branch, keeping its name and upstream.
//
// Steps, in order: validate repository, confirm, snapshot (branches,
// working branch, pull, upstream), select target, create backup branch,
// recreate the working branch from the target, squash-merge the backup,
// commit, restore the upstream. The run stops at the first failing step;
// the backup branch is left in place in every case.
func TidyBranch(ctx context.Context, g *git.Client, opts TidyOptions, confirm Confirmer, log Reporter) error {
	t := &tidyRun{git: g, opts: opts, log: log}

	return runSteps(ctx, log, []step{
		{name: "validate repository", run: validateRepo(g)},
		{name: "confirm", run: confirmStep(opts.Quiet, confirm, tidyPrompt)},
		{name: "snapshot", run: t.snapshot},
		{name: "select target", run: t.selectTarget},
		{name: "backup", run: t.createBackup},
		{name: "recreate", run: t.recreateWorking},
		{name: "squash merge", run: t.squashMerge},
		{name: "commit", run: t.commit},
		{name: "restore upstream", run: t.restoreUpstream},
	})
}

// validateRepo returns the ValidateRepo state shared by tidy-branch and nuke.
func validateRepo(g *git.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if !g.IsInsideWorkTree(ctx) {
			return model.NewCLIError(model.ExitNotRepository, "Not a git repo")
		}
		return nil
	}
}

// snapshot captures the branch set, the working branch and its upstream.
// The pull runs before the upstream query so that a branch whose upstream
// was deleted remotely is seen as such. A working branch without an
// upstream has nothing to pull, so its pull failure is not fatal.
func (t *tidyRun) snapshot(ctx context.Context) error {
	local, err := t.git.LocalBranches(ctx)
	if err != nil {
		return err
	}
	remote, err := t.git.RemoteBranches(ctx)
	if err != nil {
		return err
	}
	t.local = local
	t.branches = git.CombineBranches(local, remote, t.opts.Remote)

	working, err := t.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	t.working = working
	t.log.Logf("Working branch: %s", working)

	pullErr := t.git.Pull(ctx)
	upstream, ok, err := t.git.CurrentUpstream(ctx)
	if pullErr != nil && (err != nil || ok) {
		return pullErr
	}
	if err != nil {
		return err
	}
	if pullErr != nil {
		t.log.Logf("No upstream configured for %s; skipped pull.", working)
	} else {
		t.log.Logf("Pulled latest changes.")
	}

	t.upstream, t.hasUpstream = upstream, ok
	if ok {
		t.log.Logf("Current upstream branch: %s", upstream)
	}
	return nil
}

func (t *tidyRun) selectTarget(_ context.Context) error {
	target, ok := SelectTarget(t.branches, t.opts.Target)
	if !ok {
		return model.NewCLIError(model.ExitTargetNotFound, "Target branch not found.")
	}
	if target == t.working {
		return model.NewCLIError(model.ExitBranchConflict,
			fmt.Sprintf("working branch %s is the target branch; check out the branch to tidy first", target))
	}
	t.target = target
	t.log.Logf("Will use target branch: %s", target)
	return nil
}

// createBackup branches off the current tip. An existing branch with the
// backup name is never reused or renamed.
func (t *tidyRun) createBackup(ctx context.Context) error {
	t.backup = BackupBranchName(t.working)
	for _, name := range t.local {
		if name == t.backup {
			return model.NewCLIError(model.ExitBranchConflict,
				fmt.Sprintf("backup branch %s already exists", t.backup))
		}
	}

	if err := t.git.CheckoutNew(ctx, t.backup); err != nil {
		return err
	}
	t.log.Logf("Created backup branch: %s", t.backup)
	return nil
}

// recreateWorking moves to the target first: git refuses to delete the
// checked-out branch.
func (t *tidyRun) recreateWorking(ctx context.Context) error {
	if err := t.git.Checkout(ctx, t.target); err != nil {
		return err
	}

	if err := t.git.DeleteBranch(ctx, t.working); err != nil {
		return err
	}
	t.log.Logf("Deleted branch: %s", t.working)

	if err := t.git.CheckoutNew(ctx, t.working); err != nil {
		return err
	}
	t.log.Logf("Recreated branch %s from %s", t.working, t.target)
	return nil
}

func (t *tidyRun) squashMerge(ctx context.Context) error {
	if err := t.git.MergeSquash(ctx, t.backup); err != nil {
		return err
	}
	t.log.Logf("Merged %s into the working branch", t.backup)
	return nil
}

func (t *tidyRun) commit(ctx context.Context) error {
	if err := t.git.Commit(ctx, TidyCommitMessage(t.working, t.target)); err != nil {
		return err
	}
	t.log.Logf("Committed changes to %s", t.working)
	return nil
}

func (t *tidyRun) restoreUpstream(ctx context.Context) error {
	if !t.hasUpstream {
		return nil
	}
	if err := t.git.SetUpstream(ctx, t.upstream); err != nil {
		return err
	}
	t.log.Logf("Set upstream branch to %s", t.upstream)
	t.log.Logf("You will likely need to force-push your changes to the remote repository.")
	return nil
}
