package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// Client exposes the git verbs used by the workflows.
//
// Every method runs exactly one git invocation through the Runner. A
// non-zero exit is converted into a *model.CLIError with ExitGitError
// whose message names the git command and carries git's stderr.
type Client struct {
	runner Runner
}

// NewClient creates a Client that executes commands through runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// run executes git with args and converts a failed result into an error.
func (c *Client) run(ctx context.Context, args ...string) (model.CommandResult, error) {
	res := c.runner.Run(ctx, args...)
	if !res.Succeeded {
		return res, commandError(args, res)
	}
	return res, nil
}

// commandError builds the CLIError for a failed invocation.
func commandError(args []string, res model.CommandResult) error {
	message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
	if text := strings.TrimSpace(res.ErrorText); text != "" {
		message = fmt.Sprintf("%s: %s", message, text)
	}
	return model.NewCLIError(model.ExitGitError, message)
}

// IsInsideWorkTree reports whether the runner's directory is inside a git
// working tree. Any failure (including git not being installed) counts as
// "not inside".
func (c *Client) IsInsideWorkTree(ctx context.Context) bool {
	res := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return res.Succeeded && res.FirstLine() == "true"
}

// IsRepository reports whether the runner's directory belongs to any git
// repository, including bare repositories and the inside of a .git
// directory where IsInsideWorkTree reports false. Only the exit status of
// rev-parse is consulted.
func (c *Client) IsRepository(ctx context.Context) bool {
	return c.runner.Run(ctx, "rev-parse", "--git-dir").Succeeded
}

// Init creates a new repository whose initial branch is branch.
func (c *Client) Init(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "init", "-b", branch)
	return err
}

// SetConfig sets a repository-local git configuration value.
func (c *Client) SetConfig(ctx context.Context, key, value string) error {
	_, err := c.run(ctx, "config", key, value)
	return err
}

// Pull fetches and integrates the upstream, pruning deleted remote refs.
func (c *Client) Pull(ctx context.Context) error {
	_, err := c.run(ctx, "pull", "--prune")
	return err
}

// Prune removes unreachable loose objects.
func (c *Client) Prune(ctx context.Context) error {
	_, err := c.run(ctx, "prune")
	return err
}

// ResetHard discards all uncommitted changes in the working tree.
func (c *Client) ResetHard(ctx context.Context) error {
	_, err := c.run(ctx, "reset", "--hard")
	return err
}

// Checkout switches to an existing branch, discarding local changes.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "--force", branch)
	return err
}

// CheckoutNew creates branch at HEAD and switches to it. It fails if the
// branch already exists.
func (c *Client) CheckoutNew(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "--force", "-b", branch)
	return err
}

// DeleteBranch force-deletes a local branch. git refuses to delete the
// branch that is currently checked out.
func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "branch", "-D", branch)
	return err
}

// MergeSquash stages the changes of branch on top of HEAD without
// committing them.
func (c *Client) MergeSquash(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "merge", "--squash", branch)
	return err
}

// Commit records the staged changes with message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

// SetUpstream makes the current branch track upstream (e.g. "origin/feature").
func (c *Client) SetUpstream(ctx context.Context, upstream string) error {
	_, err := c.run(ctx, "branch", "--set-upstream-to="+upstream)
	return err
}
