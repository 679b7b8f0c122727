package git

import (
	"context"
	"strings"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// DefaultRemote is the remote whose prefix is stripped from remote branches
// when no other remote is configured.
const DefaultRemote = "origin"

// noUpstreamMarker is the fragment git prints on stderr when the current
// branch has no tracking branch. ExecRunner forces the C locale so the
// text is never translated.
const noUpstreamMarker = "no upstream configured"

// LocalBranches returns the short names of local branches in git's
// listing order.
func (c *Client) LocalBranches(ctx context.Context) ([]string, error) {
	res, err := c.run(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return res.OutputLines, nil
}

// RemoteBranches returns remote-tracking branch names exactly as git lists
// them, e.g. "origin", "origin/main". Callers strip the remote prefix with
// StripRemote before comparing them to local names.
func (c *Client) RemoteBranches(ctx context.Context) ([]string, error) {
	res, err := c.run(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return res.OutputLines, nil
}

// CombinedBranches returns local branches followed by the de-prefixed
// remote branches of remote, first-seen order, duplicates removed.
func (c *Client) CombinedBranches(ctx context.Context, remote string) (*model.BranchSet, error) {
	local, err := c.LocalBranches(ctx)
	if err != nil {
		return nil, err
	}
	remoteNames, err := c.RemoteBranches(ctx)
	if err != nil {
		return nil, err
	}
	return CombineBranches(local, remoteNames, remote), nil
}

// CombineBranches merges local names with remote names stripped of the
// remote prefix.
func CombineBranches(local, remoteNames []string, remote string) *model.BranchSet {
	set := model.NewBranchSet(local...)
	for _, name := range StripRemote(remoteNames, remote) {
		set.Add(name)
	}
	return set
}

// StripRemote removes the "<remote>/" prefix from remote branch names and
// drops the entries that denote the remote itself: the bare "<remote>"
// that git prints for refs/remotes/<remote>/HEAD, and "<remote>/HEAD".
// Names that belong to other remotes are kept unchanged.
func StripRemote(names []string, remote string) []string {
	if remote == "" {
		remote = DefaultRemote
	}
	prefix := remote + "/"

	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == remote || name == prefix+"HEAD" {
			continue
		}
		out = append(out, strings.TrimPrefix(name, prefix))
	}
	return out
}

// CurrentBranch returns the checked-out branch. It fails when HEAD is
// detached, because git then prints nothing.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	branch := res.FirstLine()
	if branch == "" {
		return "", model.NewCLIError(model.ExitGitError, "not on a branch (HEAD is detached)")
	}
	return branch, nil
}

// CurrentUpstream returns the remote-tracking branch of the current branch.
// ok is false, with a nil error, when no upstream is configured.
func (c *Client) CurrentUpstream(ctx context.Context) (upstream string, ok bool, err error) {
	args := []string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"}
	res := c.runner.Run(ctx, args...)
	if !res.Succeeded {
		if strings.Contains(res.ErrorText, noUpstreamMarker) {
			return "", false, nil
		}
		return "", false, commandError(args, res)
	}
	upstream = res.FirstLine()
	return upstream, upstream != "", nil
}
