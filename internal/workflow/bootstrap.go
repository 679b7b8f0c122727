package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mmr-tortoise/gitrepo/internal/git"
	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// DefaultInitialBranch is used by Bootstrap when no branch name is given.
const DefaultInitialBranch = "main"

// BootstrapOptions configures a bootstrap run.
type BootstrapOptions struct {
	// DefaultBranch is the initial branch name. Empty means
	// DefaultInitialBranch.
	DefaultBranch string

	// UserEmail, when non-blank, is written to user.email.
	UserEmail string

	// Config holds additional git config entries, applied in key order
	// after user.email.
	Config map[string]string
}

// Bootstrap initializes a new repository in the runner's directory.
// It always fails, without running git init, when the directory already
// belongs to a repository (work tree, bare repository or .git directory).
func Bootstrap(ctx context.Context, g *git.Client, opts BootstrapOptions, log Reporter) error {
	branch := opts.DefaultBranch
	if branch == "" {
		branch = DefaultInitialBranch
	}

	return runSteps(ctx, log, []step{
		{name: "guard", run: func(ctx context.Context) error {
			if g.IsRepository(ctx) {
				return model.NewCLIError(model.ExitAlreadyRepository, "Already a git repo")
			}
			return nil
		}},
		{name: "init", run: func(ctx context.Context) error {
			if err := g.Init(ctx, branch); err != nil {
				return err
			}
			log.Logf("Initialized repository on branch %s", branch)
			return nil
		}},
		{name: "configure", run: func(ctx context.Context) error {
			return applyConfig(ctx, g, opts, log)
		}},
	})
}

func applyConfig(ctx context.Context, g *git.Client, opts BootstrapOptions, log Reporter) error {
	if email := strings.TrimSpace(opts.UserEmail); email != "" {
		if err := g.SetConfig(ctx, "user.email", email); err != nil {
			return err
		}
		log.Logf("Set user.email to %s", email)
	}

	keys := make([]string, 0, len(opts.Config))
	for k := range opts.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return model.NewCLIError(model.ExitGeneralError, "config key must not be empty")
		}
		if err := g.SetConfig(ctx, k, opts.Config[k]); err != nil {
			return err
		}
		log.Logf("Set %s to %s", k, opts.Config[k])
	}
	return nil
}

// String renders the options for verbose output.
func (o BootstrapOptions) String() string {
	return fmt.Sprintf("branch=%q email=%q config=%d", o.DefaultBranch, o.UserEmail, len(o.Config))
}
