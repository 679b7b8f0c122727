// Package cli: bootstrap.go implements the "gitrepo bootstrap" command.
//
// Values are layered: the config file's [bootstrap] section, then the
// --template file, then explicit flags.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitrepo/internal/template"
	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// bootstrapFlags holds the flag values for the bootstrap command.
type bootstrapFlags struct {
	defaultBranch string
	userEmail     string
	template      string
}

// NewBootstrapCommand creates the "bootstrap" cobra command.
func NewBootstrapCommand() *cobra.Command {
	flags := &bootstrapFlags{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Initialize a new repository",
		Long: `Initialize a git repository in the current directory with the given default
branch, optionally setting user.email and further config values from a
template (JSONC or YAML).

Fails if the current directory is already inside a repository.

Examples:
  gitrepo bootstrap
  gitrepo bootstrap --default-branch trunk --user-email dev@example.com
  gitrepo bootstrap --template ~/.config/gitrepo/work.jsonc`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.defaultBranch, "default-branch", workflow.DefaultInitialBranch, "Initial branch name")
	cmd.Flags().StringVar(&flags.userEmail, "user-email", "", "Value for user.email")
	cmd.Flags().StringVar(&flags.template, "template", "", "Bootstrap template file (.jsonc, .json, .yaml)")

	return cmd
}

func runBootstrap(cmd *cobra.Command, flags *bootstrapFlags) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	opts := workflow.BootstrapOptions{
		DefaultBranch: e.cfg.Bootstrap.DefaultBranch,
		UserEmail:     e.cfg.Bootstrap.UserEmail,
	}

	templatePath := e.cfg.Bootstrap.Template
	if cmd.Flags().Changed("template") {
		templatePath = flags.template
	}
	if templatePath != "" {
		tmpl, err := template.Load(templatePath)
		if err != nil {
			return err
		}
		VerboseLog("Loaded template %s", templatePath)
		if tmpl.DefaultBranch != "" {
			opts.DefaultBranch = tmpl.DefaultBranch
		}
		if tmpl.UserEmail != "" {
			opts.UserEmail = tmpl.UserEmail
		}
		opts.Config = tmpl.Config
	}

	if cmd.Flags().Changed("default-branch") {
		opts.DefaultBranch = flags.defaultBranch
	}
	if cmd.Flags().Changed("user-email") {
		opts.UserEmail = flags.userEmail
	}
	VerboseLog("Bootstrap options: %s", opts)

	if err := workflow.Bootstrap(cmd.Context(), e.client, opts, e.reporter); err != nil {
		return err
	}

	e.printResult("Repository bootstrapped.")
	return nil
}
