// Package cli implements the cobra-based CLI commands for gitrepo.
//
// Each subcommand (nuke, tidy-branch, bootstrap) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitrepo/internal/config"
	"github.com/mmr-tortoise/gitrepo/internal/git"
	"github.com/mmr-tortoise/gitrepo/internal/model"
	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether the final result is printed as JSON.
	// Step narration then goes to stderr so stdout stays parseable.
	jsonOutput bool

	// verbose enables step-level trace output on stderr.
	verbose bool

	// debug echoes every line git prints while a workflow runs.
	debug bool

	// noColor disables coloured output regardless of the config file.
	noColor bool

	// configPath is the TOML configuration file to load.
	configPath string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// newRunner builds the git Runner for a command. Tests replace it with a
// function returning a git.MockRunner.
var newRunner = func(cfg *config.Config, echo io.Writer) git.Runner {
	r := git.NewExecRunner(cfg.Git.Binary, "")
	r.Debug = debug
	r.Echo = echo
	return r
}

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitrepo",
		Short: "Suite of small git repository hygiene utilities",
		Long: `gitrepo drives the git command-line tool to keep working copies tidy.

  nuke         reset to main/master and delete every other local branch
  tidy-branch  squash the current branch into one commit on top of main/master
  bootstrap    initialize a new repository with a default branch and identity`,

		// We print errors ourselves (text or JSON based on --json flag).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Show git command output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to the config file")

	rootCmd.AddCommand(NewNukeCommand())
	rootCmd.AddCommand(NewTidyBranchCommand())
	rootCmd.AddCommand(NewBootstrapCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error, or 1 for errors without one.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(int(model.CodeOf(err)))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. The JSON form is the
// same Outcome document printed on success.
func printError(w io.Writer, err error) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(model.OutcomeFromError(err), "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	_, _ = color.New(color.FgRed).Fprintf(w, "Error: %s\n", err)
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// env is what every subcommand needs to run a workflow.
type env struct {
	cfg      *config.Config
	client   *git.Client
	reporter workflow.Reporter
	out      io.Writer
}

// newEnv loads the configuration and wires the git client and reporter
// for cmd.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load config", err)
	}
	if !cfg.Output.Color {
		color.NoColor = true
	}
	VerboseLog("Loaded config from %s", configPath)

	// Narration shares stdout with the result in text mode; in JSON mode
	// it moves to stderr.
	narration := cmd.OutOrStdout()
	if IsJSONOutput() {
		narration = cmd.ErrOrStderr()
	}

	reporter := workflow.Reporter{Out: narration}
	if verbose {
		reporter.Verbose = cmd.ErrOrStderr()
	}

	return &env{
		cfg:      cfg,
		client:   git.NewClient(newRunner(cfg, narration)),
		reporter: reporter,
		out:      cmd.OutOrStdout(),
	}, nil
}

// printResult reports a successful workflow.
func (e *env) printResult(message string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(model.OutcomeFromError(nil), "", "  ")
		fmt.Fprintln(e.out, string(data))
		return
	}
	_, _ = color.New(color.FgGreen).Fprintln(e.out, message)
}
