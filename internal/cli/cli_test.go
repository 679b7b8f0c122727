// Package cli: cli_test.go drives the cobra commands end to end against a
// git.MockRunner, so no real repository is touched.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gitrepo/internal/config"
	"github.com/mmr-tortoise/gitrepo/internal/git"
	"github.com/mmr-tortoise/gitrepo/internal/model"
	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// runCLI executes the root command with args and stdin, using m for every
// git invocation. It returns stdout, stderr and the command error.
func runCLI(t *testing.T, m *git.MockRunner, stdin string, args ...string) (string, string, error) {
	t.Helper()

	previous := newRunner
	noColorBefore := color.NoColor
	t.Cleanup(func() {
		newRunner = previous
		color.NoColor = noColorBefore
	})
	newRunner = func(*config.Config, io.Writer) git.Runner { return m }
	color.NoColor = true

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func featureRepo() *git.MockRunner {
	return git.NewMockRunner().
		On("rev-parse --is-inside-work-tree", "true").
		On("branch --format=%(refname:short)", "feature", "main").
		On("branch --show-current", "feature").
		Fail("rev-parse --abbrev-ref --symbolic-full-name @{u}", "fatal: no upstream configured for branch 'feature'")
}

func TestTidyBranchCommand_Quiet(t *testing.T) {
	m := featureRepo()

	stdout, _, err := runCLI(t, m, "", "tidy-branch", "-q")

	require.NoError(t, err)
	assert.True(t, m.Called("commit -m Tidy branch feature based on main"))
	assert.Contains(t, stdout, "Will use target branch: main")
	assert.True(t, strings.HasSuffix(stdout, "Branch tidied.\n"))
}

func TestTidyBranchCommand_TargetFlag(t *testing.T) {
	m := featureRepo()

	_, _, err := runCLI(t, m, "", "tidy-branch", "--quiet", "--target", "develop")

	require.NoError(t, err)
	assert.True(t, m.Called("checkout --force develop"))
}

func TestTidyBranchCommand_PromptDeclined(t *testing.T) {
	m := featureRepo()

	stdout, _, err := runCLI(t, m, "n\n", "tidy-branch")

	require.Error(t, err)
	assert.Equal(t, model.ExitUserCancelled, model.CodeOf(err))
	assert.Contains(t, stdout, "[y/N]")
	assert.False(t, m.Called("branch --show-current"))
}

func TestTidyBranchCommand_PromptAccepted(t *testing.T) {
	m := featureRepo()

	_, _, err := runCLI(t, m, "Yes\n", "tidy-branch")

	require.NoError(t, err)
	assert.True(t, m.Called("merge --squash feature-backup"))
}

func TestTidyBranchCommand_ClosedStdinIsNo(t *testing.T) {
	m := featureRepo()

	_, _, err := runCLI(t, m, "", "tidy-branch")

	assert.Equal(t, model.ExitUserCancelled, model.CodeOf(err))
}

func TestNukeCommand_NoSwitchBranch(t *testing.T) {
	m := git.NewMockRunner().
		On("rev-parse --is-inside-work-tree", "true").
		On("branch --format=%(refname:short)", "hotfix", "old1", "old2").
		On("branch --show-current", "hotfix")

	stdout, _, err := runCLI(t, m, "", "nuke", "-q", "-n")

	require.NoError(t, err)
	assert.True(t, m.Called("branch -D old1"))
	assert.True(t, m.Called("branch -D old2"))
	assert.False(t, m.Called("reset --hard"))
	assert.Contains(t, stdout, "Git repo nuked.")
}

func TestNukeCommand_WarningShownInPrompt(t *testing.T) {
	m := git.NewMockRunner().On("rev-parse --is-inside-work-tree", "true")

	stdout, _, err := runCLI(t, m, "no\n", "nuke")

	require.Error(t, err)
	assert.Contains(t, stdout, "not reversible")
}

func TestNukeCommand_UseBranch(t *testing.T) {
	m := git.NewMockRunner().
		On("rev-parse --is-inside-work-tree", "true").
		On("branch --format=%(refname:short)", "develop", "main")

	_, _, err := runCLI(t, m, "", "nuke", "-q", "-b", "develop")

	require.NoError(t, err)
	assert.True(t, m.Called("checkout --force develop"))
	assert.True(t, m.Called("branch -D main"))
}

func TestBootstrapCommand_Flags(t *testing.T) {
	m := git.NewMockRunner().Fail("rev-parse --git-dir", "fatal: not a git repository")

	stdout, _, err := runCLI(t, m, "", "bootstrap", "--default-branch", "trunk", "--user-email", "dev@example.com")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"rev-parse --git-dir",
		"init -b trunk",
		"config user.email dev@example.com",
	}, m.Calls())
	assert.Contains(t, stdout, "Repository bootstrapped.")
}

func TestBootstrapCommand_TemplateThenFlags(t *testing.T) {
	m := git.NewMockRunner().Fail("rev-parse --git-dir", "fatal: not a git repository")
	tmpl := filepath.Join(t.TempDir(), "tmpl.yaml")
	require.NoError(t, os.WriteFile(tmpl, []byte("defaultBranch: trunk\nuserEmail: tmpl@example.com\nconfig:\n  pull.rebase: \"true\"\n"), 0644))

	_, _, err := runCLI(t, m, "", "bootstrap", "--template", tmpl, "--user-email", "flag@example.com")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"rev-parse --git-dir",
		"init -b trunk",
		"config user.email flag@example.com",
		"config pull.rebase true",
	}, m.Calls())
}

func TestBootstrapCommand_MissingTemplate(t *testing.T) {
	m := git.NewMockRunner().Fail("rev-parse --git-dir", "fatal: not a git repository")

	_, _, err := runCLI(t, m, "", "bootstrap", "--template", filepath.Join(t.TempDir(), "none.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "template not found")
	assert.Empty(t, m.Calls())
}

func TestBootstrapCommand_AlreadyRepository(t *testing.T) {
	m := git.NewMockRunner().On("rev-parse --git-dir", ".git")

	_, _, err := runCLI(t, m, "", "bootstrap")

	assert.Equal(t, model.ExitAlreadyRepository, model.CodeOf(err))
	assert.False(t, m.Called("init -b main"))
}

func TestJSONOutput_Success(t *testing.T) {
	m := featureRepo()

	stdout, stderr, err := runCLI(t, m, "", "--json", "tidy-branch", "-q")

	require.NoError(t, err)
	var outcome model.Outcome
	require.NoError(t, json.Unmarshal([]byte(stdout), &outcome), stdout)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, model.ExitSuccess, outcome.Code)
	assert.Contains(t, stdout, `"code": 0`)
	assert.Contains(t, stderr, "Working branch: feature", "narration moves to stderr")
}

func TestPrintError(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { jsonOutput = false })

	var text bytes.Buffer
	jsonOutput = false
	printError(&text, model.NewCLIError(model.ExitTargetNotFound, "Target branch not found."))
	assert.Equal(t, "Error: Target branch not found.\n", text.String())

	var js bytes.Buffer
	jsonOutput = true
	printError(&js, model.NewCLIError(model.ExitTargetNotFound, "Target branch not found."))
	var outcome model.Outcome
	require.NoError(t, json.Unmarshal(js.Bytes(), &outcome))
	assert.Equal(t, model.Outcome{
		Succeeded:     false,
		FailureReason: "Target branch not found.",
		Code:          model.ExitTargetNotFound,
	}, outcome)
}

func TestStdinConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			c := stdinConfirmer{in: strings.NewReader(tt.input), out: &out}
			got, err := c.Confirm(context.Background(), workflowPrompt())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Proceed with the thing.")
		})
	}
}

func workflowPrompt() workflow.Prompt {
	return workflow.Prompt{Message: "Proceed with the thing."}
}
