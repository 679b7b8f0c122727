package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireGit skips the test when no git binary is available.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not found in PATH")
	}
}

// setupTestRepo creates a temporary directory with an initialized Git
// repository on branch "main" containing a single commit. A local
// user.name and user.email are configured so `git commit` works in CI
// environments where global git config may not be set.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
	runTestGit(t, dir, "config", "commit.gpgsign", "false")

	err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0644)
	require.NoError(t, err, "failed to create initial file")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

// runTestGit runs a git command in dir and fails the test immediately if
// it exits non-zero.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// TestExecRunner_Success verifies a zero exit yields Succeeded with stdout
// captured as lines.
func TestExecRunner_Success(t *testing.T) {
	dir := setupTestRepo(t)
	r := NewExecRunner("", dir)

	res := r.Run(context.Background(), "branch", "--show-current")

	assert.True(t, res.Succeeded)
	assert.Equal(t, []string{"main"}, res.OutputLines)
}

// TestExecRunner_NonZeroExit verifies stderr is captured as ErrorText
// and stdout stays empty when git fails.
func TestExecRunner_NonZeroExit(t *testing.T) {
	requireGit(t)
	r := NewExecRunner("git", t.TempDir())

	res := r.Run(context.Background(), "rev-parse", "--is-inside-work-tree")

	assert.False(t, res.Succeeded)
	assert.Empty(t, res.OutputLines)
	assert.Contains(t, res.ErrorText, "not a git repository")
}

// TestExecRunner_DropsBlankLines verifies blank lines in git output are
// not recorded.
func TestExecRunner_DropsBlankLines(t *testing.T) {
	dir := setupTestRepo(t)
	runTestGit(t, dir, "commit", "--allow-empty", "-m", "second commit")
	r := NewExecRunner("", dir)

	// %n adds an empty line after every subject.
	res := r.Run(context.Background(), "log", "--format=%s%n")

	require.True(t, res.Succeeded, res.ErrorText)
	assert.Equal(t, []string{"second commit", "initial commit"}, res.OutputLines)
}

// TestExecRunner_SpawnFailure verifies a missing binary is reported as a
// failed result instead of a crash.
func TestExecRunner_SpawnFailure(t *testing.T) {
	r := NewExecRunner(filepath.Join(t.TempDir(), "no-such-git"), "")

	res := r.Run(context.Background(), "status")

	assert.False(t, res.Succeeded)
	assert.Empty(t, res.OutputLines)
	assert.Contains(t, res.ErrorText, "failed to start")
}

// TestExecRunner_DebugEcho verifies every captured line, from both
// streams, reaches Echo in debug mode.
func TestExecRunner_DebugEcho(t *testing.T) {
	dir := setupTestRepo(t)
	var echo bytes.Buffer
	r := &ExecRunner{Dir: dir, Debug: true, Echo: &echo}

	ok := r.Run(context.Background(), "branch", "--show-current")
	require.True(t, ok.Succeeded)

	fail := r.Run(context.Background(), "checkout", "does-not-exist")
	require.False(t, fail.Succeeded)

	out := echo.String()
	assert.Contains(t, out, "main\n")
	assert.Contains(t, out, "does-not-exist")
}

// TestExecRunner_NoEchoWithoutDebug verifies nothing is echoed when
// debug mode is off.
func TestExecRunner_NoEchoWithoutDebug(t *testing.T) {
	dir := setupTestRepo(t)
	var echo bytes.Buffer
	r := &ExecRunner{Dir: dir, Echo: &echo}

	res := r.Run(context.Background(), "branch", "--show-current")

	require.True(t, res.Succeeded)
	assert.Empty(t, echo.String())
}

// writeScript writes an executable shell script standing in for git.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(t.TempDir(), "fake-git")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// TestExecRunner_EchoOrder verifies stdout and stderr lines reach Echo in
// the order they were written, while each stream is still captured on
// its own.
func TestExecRunner_EchoOrder(t *testing.T) {
	script := writeScript(t, `echo out1
sleep 0.2
echo err1 >&2
sleep 0.2
echo out2
`)
	var echo bytes.Buffer
	r := &ExecRunner{Binary: script, Debug: true, Echo: &echo}

	res := r.Run(context.Background())

	require.True(t, res.Succeeded, res.ErrorText)
	assert.Equal(t, "out1\nerr1\nout2\n", echo.String())
	assert.Equal(t, []string{"out1", "out2"}, res.OutputLines)
	assert.Equal(t, "err1", res.ErrorText)
}

// releaseWriter records echoed lines and creates release once it sees
// the line "first".
type releaseWriter struct {
	buf     bytes.Buffer
	release string
}

func (w *releaseWriter) Write(p []byte) (int, error) {
	if strings.TrimSpace(string(p)) == "first" {
		if err := os.WriteFile(w.release, nil, 0644); err != nil {
			return 0, err
		}
	}
	return w.buf.Write(p)
}

// TestExecRunner_EchoStreamsBeforeExit verifies a line is echoed while
// the process is still running: the script only exits after the echo of
// its first line has been observed.
func TestExecRunner_EchoStreamsBeforeExit(t *testing.T) {
	script := writeScript(t, `echo first
while [ ! -f "$1" ]; do sleep 0.05; done
echo last
`)
	echo := &releaseWriter{release: filepath.Join(t.TempDir(), "release")}
	r := &ExecRunner{Binary: script, Debug: true, Echo: echo}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := r.Run(ctx, echo.release)

	require.True(t, res.Succeeded, "script never saw its first line echoed: %s", res.ErrorText)
	assert.Equal(t, []string{"first", "last"}, res.OutputLines)
	assert.Equal(t, "first\nlast\n", echo.buf.String())
}

// TestExecRunner_ForcesCLocale verifies git runs with untranslated
// messages whatever the caller's locale.
func TestExecRunner_ForcesCLocale(t *testing.T) {
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	script := writeScript(t, `echo "$LC_ALL"
`)

	res := NewExecRunner(script, "").Run(context.Background())

	require.True(t, res.Succeeded, res.ErrorText)
	assert.Equal(t, []string{"C"}, res.OutputLines)
}
