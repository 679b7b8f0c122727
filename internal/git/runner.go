package git

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// DefaultBinary is the executable used when ExecRunner.Binary is empty.
const DefaultBinary = "git"

// messageLocale pins git's diagnostics to untranslated English; callers
// such as CurrentUpstream match on stderr text.
const messageLocale = "LC_ALL=C"

// maxLineSize bounds a single line of git output. Porcelain output is
// line-oriented and far below this, but diffs echoed in debug mode can
// contain long lines.
const maxLineSize = 1024 * 1024

// Runner executes one git invocation and returns its captured result.
//
// Implementations must block until the process has exited. A process that
// cannot be started is reported as a failed result, never as a panic.
type Runner interface {
	Run(ctx context.Context, args ...string) model.CommandResult
}

// ExecRunner is the Runner backed by os/exec.
//
// Standard output and standard error are read concurrently, line by line,
// as git writes them. When Debug is set every captured line is written to
// Echo in the order it was received.
type ExecRunner struct {
	// Binary is the git executable. Empty means DefaultBinary.
	Binary string

	// Dir is the working directory for git. Empty means the current
	// process directory.
	Dir string

	// Debug enables echoing of captured lines to Echo.
	Debug bool

	// Echo receives every stdout and stderr line when Debug is set.
	Echo io.Writer

	mu sync.Mutex
}

// NewExecRunner creates an ExecRunner for the given binary and directory.
func NewExecRunner(binary, dir string) *ExecRunner {
	return &ExecRunner{Binary: binary, Dir: dir}
}

// Run spawns git with args and waits for it to exit.
//
// Succeeded is true iff the exit status is zero. Blank lines are dropped
// from both streams. git inherits the process environment with LC_ALL
// forced to C.
func (r *ExecRunner) Run(ctx context.Context, args ...string) model.CommandResult {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	// #nosec G204 -- arguments are passed as argv, no shell is involved
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), messageLocale)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return spawnFailure(binary, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return spawnFailure(binary, err)
	}

	if err := cmd.Start(); err != nil {
		return spawnFailure(binary, err)
	}

	var (
		outLines []string
		errLines []string
	)

	// Both pipes must be drained before Wait, otherwise git can block on
	// a full pipe buffer and Wait never returns.
	var g errgroup.Group
	g.Go(func() error {
		return r.scan(stdout, func(line string) { outLines = append(outLines, line) })
	})
	g.Go(func() error {
		return r.scan(stderr, func(line string) { errLines = append(errLines, line) })
	})
	scanErr := g.Wait()
	waitErr := cmd.Wait()

	if scanErr != nil {
		errLines = append(errLines, fmt.Sprintf("reading git output: %v", scanErr))
	}

	return model.CommandResult{
		Succeeded:   waitErr == nil && scanErr == nil,
		OutputLines: outLines,
		ErrorText:   strings.Join(errLines, "\n"),
	}
}

// scan reads src line by line, handing each non-blank line to collect and,
// in debug mode, to Echo. The mutex serializes collection and echo across
// the stdout and stderr readers so Echo sees lines in arrival order.
func (r *ExecRunner) scan(src io.Reader, collect func(string)) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		r.mu.Lock()
		collect(line)
		if r.Debug && r.Echo != nil {
			_, _ = fmt.Fprintln(r.Echo, line)
		}
		r.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		// Keep draining so git is never blocked writing to a full pipe.
		_, _ = io.Copy(io.Discard, src)
		return err
	}
	return nil
}

// spawnFailure builds the result for a process that never ran.
func spawnFailure(binary string, err error) model.CommandResult {
	return model.CommandResult{
		Succeeded: false,
		ErrorText: fmt.Sprintf("failed to start %s: %v", binary, err),
	}
}
