// Package git drives the git command-line tool for the gitrepo workflows.
//
// All git operations are performed by spawning the git binary, never by
// reading repository files directly. This keeps behavior identical to
// what the user sees in their terminal and makes the workflows testable:
// everything goes through the Runner port, which tests replace with a
// fake that records argument vectors and returns canned results.
//
// Arguments are always handed to the process as a discrete argv. Branch
// names, commit messages and config values are never interpolated into
// a shell command line.
//
// The package has three layers:
//   - Runner / ExecRunner: run one git invocation, streaming stdout and
//     stderr line by line into a model.CommandResult
//   - Client: one method per git verb the workflows need, converting
//     failed results into model.CLIError values with ExitGitError
//   - branch queries on Client: local, remote and combined branch
//     listings, the current branch and its upstream
package git
