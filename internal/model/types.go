package model

import (
	"errors"
	"fmt"
)

// CommandResult is the captured result of a single git invocation.
//
// OutputLines holds only standard output, one entry per non-blank line,
// in the order git emitted them. ErrorText holds every non-blank standard
// error line joined with newlines. Succeeded is true iff git exited with
// code 0; git writes progress and hints to stderr even on success, so a
// non-empty ErrorText does not imply failure.
type CommandResult struct {
	// Succeeded reports whether the process exited with status 0.
	Succeeded bool

	// OutputLines are the non-blank stdout lines in emission order.
	OutputLines []string

	// ErrorText is the newline-joined stderr lines, or the spawn error
	// when the process could not be started.
	ErrorText string
}

// FirstLine returns the first stdout line, or "" when there was none.
func (r CommandResult) FirstLine() string {
	if len(r.OutputLines) == 0 {
		return ""
	}
	return r.OutputLines[0]
}

// BranchSet is an ordered, de-duplicated collection of branch names.
//
// Names are kept in first-seen order so that "the first entry equal to X"
// questions (target selection) are deterministic. A BranchSet is built
// fresh for each workflow run and never cached.
type BranchSet struct {
	names []string
	seen  map[string]struct{}
}

// NewBranchSet builds a BranchSet from the given names, dropping
// duplicates and empty strings while preserving first-seen order.
func NewBranchSet(names ...string) *BranchSet {
	s := &BranchSet{seen: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add appends name unless it is empty or already present.
// It reports whether the set changed.
func (s *BranchSet) Add(name string) bool {
	if name == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Contains reports whether name is in the set.
func (s *BranchSet) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Names returns a copy of the names in first-seen order.
func (s *BranchSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of distinct names.
func (s *BranchSet) Len() int {
	return len(s.names)
}

// Outcome is the terminal result of a whole workflow as presented to the
// caller. A workflow never partially succeeds: any failed step yields
// Succeeded == false with that step's reason.
type Outcome struct {
	// Succeeded is true only when every step of the workflow completed.
	Succeeded bool `json:"succeeded"`

	// FailureReason is the first failure encountered, verbatim.
	// Empty when Succeeded is true.
	FailureReason string `json:"failureReason,omitempty"`

	// Code is the process exit code for this outcome.
	Code ExitCode `json:"code"`
}

// OutcomeFromError converts a workflow's returned error into an Outcome.
func OutcomeFromError(err error) Outcome {
	if err == nil {
		return Outcome{Succeeded: true}
	}
	return Outcome{Succeeded: false, FailureReason: err.Error(), Code: CodeOf(err)}
}

// ExitCode defines the CLI exit codes. Each failure class of the
// workflows maps to its own code so scripts can tell them apart.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitNotRepository indicates the working directory is not inside
	// a git working tree.
	ExitNotRepository ExitCode = 2

	// ExitAlreadyRepository indicates bootstrap was run inside an
	// existing repository.
	ExitAlreadyRepository ExitCode = 3

	// ExitGitError indicates a git invocation exited non-zero or could
	// not be started.
	ExitGitError ExitCode = 5

	// ExitTargetNotFound indicates neither an override nor "main"/"master"
	// could be resolved as the target branch.
	ExitTargetNotFound ExitCode = 6

	// ExitUserCancelled indicates the user declined the confirmation prompt.
	ExitUserCancelled ExitCode = 7

	// ExitBranchConflict indicates a branch the workflow needs to create
	// already exists.
	ExitBranchConflict ExitCode = 8
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// CodeOf returns the exit code carried by err. Errors that are not
// (and do not wrap) a CLIError map to ExitGeneralError; nil maps to
// ExitSuccess.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
