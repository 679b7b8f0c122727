// Package model defines the domain types and value objects for the
// gitrepo CLI.
//
// This package contains pure data structures with no external dependencies.
// Nothing here is persisted: a CommandResult lives for one git invocation,
// a BranchSet for one workflow run, and an Outcome is handed back to the
// caller for display.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
