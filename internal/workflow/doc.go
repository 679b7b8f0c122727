// Package workflow implements the gitrepo repository-hygiene workflows:
// tidy-branch, nuke and bootstrap.
//
// Each workflow is a fixed, linear sequence of steps executed by runSteps.
// The first step that returns an error ends the run and that error is
// returned to the caller verbatim; there is no retry and no compensating
// rollback. Whatever the successful prefix of steps did to the repository
// stays in place. For tidy-branch the "<branch>-backup" branch is the
// user's recovery point and is never deleted.
//
// Workflows talk to git only through *git.Client, so tests drive them with
// git.MockRunner and assert on the exact sequence of git commands.
package workflow
