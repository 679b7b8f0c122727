package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// step is one state of a workflow.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// runSteps executes steps in order and stops at the first failure,
// returning that step's error unchanged.
func runSteps(ctx context.Context, r Reporter, steps []step) error {
	for _, s := range steps {
		r.verbosef("step: %s", s.name)
		if err := s.run(ctx); err != nil {
			r.verbosef("step %s failed: %v", s.name, err)
			return err
		}
	}
	return nil
}

// Reporter receives the narration of a workflow.
//
// Out gets one line per completed action ("Deleted branch: old").
// Verbose, when non-nil, additionally gets step-level trace lines.
type Reporter struct {
	Out     io.Writer
	Verbose io.Writer
}

// Logf writes a narration line to Out.
func (r Reporter) Logf(format string, args ...interface{}) {
	if r.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(r.Out, format+"\n", args...)
}

func (r Reporter) verbosef(format string, args ...interface{}) {
	if r.Verbose == nil {
		return
	}
	_, _ = fmt.Fprintf(r.Verbose, "[verbose] "+format+"\n", args...)
}

// Prompt is what a workflow asks the user to confirm.
type Prompt struct {
	// Message describes what the workflow is about to do.
	Message string

	// Warning is an optional extra line about irreversible effects.
	Warning string
}

// Confirmer asks the user whether a workflow may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// cancelledMessage is the failure reason when the user declines.
const cancelledMessage = "User cancelled operation."

// confirmStep returns the Confirm state: skipped when quiet, otherwise a
// decline (or a nil Confirmer) ends the workflow with ExitUserCancelled.
func confirmStep(quiet bool, c Confirmer, p Prompt) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if quiet {
			return nil
		}
		if c == nil {
			return model.NewCLIError(model.ExitUserCancelled, cancelledMessage)
		}
		ok, err := c.Confirm(ctx, p)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
		}
		if !ok {
			return model.NewCLIError(model.ExitUserCancelled, cancelledMessage)
		}
		return nil
	}
}
