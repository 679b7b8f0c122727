package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mmr-tortoise/gitrepo/internal/workflow"
)

// stdinConfirmer asks for confirmation on a terminal.
// It reads a single line and accepts "y" or "yes" in any case.
type stdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

// Confirm prints the prompt and waits for the answer. A closed input
// counts as "no".
func (c stdinConfirmer) Confirm(_ context.Context, p workflow.Prompt) (bool, error) {
	fmt.Fprintln(c.out, p.Message)
	if p.Warning != "" {
		_, _ = color.New(color.FgRed).Fprintln(c.out, p.Warning)
	}
	fmt.Fprint(c.out, "Are you sure you want to continue? [y/N] ")

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		fmt.Fprintln(c.out)
		return answer == "y" || answer == "yes", nil
	}

	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}
