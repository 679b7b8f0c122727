package git

import (
	"context"
	"strings"
	"sync"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// MockRunner is a Runner for tests. It records every invocation and
// answers from a table of canned results keyed by the space-joined
// argument list (e.g. "branch --show-current"). Commands without an entry
// succeed with no output.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]model.CommandResult
	calls     []string
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string]model.CommandResult)}
}

// On makes command succeed with the given stdout lines.
func (m *MockRunner) On(command string, lines ...string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[command] = model.CommandResult{Succeeded: true, OutputLines: lines}
	return m
}

// Fail makes command exit non-zero with stderr as its error text.
func (m *MockRunner) Fail(command, stderr string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[command] = model.CommandResult{Succeeded: false, ErrorText: stderr}
	return m
}

// Run records the invocation and returns the canned result.
func (m *MockRunner) Run(_ context.Context, args ...string) model.CommandResult {
	command := strings.Join(args, " ")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, command)
	if res, ok := m.responses[command]; ok {
		return res
	}
	return model.CommandResult{Succeeded: true}
}

// Calls returns the recorded commands in invocation order.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Called reports whether command was invoked at least once.
func (m *MockRunner) Called(command string) bool {
	for _, c := range m.Calls() {
		if c == command {
			return true
		}
	}
	return false
}
