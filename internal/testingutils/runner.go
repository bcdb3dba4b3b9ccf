package testingutils

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type Invocation struct {
	Executable string
	Args       []string
	Detached   bool
}

func (i Invocation) String() string {
	return strings.TrimSpace(i.Executable + " " + strings.Join(i.Args, " "))
}

type RunResult struct {
	Output string
	Err    error
	// Delay simulates a slow tool, it is cut short by the timeout passed to Run
	Delay time.Duration
}

// RecordingRunner records tool invocations instead of executing them.
// Results are looked up by the full command line, unknown commands succeed with empty output.
type RecordingRunner struct {
	mu          sync.Mutex
	invocations []Invocation
	results     map[string]RunResult
	startErr    error
	onRun       func(invocation Invocation)
}

func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{results: map[string]RunResult{}}
}

// SetResult scripts the result of a blocking invocation, e.g. SetResult("/usr/bin/asusctl -c 80", RunResult{})
func (r *RecordingRunner) SetResult(commandLine string, result RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[commandLine] = result
}

func (r *RecordingRunner) SetStartError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startErr = err
}

// OnRun registers a hook that is called for every blocking invocation before its result is returned
func (r *RecordingRunner) OnRun(hook func(invocation Invocation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRun = hook
}

func (r *RecordingRunner) Run(ctx context.Context, timeout time.Duration, executable string, args ...string) (string, error) {
	invocation := Invocation{Executable: executable, Args: args}

	r.mu.Lock()
	r.invocations = append(r.invocations, invocation)
	result := r.results[invocation.String()]
	hook := r.onRun
	r.mu.Unlock()

	if hook != nil {
		hook(invocation)
	}

	if result.Delay > 0 {
		select {
		case <-time.After(result.Delay):
		case <-time.After(timeout):
			return "", errors.New(executable + " timed out")
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return result.Output, result.Err
}

func (r *RecordingRunner) Start(executable string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invocations = append(r.invocations, Invocation{Executable: executable, Args: args, Detached: true})
	return r.startErr
}

func (r *RecordingRunner) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Invocation, len(r.invocations))
	copy(result, r.invocations)
	return result
}

// CommandLines returns all invocations formatted as "executable arg1 arg2"
func (r *RecordingRunner) CommandLines() []string {
	var result []string
	for _, invocation := range r.Invocations() {
		result = append(result, invocation.String())
	}
	return result
}

// DetachedCommandLines returns only the fire-and-forget invocations
func (r *RecordingRunner) DetachedCommandLines() []string {
	var result []string
	for _, invocation := range r.Invocations() {
		if invocation.Detached {
			result = append(result, invocation.String())
		}
	}
	return result
}

func (r *RecordingRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invocations = nil
}
