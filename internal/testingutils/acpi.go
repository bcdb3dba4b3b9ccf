package testingutils

import (
	"strings"
	"sync"
)

// FakeAcpi answers acpi_call commands from a table of known methods
type FakeAcpi struct {
	mu        sync.Mutex
	available bool
	methods   map[string]bool
	failing   map[string]bool
	calls     []string
}

// NewFakeAcpi creates an acpi_call module that knows the given method paths
func NewFakeAcpi(methods ...string) *FakeAcpi {
	f := &FakeAcpi{available: true, methods: map[string]bool{}, failing: map[string]bool{}}
	for _, method := range methods {
		f.methods[method] = true
	}
	return f
}

func NewUnavailableAcpi() *FakeAcpi {
	f := NewFakeAcpi()
	f.available = false
	return f
}

// FailCommand makes the exact command line answer with an error
func (f *FakeAcpi) FailCommand(command string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[command] = true
}

func (f *FakeAcpi) Available() bool {
	return f.available
}

func (f *FakeAcpi) Call(command string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)

	if !f.available {
		return "Error: acpi_call not available"
	}
	if f.failing[command] {
		return "Error: AE_AML_OPERAND_TYPE"
	}
	method := strings.Fields(command)[0]
	if !f.methods[method] {
		return "Error: " + method + " not found"
	}
	return "0x0"
}

func (f *FakeAcpi) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

func (f *FakeAcpi) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
