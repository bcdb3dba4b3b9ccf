package util

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const AcpiCallPath = "/proc/acpi/call"

var ErrAcpiUnavailable = errors.New("acpi_call not available")

// AcpiCaller issues a text command to the acpi_call kernel module and returns its text response
type AcpiCaller interface {
	Available() bool
	Call(command string) string
}

// AcpiCall talks to the acpi_call pseudo-file. The module keeps a single response
// buffer, so a write and the following read must not interleave with another call.
type AcpiCall struct {
	Fs   afero.Fs
	Path string

	mu sync.Mutex
}

func NewAcpiCall(fs afero.Fs, path string) *AcpiCall {
	if len(path) <= 0 {
		path = AcpiCallPath
	}
	return &AcpiCall{Fs: fs, Path: path}
}

func (a *AcpiCall) Available() bool {
	return FileExists(a.Fs, a.Path)
}

// Call never fails, failures are reported as an "Error: ..." response like the module itself does
func (a *AcpiCall) Call(command string) string {
	if !a.Available() {
		return "Error: " + ErrAcpiUnavailable.Error()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := afero.WriteFile(a.Fs, a.Path, []byte(command), 0); err != nil {
		return fmt.Sprintf("Error: cannot write acpi_call: %v", err)
	}
	data, err := afero.ReadFile(a.Fs, a.Path)
	if err != nil {
		return fmt.Sprintf("Error: cannot read acpi_call: %v", err)
	}
	return strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
}

// AcpiResponseOk reports whether an acpi_call response indicates that the method exists and ran
func AcpiResponseOk(response string) bool {
	return !strings.Contains(response, "Error") && !strings.Contains(response, "not found")
}
