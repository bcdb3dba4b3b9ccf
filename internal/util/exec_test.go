package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecRunner_Run(t *testing.T) {
	// GIVEN
	runner := NewExecRunner()

	// WHEN
	out, err := runner.Run(context.Background(), 2*time.Second, "echo", "-n", "hello")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestExecRunner_Run_NonZeroExit(t *testing.T) {
	// GIVEN
	runner := NewExecRunner()

	// WHEN
	_, err := runner.Run(context.Background(), 2*time.Second, "false")

	// THEN
	assert.Error(t, err)
}

func TestExecRunner_Run_Timeout(t *testing.T) {
	// GIVEN
	runner := NewExecRunner()

	// WHEN
	_, err := runner.Run(context.Background(), 50*time.Millisecond, "sleep", "2")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecRunner_Start_MissingBinary(t *testing.T) {
	// GIVEN
	runner := NewExecRunner()

	// WHEN
	err := runner.Start("/nonexistent/rogauracore", "single_static", "ff0000")

	// THEN
	assert.Error(t, err)
}
