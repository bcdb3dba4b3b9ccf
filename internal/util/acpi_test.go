package util

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcpiCall_Unavailable(t *testing.T) {
	// GIVEN
	acpi := NewAcpiCall(afero.NewMemMapFs(), "")

	// WHEN
	response := acpi.Call(`\_SB.PCI0.LPCB.EC0.SFNV 0 0`)

	// THEN
	assert.False(t, acpi.Available())
	assert.Contains(t, response, "Error")
	assert.False(t, AcpiResponseOk(response))
}

func TestAcpiCall_WritesCommand(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, AcpiCallPath, []byte(""), 0644))
	acpi := NewAcpiCall(fs, AcpiCallPath)

	// WHEN
	response := acpi.Call(`\_SB.AMW0.SFNV 0 128`)

	// THEN
	// the in-memory file echoes the last write back, which is enough to check the command format
	assert.Equal(t, `\_SB.AMW0.SFNV 0 128`, response)
	assert.True(t, acpi.Available())
}

func TestAcpiResponseOk(t *testing.T) {
	assert.True(t, AcpiResponseOk("0x0"))
	assert.True(t, AcpiResponseOk(""))
	assert.False(t, AcpiResponseOk("Error: AE_NOT_FOUND"))
	assert.False(t, AcpiResponseOk(`\_SB.PCI0.LPCB.EC0.FANL not found`))
}
