package hwmon

import (
	"fmt"
	"testing"

	"github.com/md14454/gosensors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestComputeIdentifierIsa(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "ucsi_source_psy_USBC000:002",
		Addr:   0x0f1,
		Bus: gosensors.Bus{
			Type: BusTypeIsa,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon7",
	}
	expected := "ucsi_source_psy_USBC000:002-isa-10f1"

	// WHEN
	result := computeIdentifier(afero.NewMemMapFs(), c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierPci(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "nvme",
		Addr:   0x5,
		Bus: gosensors.Bus{
			Type: BusTypePci,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon4",
	}
	expected := "nvme-pci-1005"

	// WHEN
	result := computeIdentifier(afero.NewMemMapFs(), c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierAcpi(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "acpitz",
		Bus: gosensors.Bus{
			Type: BusTypeAcpi,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon1",
	}
	expected := fmt.Sprintf("%s-acpi-%d", c.Prefix, c.Bus.Nr)

	// WHEN
	result := computeIdentifier(afero.NewMemMapFs(), c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierFromNameFile(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/sys/class/hwmon/hwmon6/name", []byte("asus\n"), 0644)
	c := gosensors.Chip{Path: "/sys/class/hwmon/hwmon6"}

	// WHEN
	result := computeIdentifier(fs, c)

	// THEN
	assert.Equal(t, "asus", result)
}

func TestFindPlatform(t *testing.T) {
	// GIVEN
	devicePath := "/sys/devices/pci0000:00/0000:00:0e.0/pci10000:e0/10000:e0:06.0/10000:e1:00.0/nvme/nvme0/hwmon3"

	// WHEN
	platform := findPlatform(devicePath)

	// THEN
	assert.Equal(t, "", platform)
}

func TestFindPlatformAsusWmi(t *testing.T) {
	// GIVEN
	devicePath := "/sys/devices/platform/asus-nb-wmi/hwmon/hwmon6"

	// WHEN
	platform := findPlatform(devicePath)

	// THEN
	assert.Equal(t, "asus-nb-wmi", platform)
}

func TestGetLabel(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/sys/class/hwmon/hwmon6/fan1_label", []byte("cpu_fan\n"), 0644)

	// WHEN
	withLabel := getLabel(fs, "/sys/class/hwmon/hwmon6", "fan1_input")
	withoutLabel := getLabel(fs, "/sys/class/hwmon/hwmon6", "fan2_input")

	// THEN
	assert.Equal(t, "cpu_fan", withLabel)
	assert.Equal(t, "hwmon6", withoutLabel)
}

func TestNewChip(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	path := "/sys/devices/platform/asus-nb-wmi/hwmon/hwmon6"
	_ = afero.WriteFile(fs, path+"/pwm2", []byte("0"), 0644)
	_ = afero.WriteFile(fs, path+"/pwm1", []byte("0"), 0644)
	_ = afero.WriteFile(fs, path+"/pwm1_enable", []byte("2"), 0644)
	_ = afero.WriteFile(fs, path+"/device/modalias", []byte("platform:asus-nb-wmi\n"), 0644)

	// WHEN
	chip := newChip(fs, "asus-isa-0000", path, []Input{{Label: "cpu_fan", Index: 1}}, nil)

	// THEN
	assert.Equal(t, "asus-nb-wmi", chip.Platform)
	assert.Equal(t, "platform:asus-nb-wmi", chip.Modalias)
	assert.Equal(t, []string{path + "/pwm1", path + "/pwm2"}, chip.Pwms)
	assert.True(t, chip.IsAsusWmi())
}

func TestNewChipWithoutPlatform(t *testing.T) {
	// WHEN
	chip := newChip(afero.NewMemMapFs(), "nvme-pci-0100", "/sys/class/hwmon/hwmon3", nil, nil)

	// THEN
	assert.Equal(t, "nvme-pci-0100", chip.Platform)
	assert.Empty(t, chip.Pwms)
	assert.False(t, chip.IsAsusWmi())
}
