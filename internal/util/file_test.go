package util

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("test needs to run as root")
	}
}

func TestFileHasPermissionsUserIsRoot(t *testing.T) {
	requireRoot(t)

	// GIVEN
	filePath := t.TempDir() + "/testfile"
	filePerm := os.FileMode(0o700)
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerm)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, os.Chown(filePath, 0, 1000))
	require.NoError(t, os.Chmod(filePath, filePerm))

	// WHEN
	result, err := CheckFilePermissionsForExecution(afero.NewOsFs(), filePath)

	// THEN
	assert.True(t, result)
	assert.NoError(t, err)
}

func TestFileHasPermissionsOtherHasWritePermission(t *testing.T) {
	requireRoot(t)

	// GIVEN
	filePath := t.TempDir() + "/testfile"
	filePerm := os.FileMode(0o702)
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerm)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, os.Chown(filePath, 0, 0))
	require.NoError(t, os.Chmod(filePath, filePerm))

	// WHEN
	result, err := CheckFilePermissionsForExecution(afero.NewOsFs(), filePath)

	// THEN
	assert.False(t, result)
	assert.EqualError(t, err, "others have write permission")
}

func TestCheckFilePermissionsForExecution_WorldWritable(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/bin/asusctl", []byte{}, 0o777))

	// WHEN
	result, err := CheckFilePermissionsForExecution(fs, "/usr/bin/asusctl")

	// THEN
	assert.False(t, result)
	assert.EqualError(t, err, "others have write permission")
}

func TestCheckFilePermissionsForExecution_Missing(t *testing.T) {
	result, err := CheckFilePermissionsForExecution(afero.NewMemMapFs(), "/usr/bin/asusctl")

	assert.False(t, result)
	assert.Error(t, err)
}

func TestFirstSafeExecutable_SkipsWritableCandidate(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/local/bin/asusctl", []byte{}, 0o777))
	require.NoError(t, afero.WriteFile(fs, "/usr/bin/asusctl", []byte{}, 0o755))

	// WHEN
	path, ok := FirstSafeExecutable(fs, "/opt/asusctl", "/usr/local/bin/asusctl", "/usr/bin/asusctl")

	// THEN
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin/asusctl", path)
}

func TestFirstSafeExecutable_NoneSafe(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/bin/ec_probe", []byte{}, 0o666))

	_, ok := FirstSafeExecutable(fs, "/usr/bin/ec_probe")

	assert.False(t, ok)
}

func TestReadIntFromFile(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sys/class/hwmon/hwmon3/fan1_input", []byte("2400\n"), 0644))

	// WHEN
	value, err := ReadIntFromFile(fs, "/sys/class/hwmon/hwmon3/fan1_input")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 2400, value)
}

func TestReadIntFromFile_Empty(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/empty", []byte("  \n"), 0644))

	// WHEN
	value, err := ReadIntFromFile(fs, "/empty")

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, value)
}

func TestReadIntFromFile_Missing(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()

	// WHEN
	_, err := ReadIntFromFile(fs, "/missing")

	// THEN
	assert.Error(t, err)
}

func TestWriteStringToFile_AppendsNewline(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()

	// WHEN
	err := WriteStringToFile(fs, "1 0 255 0 0 0", "/kbd_rgb_mode")

	// THEN
	require.NoError(t, err)
	data, _ := afero.ReadFile(fs, "/kbd_rgb_mode")
	assert.Equal(t, "1 0 255 0 0 0\n", string(data))
}

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	path := t.TempDir() + "/asusd.ron"
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	// WHEN
	err := WriteFileAtomic(afero.NewOsFs(), path, []byte("new"))

	// THEN
	require.NoError(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomic_MemMapFs(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/asusd/asusd.ron", []byte("old"), 0644))

	// WHEN
	err := WriteFileAtomic(fs, "/etc/asusd/asusd.ron", []byte("new"))

	// THEN
	require.NoError(t, err)
	data, _ := afero.ReadFile(fs, "/etc/asusd/asusd.ron")
	assert.Equal(t, "new", string(data))
	exists, _ := afero.Exists(fs, "/etc/asusd/asusd.ron.tmp")
	assert.False(t, exists)
}

func TestGlobDirs(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sys/devices/platform/asus-nb-wmi", 0755))
	require.NoError(t, fs.MkdirAll("/sys/devices/platform/asus-wireless", 0755))
	require.NoError(t, fs.MkdirAll("/sys/devices/platform/coretemp.0", 0755))
	require.NoError(t, afero.WriteFile(fs, "/sys/devices/platform/asus-file", []byte(""), 0644))

	// WHEN
	result := GlobDirs(fs, "/sys/devices/platform/asus*")

	// THEN
	assert.Equal(t, []string{"/sys/devices/platform/asus-nb-wmi", "/sys/devices/platform/asus-wireless"}, result)
}

func TestFirstExisting(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/local/bin/asusctl", []byte(""), 0755))

	// WHEN
	path, ok := FirstExisting(fs, "/usr/bin/asusctl", "/usr/local/bin/asusctl")

	// THEN
	assert.True(t, ok)
	assert.Equal(t, "/usr/local/bin/asusctl", path)
}

func TestPathGuard(t *testing.T) {
	guard := PathGuard{AllowedPrefixes: []string{"/sys/devices/platform/asus", "/sys/class/hwmon"}}

	assert.NoError(t, guard.Check("/sys/devices/platform/asus-nb-wmi/throttle_thermal_policy"))
	assert.NoError(t, guard.Check("/sys/class/hwmon/hwmon4/pwm1"))

	err := guard.Check("/etc/passwd")
	assert.True(t, errors.Is(err, ErrPathNotAllowed))

	err = guard.Check("/sys/class/hwmon/../../../etc/shadow")
	assert.True(t, errors.Is(err, ErrPathNotAllowed))
}
