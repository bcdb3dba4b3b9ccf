package util

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/ui"
)

// ErrPathNotAllowed is returned when a hardware write targets a path outside the whitelist
var ErrPathNotAllowed = errors.New("path is not allowed for writing")

// CheckFilePermissionsForExecution checks whether the given filePath owner, group and permissions
// are safe to use this file for execution by tuf2go. Ownership is only known on the os filesystem.
func CheckFilePermissionsForExecution(fs afero.Fs, filePath string) (bool, error) {
	file := filePath
	if _, ok := fs.(*afero.OsFs); ok {
		resolved, err := filepath.EvalSymlinks(filePath)
		if err != nil {
			return false, err
		}
		file = resolved
	}

	info, err := fs.Stat(file)
	if err != nil {
		return false, errors.New("file not found")
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		if stat.Uid != 0 {
			return false, errors.New("owner is not root")
		}
		if stat.Gid != 0 {
			groupWrite := info.Mode() & (os.FileMode(0o020))
			if groupWrite != 0 {
				return false, errors.New("group is not root but has write permission")
			}
		}
	}

	otherWrite := info.Mode() & (os.FileMode(0o002))
	if otherWrite != 0 {
		return false, errors.New("others have write permission")
	}

	return true, nil
}

// FirstSafeExecutable returns the first existing path that passes CheckFilePermissionsForExecution
func FirstSafeExecutable(fs afero.Fs, paths ...string) (string, bool) {
	for _, path := range paths {
		if !FileExists(fs, path) {
			continue
		}
		if _, err := CheckFilePermissionsForExecution(fs, path); err != nil {
			ui.Warning("Refusing to execute %s: %v", path, err)
			continue
		}
		return path, true
	}
	return "", false
}

// FileExists reports whether path exists on fs
func FileExists(fs afero.Fs, path string) bool {
	if len(path) <= 0 {
		return false
	}
	_, err := fs.Stat(path)
	return err == nil
}

// FirstExisting returns the first of the given paths that exists on fs
func FirstExisting(fs afero.Fs, paths ...string) (string, bool) {
	for _, path := range paths {
		if FileExists(fs, path) {
			return path, true
		}
	}
	return "", false
}

func ReadStringFromFile(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func ReadIntFromFile(fs afero.Fs, path string) (value int, err error) {
	text, err := ReadStringFromFile(fs, path)
	if err != nil {
		return -1, err
	}
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	value, err = strconv.Atoi(text)
	if err != nil {
		return -1, err
	}
	return value, nil
}

// WriteStringToFile writes value followed by a newline, as sysfs attributes expect
func WriteStringToFile(fs afero.Fs, value string, path string) error {
	return afero.WriteFile(fs, path, []byte(value+"\n"), 0644)
}

// WriteIntToFile write a single integer to a file path
func WriteIntToFile(fs afero.Fs, value int, path string) error {
	return afero.WriteFile(fs, path, []byte(strconv.Itoa(value)), 0644)
}

// WriteFileAtomic replaces the file at path with data using a temp file and a rename.
// Only used for regular config files, never for sysfs attributes.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	if _, ok := fs.(*afero.OsFs); ok {
		evaluatedPath, err := filepath.EvalSymlinks(path)
		if len(evaluatedPath) > 0 && err == nil {
			path = evaluatedPath
		}
		return atomic.WriteFile(path, bytes.NewReader(data))
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0644); err != nil {
		return err
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	return nil
}

// GlobDirs returns the sorted list of directories matching the given pattern
func GlobDirs(fs afero.Fs, pattern string) []string {
	matches, err := afero.Glob(fs, pattern)
	if err != nil {
		return nil
	}
	var result []string
	for _, match := range matches {
		info, err := fs.Stat(match)
		if err == nil && info.IsDir() {
			result = append(result, match)
		}
	}
	sort.Strings(result)
	return result
}

// PathGuard restricts hardware writes to a set of path prefixes
type PathGuard struct {
	AllowedPrefixes []string
}

func (g PathGuard) Check(path string) error {
	cleaned := filepath.Clean(path)
	for _, prefix := range g.AllowedPrefixes {
		if strings.HasPrefix(cleaned, filepath.Clean(prefix)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
}
