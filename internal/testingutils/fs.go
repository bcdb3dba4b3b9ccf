package testingutils

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

type Write struct {
	Path  string
	Value string
}

// WriteCountingFs records every write that goes through it
type WriteCountingFs struct {
	afero.Fs

	mu     sync.Mutex
	writes []Write
}

func NewWriteCountingFs() *WriteCountingFs {
	return &WriteCountingFs{Fs: afero.NewMemMapFs()}
}

func (w *WriteCountingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := w.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return f, err
	}
	return &countingFile{File: f, fs: w, path: name}, nil
}

func (w *WriteCountingFs) Create(name string) (afero.File, error) {
	return w.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (w *WriteCountingFs) record(path string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, Write{Path: path, Value: strings.TrimSpace(string(data))})
}

// Writes returns all writes since creation or the last Reset
func (w *WriteCountingFs) Writes() []Write {
	w.mu.Lock()
	defer w.mu.Unlock()
	result := make([]Write, len(w.writes))
	copy(result, w.writes)
	return result
}

// WritesTo returns the values written to path, in order
func (w *WriteCountingFs) WritesTo(path string) []string {
	var result []string
	for _, write := range w.Writes() {
		if write.Path == path {
			result = append(result, write.Value)
		}
	}
	return result
}

func (w *WriteCountingFs) WriteCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.writes)
}

func (w *WriteCountingFs) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = nil
}

// Seed creates a file without recording it as a write
func (w *WriteCountingFs) Seed(path string, value string) {
	if err := afero.WriteFile(w.Fs, path, []byte(value), 0644); err != nil {
		panic(err)
	}
}

// SeedDir creates a directory without recording anything
func (w *WriteCountingFs) SeedDir(path string) {
	if err := w.Fs.MkdirAll(path, 0755); err != nil {
		panic(err)
	}
}

// Read returns the trimmed content of path, or "" if it does not exist
func (w *WriteCountingFs) Read(path string) string {
	data, err := afero.ReadFile(w.Fs, path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

type countingFile struct {
	afero.File
	fs   *WriteCountingFs
	path string
}

func (f *countingFile) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	if err == nil {
		f.fs.record(f.path, p)
	}
	return n, err
}

func (f *countingFile) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}
