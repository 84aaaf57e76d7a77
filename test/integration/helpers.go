package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/slnstart/internal/classify"
	"github.com/danieljhkim/slnstart/internal/clock"
	"github.com/danieljhkim/slnstart/internal/engine"
	"github.com/danieljhkim/slnstart/internal/hash"
)

// testFS is a filesystem implementation that keeps files in memory for testing
type testFS struct {
	files   map[string][]byte
	dirs    map[string]bool
	removed []string
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{string(filepath.Separator): true},
	}
}

// put stores a file and registers its parent directories.
func (fs *testFS) put(path string, content string) {
	fs.files[path] = []byte(content)
	_ = fs.MkdirAll(filepath.Dir(path), 0755)
}

func (fs *testFS) Stat(path string) (os.FileInfo, error) {
	if content, ok := fs.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(content)), mode: 0644}, nil
	}
	if fs.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), mode: os.ModeDir | 0755, isDir: true}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for p := path; ; p = filepath.Dir(p) {
		fs.dirs[p] = true
		if filepath.Dir(p) == p {
			return nil
		}
	}
}

func (fs *testFS) Remove(path string) error {
	if _, ok := fs.files[path]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(fs.files, path)
	fs.removed = append(fs.removed, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if !fs.dirs[filepath.Dir(path)] {
		return &os.PathError{Op: "write", Path: path, Err: os.ErrNotExist}
	}
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// setupTestEngine creates an engine backed entirely by an in-memory filesystem.
func setupTestEngine(t *testing.T) (*engine.Engine, *testFS, *hash.FakeHasher) {
	t.Helper()
	fs := newTestFS()
	hasher := hash.NewFakeHasher()
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	return engine.New(fs, classify.New(fs), hasher, clk), fs, hasher
}
