package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "exists.txt")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		exists, err := fs.Exists(testFile)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if !exists {
			t.Error("expected file to exist")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		exists, err := fs.Exists(filepath.Join(tmpDir, "missing.txt"))
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("expected file to not exist")
		}
	})
}

func TestIsFile(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	file := filepath.Join(tmpDir, "a.csproj")
	if err := os.WriteFile(file, []byte("<Project />"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: tmpDir, want: false},
		{name: "missing", path: filepath.Join(tmpDir, "nope"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsFile(fs, tt.path)
			if err != nil {
				t.Fatalf("IsFile(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("IsFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	target := filepath.Join(tmpDir, ".vs", "Sample", "v17", ".suo")
	if err := fs.AtomicWrite(target, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if err := fs.AtomicWrite(target, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWrite (overwrite) failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}
