package container

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danieljhkim/slnstart/internal/cfb"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/suoconfig"
	"github.com/danieljhkim/slnstart/internal/templates"
	"github.com/danieljhkim/slnstart/internal/variant"
)

const (
	idA = "11111111-1111-1111-1111-111111111111"
	idB = "22222222-2222-2222-2222-222222222222"
)

// failingFS wraps RealFS and fails the named operation.
type failingFS struct {
	*fsops.RealFS
	failOn string
}

var errInjected = errors.New("injected failure")

func (f *failingFS) MkdirAll(path string, perm os.FileMode) error {
	if f.failOn == "mkdir" {
		return errInjected
	}
	return f.RealFS.MkdirAll(path, perm)
}

func (f *failingFS) Remove(path string) error {
	if f.failOn == "remove" {
		return errInjected
	}
	return f.RealFS.Remove(path)
}

func (f *failingFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if f.failOn == "write" {
		return errInjected
	}
	return f.RealFS.AtomicWrite(path, data, perm)
}

type failingSource struct{}

func (failingSource) Open(id string) (*cfb.Container, error) {
	return nil, templates.ErrTemplateNotFound
}

func target(t *testing.T, name string) variant.Target {
	t.Helper()
	v, ok := variant.Lookup(name)
	if !ok {
		t.Fatalf("unknown variant %s", name)
	}
	return v.Target(filepath.Join(t.TempDir(), "Sample.sln"))
}

func readBack(t *testing.T, path string) *cfb.Container {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	c, err := cfb.OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	return c
}

func TestWrite_ModernLayout(t *testing.T) {
	tgt := target(t, "vs2022")
	block, err := suoconfig.Encode([]string{idA, idB})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	w := NewWriter(fsops.NewRealFS(), templates.NewBlankSource(nil))
	if err := w.Write(tgt, block, []string{idA, idB}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := readBack(t, tgt.Path).Stream(suoconfig.StreamName)
	if !ok {
		t.Fatal("configuration stream missing")
	}
	ids, err := suoconfig.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff([]string{idA, idB}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ReplacesExistingFile(t *testing.T) {
	tgt := target(t, "vs2013")
	if err := os.WriteFile(tgt.Path, []byte("stale user options"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	block, _ := suoconfig.Encode([]string{idB})
	w := NewWriter(fsops.NewRealFS(), templates.NewBlankSource(nil))
	if err := w.Write(tgt, block, []string{idB}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	c := readBack(t, tgt.Path)
	if diff := cmp.Diff([]string{suoconfig.StreamName}, c.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_KeepsTemplateStreams(t *testing.T) {
	dir := t.TempDir()
	tmpl := cfb.New(nil)
	if err := tmpl.AddStream("SolutionConfiguration", []byte("seed")); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	if err := tmpl.AddStream("ClassViewContents", []byte{0, 1, 2}); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	data, err := tmpl.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Solution2019.suotemplate"), data, 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	fs := fsops.NewRealFS()
	tgt := target(t, "vs2019")
	block, _ := suoconfig.Encode([]string{idA})
	w := NewWriter(fs, templates.NewDirSource(fs, nil, dir, false))
	if err := w.Write(tgt, block, []string{idA}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	c := readBack(t, tgt.Path)
	if got, _ := c.Stream("ClassViewContents"); len(got) != 3 {
		t.Errorf("template stream lost: %v", got)
	}
	if got, _ := c.Stream(suoconfig.StreamName); string(got) != string(block) {
		t.Error("configuration stream not replaced")
	}
}

func TestWrite_Failures(t *testing.T) {
	block, _ := suoconfig.Encode([]string{idA})

	tests := []struct {
		name    string
		variant string
		fs      fsops.FS
		source  templates.Source
		seed    bool
	}{
		{name: "mkdir", variant: "vs2017", fs: &failingFS{RealFS: fsops.NewRealFS(), failOn: "mkdir"}, source: templates.NewBlankSource(nil)},
		{name: "remove", variant: "vs2012", fs: &failingFS{RealFS: fsops.NewRealFS(), failOn: "remove"}, source: templates.NewBlankSource(nil), seed: true},
		{name: "template", variant: "vs2017", fs: fsops.NewRealFS(), source: failingSource{}},
		{name: "persist", variant: "vs2017", fs: &failingFS{RealFS: fsops.NewRealFS(), failOn: "write"}, source: templates.NewBlankSource(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := target(t, tt.variant)
			if tt.seed {
				if err := os.WriteFile(tgt.Path, []byte("old"), 0644); err != nil {
					t.Fatalf("failed to seed file: %v", err)
				}
			}
			err := NewWriter(tt.fs, tt.source).Write(tgt, block, []string{idA, idB})
			if !errors.Is(err, ErrWrite) {
				t.Fatalf("expected ErrWrite, got %v", err)
			}
			if !strings.Contains(err.Error(), tgt.Path) || !strings.Contains(err.Error(), idA+" "+idB) {
				t.Errorf("error should name the path and ids: %v", err)
			}
		})
	}
}
