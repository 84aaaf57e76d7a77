package cfb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/richardlehane/mscfb"

	"github.com/danieljhkim/slnstart/internal/clock"
)

// readAll reads a serialised container back with mscfb, independently of
// Open, and returns stream contents keyed by slash-joined path.
func readAll(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("mscfb.New failed: %v", err)
	}

	streams := make(map[string][]byte)
	for {
		file, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if file.FileInfo().IsDir() {
			continue
		}
		path := file.Path
		if len(path) > 0 && path[0] == rootEntryName {
			path = path[1:]
		}
		buf := make([]byte, file.Size)
		if _, err := io.ReadFull(file, buf); err != nil {
			t.Fatalf("failed to read %s: %v", file.Name, err)
		}
		streams[strings.Join(append(append([]string{}, path...), file.Name), "/")] = buf
	}
	return streams
}

func pattern(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i%251)
	}
	return out
}

func TestBytes_Empty(t *testing.T) {
	data, err := New(nil).Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.HasPrefix(data, signature) {
		t.Fatalf("missing compound file signature")
	}
	if len(data)%sectorSize != 0 {
		t.Errorf("file size %d is not sector aligned", len(data))
	}
	if streams := readAll(t, data); len(streams) != 0 {
		t.Errorf("expected no streams, got %v", streams)
	}
}

func TestBytes_RoundTripThroughMscfb(t *testing.T) {
	c := New(nil)
	want := map[string][]byte{
		"SolutionConfiguration": pattern(130, 'a'),
		"DebuggerWatches":       pattern(4095, 3),
		"OutliningState1":       pattern(4096, 7),
		"XmlPackageOptions":     pattern(9000, 11),
	}
	for name, data := range want {
		if err := c.AddStream(name, data); err != nil {
			t.Fatalf("AddStream(%s) failed: %v", name, err)
		}
	}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	got := readAll(t, data)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestBytes_ManySiblings(t *testing.T) {
	c := New(nil)
	want := make(map[string][]byte)
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("Stream%02d", i)
		want[name] = pattern(50+i*13, byte(i))
		if err := c.AddStream(name, want[name]); err != nil {
			t.Fatalf("AddStream failed: %v", err)
		}
	}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if diff := cmp.Diff(want, readAll(t, data)); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestBytes_NestedStorage(t *testing.T) {
	c := New(nil)
	child, err := c.AddStorage("ProjInfoEx")
	if err != nil {
		t.Fatalf("AddStorage failed: %v", err)
	}
	if err := child.AddStream("Settings", []byte("nested")); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	if err := c.AddStream("Top", []byte("top")); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	want := map[string][]byte{
		"ProjInfoEx/Settings": []byte("nested"),
		"Top":                 []byte("top"),
	}
	if diff := cmp.Diff(want, readAll(t, data)); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}

	reopened, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Top", "ProjInfoEx/", "ProjInfoEx/Settings"}, reopened.Entries()); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}

	nested, ok := reopened.Storage("ProjInfoEx")
	if !ok {
		t.Fatal("Storage(ProjInfoEx) not found after reopen")
	}
	if got, ok := nested.Stream("Settings"); !ok || string(got) != "nested" {
		t.Errorf("nested stream = %q, %v", got, ok)
	}
	if _, ok := reopened.Storage("Top"); ok {
		t.Error("Storage() should not return a stream")
	}
	if reopened.Root().Name() != "Root Entry" {
		t.Errorf("Root().Name() = %q", reopened.Root().Name())
	}
}

func TestOpen_ReplaceStream(t *testing.T) {
	template := New(nil)
	if err := template.AddStream("SolutionConfiguration", []byte("old")); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	if err := template.AddStream("DebuggerBreakpoints", pattern(5000, 1)); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	templateBytes, err := template.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	c, err := OpenBytes(templateBytes, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	if err := c.Delete("solutionconfiguration"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.AddStream("SolutionConfiguration", []byte("new")); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	got := readAll(t, data)
	if string(got["SolutionConfiguration"]) != "new" {
		t.Errorf("SolutionConfiguration = %q, want %q", got["SolutionConfiguration"], "new")
	}
	if !bytes.Equal(got["DebuggerBreakpoints"], pattern(5000, 1)) {
		t.Error("untouched stream was not preserved")
	}
}

func TestStorage_Errors(t *testing.T) {
	c := New(nil)
	if err := c.AddStream("Config", nil); err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate ignoring case", err: c.AddStream("CONFIG", nil), want: ErrExists},
		{name: "delete missing", err: c.Delete("Missing"), want: ErrNotExist},
		{name: "empty name", err: c.AddStream("", nil), want: ErrInvalidName},
		{name: "name too long", err: c.AddStream(strings.Repeat("x", 32), nil), want: ErrInvalidName},
		{name: "reserved character", err: c.AddStream("a/b", nil), want: ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("got %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestBytes_StampsRootModificationTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := New(clock.NewFakeClock(now))

	first, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	second, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("serialising twice with a fixed clock should be deterministic")
	}

	dirStart := binary.LittleEndian.Uint32(first[0x30:])
	root := first[sectorSize*(1+int(dirStart)):]
	if got := binary.LittleEndian.Uint64(root[0x6C:]); got != filetime(now) {
		t.Errorf("root modification time = %d, want %d", got, filetime(now))
	}
}

func TestTreeColoring(t *testing.T) {
	for n := 1; n <= 33; n++ {
		l := &layout{}
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = uint32(i)
			l.entries = append(l.entries, &dirEntry{})
		}
		root := l.buildTree(ids, 0, treeDepth(n))
		if l.entries[root].color != colorBlack {
			t.Fatalf("n=%d: root must be black", n)
		}
		if _, ok := blackHeight(l, root, colorBlack); !ok {
			t.Errorf("n=%d: sibling tree is not a valid red-black tree", n)
		}
	}
}

// blackHeight returns the black height of the subtree at id and whether all
// paths agree and no red node has a red child.
func blackHeight(l *layout, id uint32, parentColor byte) (int, bool) {
	if id == noStream {
		return 1, true
	}
	e := l.entries[id]
	if e.color == colorRed && parentColor == colorRed {
		return 0, false
	}
	left, okL := blackHeight(l, e.left, e.color)
	right, okR := blackHeight(l, e.right, e.color)
	if !okL || !okR || left != right {
		return 0, false
	}
	if e.color == colorBlack {
		left++
	}
	return left, true
}
