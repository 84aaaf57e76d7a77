// Package cfb holds an in-memory compound file (MS-CFB, the structured
// storage format of .suo files) that can be loaded from an existing file,
// edited stream by stream, and serialised again.
//
// Reading is delegated to github.com/richardlehane/mscfb. Serialisation
// always produces a fresh version 3 file; nothing of the source layout
// (sector order, free sectors) is kept.
package cfb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/danieljhkim/slnstart/internal/clock"
)

var (
	// ErrNotExist indicates the named entry is absent.
	ErrNotExist = errors.New("entry does not exist")

	// ErrExists indicates an entry with the same name is already present.
	ErrExists = errors.New("entry already exists")

	// ErrInvalidName indicates a name that cannot be stored in a directory entry.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrTooLarge indicates the container would need a DIFAT chain.
	ErrTooLarge = errors.New("container too large")
)

// maxNameUnits is the longest name a directory entry can hold, excluding the terminator.
const maxNameUnits = 31

const rootEntryName = "Root Entry"

// Storage is a directory of streams and nested storages.
type Storage struct {
	name     string
	children []*entry
}

type entry struct {
	name    string
	storage *Storage // nil for streams
	data    []byte
}

// Container is a compound file held in memory. Its methods act on the root
// storage.
type Container struct {
	root  *Storage
	clock clock.Clock
}

// New returns an empty container. clk stamps the root entry's modification
// time on serialisation; nil leaves it zero.
func New(clk clock.Clock) *Container {
	return &Container{root: &Storage{name: rootEntryName}, clock: clk}
}

// OpenBytes loads a compound file held in memory.
func OpenBytes(data []byte, clk clock.Clock) (*Container, error) {
	return Open(bytes.NewReader(data), clk)
}

// Open loads every storage and stream of the compound file read from r.
func Open(r io.ReaderAt, clk clock.Clock) (*Container, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open compound file: %w", err)
	}

	c := New(clk)
	for {
		file, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read compound file entry: %w", err)
		}

		path := file.Path
		if len(path) > 0 && path[0] == rootEntryName {
			path = path[1:]
		}
		name := entryName(file)
		if len(path) == 0 && name == rootEntryName {
			continue
		}

		parent, err := c.storageAt(path)
		if err != nil {
			return nil, err
		}

		if file.FileInfo().IsDir() {
			if _, err := parent.ensureStorage(name); err != nil {
				return nil, err
			}
			continue
		}

		data := make([]byte, file.Size)
		if _, err := io.ReadFull(file, data); err != nil {
			return nil, fmt.Errorf("failed to read stream %s: %w", strings.Join(append(path, name), "/"), err)
		}
		if err := parent.AddStream(name, data); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// entryName restores the leading control character mscfb strips from
// special names such as "\x05SummaryInformation".
func entryName(file *mscfb.File) string {
	if file.Initial != 0 && !unicode.IsPrint(rune(file.Initial)) {
		return string(rune(file.Initial)) + file.Name
	}
	return file.Name
}

// Root returns the root storage.
func (c *Container) Root() *Storage {
	return c.root
}

// Stream returns the content of the named top-level stream.
func (c *Container) Stream(name string) ([]byte, bool) {
	return c.root.Stream(name)
}

// Storage returns the named top-level storage.
func (c *Container) Storage(name string) (*Storage, bool) {
	return c.root.Storage(name)
}

// AddStream adds a top-level stream holding a copy of data.
func (c *Container) AddStream(name string, data []byte) error {
	return c.root.AddStream(name, data)
}

// AddStorage adds an empty top-level storage.
func (c *Container) AddStorage(name string) (*Storage, error) {
	return c.root.AddStorage(name)
}

// Delete removes the named top-level stream or storage.
func (c *Container) Delete(name string) error {
	return c.root.Delete(name)
}

// Entries lists every stream and storage in the container.
func (c *Container) Entries() []string {
	return c.root.Entries()
}

func (c *Container) storageAt(path []string) (*Storage, error) {
	s := c.root
	for _, name := range path {
		next, err := s.ensureStorage(name)
		if err != nil {
			return nil, err
		}
		s = next
	}
	return s, nil
}

// Name returns the storage name.
func (s *Storage) Name() string {
	return s.name
}

// Stream returns the content of the named stream.
func (s *Storage) Stream(name string) ([]byte, bool) {
	e := s.find(name)
	if e == nil || e.storage != nil {
		return nil, false
	}
	return e.data, true
}

// Storage returns the named child storage.
func (s *Storage) Storage(name string) (*Storage, bool) {
	e := s.find(name)
	if e == nil || e.storage == nil {
		return nil, false
	}
	return e.storage, true
}

// AddStream adds a stream holding a copy of data.
func (s *Storage) AddStream(name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if s.find(name) != nil {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	s.children = append(s.children, &entry{name: name, data: bytes.Clone(data)})
	return nil
}

// AddStorage adds an empty child storage.
func (s *Storage) AddStorage(name string) (*Storage, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if s.find(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}
	child := &Storage{name: name}
	s.children = append(s.children, &entry{name: name, storage: child})
	return child, nil
}

// Delete removes the named stream or storage (with everything below it).
func (s *Storage) Delete(name string) error {
	for i, e := range s.children {
		if sameName(e.name, name) {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotExist, name)
}

// Entries lists the paths of all streams and storages below s, storages
// suffixed with "/", in directory order.
func (s *Storage) Entries() []string {
	var out []string
	var walk func(prefix string, st *Storage)
	walk = func(prefix string, st *Storage) {
		for _, e := range sortedEntries(st.children) {
			if e.storage != nil {
				out = append(out, prefix+e.name+"/")
				walk(prefix+e.name+"/", e.storage)
				continue
			}
			out = append(out, prefix+e.name)
		}
	}
	walk("", s)
	return out
}

func (s *Storage) ensureStorage(name string) (*Storage, error) {
	if e := s.find(name); e != nil {
		if e.storage == nil {
			return nil, fmt.Errorf("%w: %s is a stream", ErrExists, name)
		}
		return e.storage, nil
	}
	return s.AddStorage(name)
}

func (s *Storage) find(name string) *entry {
	for _, e := range s.children {
		if sameName(e.name, name) {
			return e
		}
	}
	return nil
}

func validateName(name string) error {
	units := len(utf16.Encode([]rune(name)))
	if units == 0 || units > maxNameUnits {
		return fmt.Errorf("%w: %q must be 1 to %d UTF-16 code units", ErrInvalidName, name, maxNameUnits)
	}
	if strings.ContainsAny(name, `/\:!`) {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}

// sameName compares names the way directory lookups do: case-insensitively.
func sameName(a, b string) bool {
	return compareNames(a, b) == 0
}

// compareNames orders names shorter first, then by upper-cased code units.
func compareNames(a, b string) int {
	ua := utf16.Encode([]rune(strings.ToUpper(a)))
	ub := utf16.Encode([]rune(strings.ToUpper(b)))
	if len(ua) != len(ub) {
		return len(ua) - len(ub)
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return int(ua[i]) - int(ub[i])
		}
	}
	return 0
}

func sortedEntries(entries []*entry) []*entry {
	out := append([]*entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return compareNames(out[i].name, out[j].name) < 0
	})
	return out
}
