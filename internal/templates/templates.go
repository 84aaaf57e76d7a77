// Package templates provides the seed containers a fresh .suo is built from.
//
// Each IDE version has its own template, identified by a file name such as
// "Solution2022.suotemplate". Templates are looked up in a directory; when a
// template is missing the caller may opt into a blank container instead.
package templates

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/slnstart/internal/cfb"
	"github.com/danieljhkim/slnstart/internal/clock"
	"github.com/danieljhkim/slnstart/internal/fsops"
)

// ErrTemplateNotFound indicates the requested template is not available.
var ErrTemplateNotFound = errors.New("template not found")

// Source opens a fresh container for a template id.
type Source interface {
	Open(id string) (*cfb.Container, error)
}

// DirSource loads templates from a directory.
type DirSource struct {
	// Dir holds the template files. Empty means no directory is configured.
	Dir string

	// Fallback returns a blank container when the template file is absent.
	Fallback bool

	fs    fsops.FS
	clock clock.Clock
}

// NewDirSource creates a DirSource.
func NewDirSource(fs fsops.FS, clk clock.Clock, dir string, fallback bool) *DirSource {
	return &DirSource{Dir: dir, Fallback: fallback, fs: fs, clock: clk}
}

// Open loads <Dir>/<id> as a container.
func (s *DirSource) Open(id string) (*cfb.Container, error) {
	if s.Dir == "" {
		if s.Fallback {
			return cfb.New(s.clock), nil
		}
		return nil, fmt.Errorf("%w: %s (no template directory configured)", ErrTemplateNotFound, id)
	}

	path := filepath.Join(s.Dir, id)
	isFile, err := fsops.IsFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check template %s: %w", path, err)
	}
	if !isFile {
		if s.Fallback {
			return cfb.New(s.clock), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	c, err := cfb.OpenBytes(data, s.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", path, err)
	}
	return c, nil
}

// BlankSource returns an empty container for every id.
type BlankSource struct {
	clock clock.Clock
}

// NewBlankSource creates a BlankSource.
func NewBlankSource(clk clock.Clock) *BlankSource {
	return &BlankSource{clock: clk}
}

// Open returns an empty container.
func (s *BlankSource) Open(string) (*cfb.Container, error) {
	return cfb.New(s.clock), nil
}
