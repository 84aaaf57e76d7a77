// Package container writes per-user option containers (.suo files) carrying a
// startup configuration block.
//
// A container is always rebuilt from its variant's template: any existing
// file is deleted first, the template is opened, its configuration stream is
// replaced, and the result is persisted with an atomic write.
package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/slnstart/internal/cfb"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/suoconfig"
	"github.com/danieljhkim/slnstart/internal/templates"
	"github.com/danieljhkim/slnstart/internal/variant"
)

// ErrWrite indicates a container could not be produced.
var ErrWrite = errors.New("failed to write startup projects")

// Writer produces containers from templates.
type Writer struct {
	fs     fsops.FS
	source templates.Source
}

// NewWriter creates a Writer.
func NewWriter(fs fsops.FS, source templates.Source) *Writer {
	return &Writer{fs: fs, source: source}
}

// Write replaces the container at target.Path with one built from the
// target's template and holding block as its configuration stream. ids is
// only used to describe failures.
func (w *Writer) Write(target variant.Target, block []byte, ids []string) error {
	if err := w.write(target, block); err != nil {
		return fmt.Errorf("%w %s to %s: %w", ErrWrite, strings.Join(ids, " "), target.Path, err)
	}
	return nil
}

func (w *Writer) write(target variant.Target, block []byte) error {
	if target.Dir != "" {
		if err := w.fs.MkdirAll(target.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	exists, err := w.fs.Exists(target.Path)
	if err != nil {
		return fmt.Errorf("failed to check existing file: %w", err)
	}
	if exists {
		if err := w.fs.Remove(target.Path); err != nil {
			return fmt.Errorf("failed to remove existing file: %w", err)
		}
	}

	data, err := w.Build(target, block)
	if err != nil {
		return err
	}
	if err := w.fs.AtomicWrite(target.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to persist container: %w", err)
	}
	return nil
}

// Build returns the serialised container for target without touching the
// filesystem at target.Path.
func (w *Writer) Build(target variant.Target, block []byte) ([]byte, error) {
	c, err := w.source.Open(target.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := c.Delete(suoconfig.StreamName); err != nil && !errors.Is(err, cfb.ErrNotExist) {
		return nil, fmt.Errorf("failed to drop configuration stream: %w", err)
	}
	if err := c.AddStream(suoconfig.StreamName, block); err != nil {
		return nil, fmt.Errorf("failed to add configuration stream: %w", err)
	}
	data, err := c.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise container: %w", err)
	}
	return data, nil
}
