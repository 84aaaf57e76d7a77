package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/slnstart/internal/cfb"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/logging"
	"github.com/danieljhkim/slnstart/internal/suoconfig"
)

// Inspect decodes the startup set stored in an existing container.
func (e *Engine) Inspect(ctx context.Context, req *InspectRequest) (*InspectResult, error) {
	path, err := resolveInputPath(req.Path, req.CWD, "container")
	if err != nil {
		return nil, err
	}

	isFile, err := fsops.IsFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !isFile {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c, err := cfb.OpenBytes(data, e.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	block, ok := c.Stream(suoconfig.StreamName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoConfigStream, path)
	}
	ids, err := suoconfig.Decode(block)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug("inspected container", "path", path, "count", len(ids))
	return &InspectResult{
		Path:       path,
		ProjectIDs: ids,
		Entries:    c.Entries(),
	}, nil
}
