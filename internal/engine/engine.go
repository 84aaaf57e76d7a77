// Package engine provides the core operations of slnstart.
//
// The engine is the orchestration layer between CLI commands and the
// lower-level packages. It resolves startup sets, classifies projects,
// writes option containers for each requested IDE version and reads them
// back.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - Resolve/List: Startup set resolution and per-project verdicts
//   - Write: Container generation per variant
//   - Inspect: Decoding of existing containers
package engine

import (
	"github.com/danieljhkim/slnstart/internal/clock"
	"github.com/danieljhkim/slnstart/internal/container"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/hash"
	"github.com/danieljhkim/slnstart/internal/startup"
	"github.com/danieljhkim/slnstart/internal/templates"
)

// Engine orchestrates all slnstart operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs         fsops.FS
	classifier startup.Classifier
	hasher     hash.Hasher
	clock      clock.Clock
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	classifier startup.Classifier,
	hasher hash.Hasher,
	clk clock.Clock,
) *Engine {
	return &Engine{
		fs:         fs,
		classifier: classifier,
		hasher:     hasher,
		clock:      clk,
	}
}

func (e *Engine) resolver() *startup.Resolver {
	return startup.NewResolver(e.fs, e.classifier)
}

func (e *Engine) writer(templateDir string, fallback bool) *container.Writer {
	return container.NewWriter(e.fs, templates.NewDirSource(e.fs, e.clock, templateDir, fallback))
}
