package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danieljhkim/slnstart/internal/classify"
	"github.com/danieljhkim/slnstart/internal/clock"
	"github.com/danieljhkim/slnstart/internal/engine"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/hash"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() *engine.Engine {
	fs := fsops.NewRealFS()
	return engine.New(fs, classify.New(fs), hash.NewSHA256Hasher(fs), &clock.RealClock{})
}

// workingDir returns the directory relative arguments are resolved against.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// FormatError formats an error for display on stderr.
func FormatError(err error) string {
	return formatError(err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
