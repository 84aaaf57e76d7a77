package engine

import (
	"fmt"
	"path/filepath"
)

// resolveInputPath resolves a user-provided path (absolute, relative, or
// containing "..") against cwd and returns it cleaned.
func resolveInputPath(userPath, cwd, what string) (string, error) {
	if userPath == "" {
		return "", fmt.Errorf("%w: %s path is required", ErrValidation, what)
	}

	var absPath string
	if filepath.IsAbs(userPath) {
		absPath = userPath
	} else {
		if cwd == "" {
			var err error
			if absPath, err = filepath.Abs(userPath); err != nil {
				return "", fmt.Errorf("failed to resolve %s path %q: %w", what, userPath, err)
			}
		} else {
			absPath = filepath.Join(cwd, userPath)
		}
	}
	return filepath.Clean(absPath), nil
}
