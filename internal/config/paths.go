package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/slnstart/internal/fsops"
)

const (
	// FileName is the settings file looked up next to a solution.
	FileName = "slnstart.yaml"

	// EnvConfig points at a settings file.
	EnvConfig = "SLNSTART_CONFIG"

	// EnvTemplateDir overrides the template directory.
	EnvTemplateDir = "SLNSTART_TEMPLATE_DIR"
)

// Locate returns the settings file to use, or "" when there is none.
// Lookup order:
//   - explicit (the --config flag), which must exist
//   - $SLNSTART_CONFIG, which must exist
//   - slnstart.yaml next to the solution, when present
func Locate(fs fsops.FS, explicit, solutionPath string) (string, error) {
	if explicit != "" {
		return requireFile(fs, explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return requireFile(fs, env)
	}
	if solutionPath == "" {
		return "", nil
	}

	local := filepath.Join(filepath.Dir(solutionPath), FileName)
	isFile, err := fsops.IsFile(fs, local)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", local, err)
	}
	if !isFile {
		return "", nil
	}
	return local, nil
}

func requireFile(fs fsops.FS, path string) (string, error) {
	isFile, err := fsops.IsFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !isFile {
		return "", fmt.Errorf("config file not found: %s", path)
	}
	return path, nil
}

// Load locates and reads settings for a solution. The returned path is ""
// when no file was used. $SLNSTART_TEMPLATE_DIR is applied last.
func Load(fs fsops.FS, explicit, solutionPath string) (*Config, string, error) {
	path, err := Locate(fs, explicit, solutionPath)
	if err != nil {
		return nil, "", err
	}

	cfg := &Config{}
	if path != "" {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading config %s: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		cfg.resolveRelative(filepath.Dir(path))
	}

	if dir := os.Getenv(EnvTemplateDir); dir != "" {
		cfg.TemplateDir = dir
	}
	return cfg, path, nil
}
