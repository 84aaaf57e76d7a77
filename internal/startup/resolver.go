// Package startup resolves the set of startup projects of a solution.
//
// An override file named "<solution>.StartupProjects.txt" next to the
// solution takes precedence: each non-blank line is a project path relative
// to the solution directory. Without it, every project is run through the
// classifier and the eligible ones are kept in solution order.
package startup

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/slnstart/internal/classify"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/solution"
)

// OverrideSuffix is appended to the solution base name to locate the override file.
const OverrideSuffix = ".StartupProjects.txt"

var (
	// ErrOverrideMismatch indicates an override line names no known project.
	ErrOverrideMismatch = errors.New("startup project not found in solution")

	// ErrEmptySelection indicates no startup project could be determined.
	ErrEmptySelection = errors.New("no startup projects")
)

// Source tells where a selection came from.
type Source string

const (
	// SourceOverride means the override file listed the projects.
	SourceOverride Source = "override"

	// SourceConvention means the classifier picked the projects.
	SourceConvention Source = "convention"
)

// Classifier decides startup eligibility of one project file.
type Classifier interface {
	Classify(path string) (classify.Verdict, error)
}

// ProjectVerdict pairs a project with its classification.
type ProjectVerdict struct {
	Project solution.Project
	Verdict classify.Verdict
}

// Result is the outcome of Resolve.
type Result struct {
	// Selection holds the startup projects; never empty.
	Selection *Selection

	// Source tells whether the override file or the classifier was used.
	Source Source

	// OverridePath is the override file location, whether or not it exists.
	OverridePath string

	// Verdicts has one entry per project when Source is SourceConvention.
	Verdicts []ProjectVerdict
}

// Resolver computes startup selections.
type Resolver struct {
	fs         fsops.FS
	classifier Classifier
}

// NewResolver creates a Resolver.
func NewResolver(fs fsops.FS, classifier Classifier) *Resolver {
	return &Resolver{fs: fs, classifier: classifier}
}

// OverridePath returns the override file location for a solution.
func OverridePath(solutionPath string) string {
	base := filepath.Base(solutionPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(solutionPath), name+OverrideSuffix)
}

// Resolve determines the startup projects of the solution at solutionPath.
func (r *Resolver) Resolve(solutionPath string) (*Result, error) {
	projects, err := solution.Parse(r.fs, solutionPath)
	if err != nil {
		return nil, err
	}

	overridePath := OverridePath(solutionPath)
	hasOverride, err := fsops.IsFile(r.fs, overridePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check override file %s: %w", overridePath, err)
	}

	var result *Result
	if hasOverride {
		result, err = r.fromOverride(projects, overridePath)
	} else {
		result, err = r.fromConvention(projects)
	}
	if err != nil {
		return nil, err
	}
	result.OverridePath = overridePath

	if result.Selection.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySelection, solutionPath)
	}
	return result, nil
}

func (r *Resolver) fromOverride(projects []solution.Project, overridePath string) (*Result, error) {
	lines, err := r.readOverride(overridePath)
	if err != nil {
		return nil, err
	}

	selection := &Selection{}
	for _, line := range lines {
		project, ok := findByRelativePath(projects, line)
		if !ok {
			return nil, fmt.Errorf(
				"%w: could not find the relative path to the default startup project '%s'; ensure `%s` contains paths relative to the solution directory",
				ErrOverrideMismatch, line, overridePath)
		}
		if _, err := selection.Add(project.ID); err != nil {
			return nil, err
		}
	}

	return &Result{Selection: selection, Source: SourceOverride}, nil
}

func (r *Resolver) fromConvention(projects []solution.Project) (*Result, error) {
	selection := &Selection{}
	verdicts := make([]ProjectVerdict, 0, len(projects))
	for _, project := range projects {
		verdict, err := r.classifier.Classify(project.AbsolutePath)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, ProjectVerdict{Project: project, Verdict: verdict})
		if !verdict.Eligible {
			continue
		}
		if _, err := selection.Add(project.ID); err != nil {
			return nil, err
		}
	}

	return &Result{Selection: selection, Source: SourceConvention, Verdicts: verdicts}, nil
}

// readOverride returns the non-blank lines of the override file, trimmed and
// with separators normalised like solution paths.
func (r *Resolver) readOverride(path string) ([]string, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file %s: %w", path, err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		lines = append(lines, solution.NormalizePath(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan override file %s: %w", path, err)
	}
	return lines, nil
}

func findByRelativePath(projects []solution.Project, relativePath string) (solution.Project, bool) {
	for _, p := range projects {
		if strings.EqualFold(p.RelativePath, relativePath) {
			return p, true
		}
	}
	return solution.Project{}, false
}
