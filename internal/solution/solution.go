// Package solution extracts the member projects of a Visual Studio solution
// file.
//
// Only "Project(" lines are considered. Solution folders are organisational
// entries rather than buildable projects and are skipped.
package solution

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/guid"
)

// FolderTypeID is the project type identity of a solution folder.
const FolderTypeID = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

const (
	projectPrefix  = "Project("
	fieldSeparator = `", "`
)

var (
	// ErrDescriptorNotFound indicates the solution file does not exist.
	ErrDescriptorNotFound = errors.New("solution file not found")

	// ErrMalformed indicates a project line could not be parsed.
	ErrMalformed = errors.New("malformed project line")
)

// Project is one buildable project declared in a solution.
type Project struct {
	// ID is the canonical project identity.
	ID string

	// RelativePath is the path declared in the solution, with separators
	// normalised for the host.
	RelativePath string

	// AbsolutePath is RelativePath resolved against the solution directory.
	AbsolutePath string
}

// Parse reads all projects declared in the solution at path, in file order.
func Parse(fs fsops.FS, path string) ([]Project, error) {
	var projects []Project
	for project, err := range Scan(fs, path) {
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Scan yields the projects of the solution at path one by one, in file order.
// Iteration stops at the first error, which is yielded with a zero Project.
func Scan(fs fsops.FS, path string) iter.Seq2[Project, error] {
	return func(yield func(Project, error) bool) {
		isFile, err := fsops.IsFile(fs, path)
		if err != nil {
			yield(Project{}, fmt.Errorf("failed to stat solution %s: %w", path, err))
			return
		}
		if !isFile {
			yield(Project{}, fmt.Errorf("%w: %s", ErrDescriptorNotFound, path))
			return
		}

		data, err := fs.ReadFile(path)
		if err != nil {
			yield(Project{}, fmt.Errorf("failed to read solution %s: %w", path, err))
			return
		}

		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			yield(Project{}, fmt.Errorf("failed to resolve solution directory: %w", err))
			return
		}

		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if !strings.HasPrefix(line, projectPrefix) {
				continue
			}

			project, skip, err := parseLine(line, dir)
			if err != nil {
				yield(Project{}, fmt.Errorf("%s:%d: %w", path, lineNo, err))
				return
			}
			if skip {
				continue
			}
			if !yield(project, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Project{}, fmt.Errorf("failed to scan solution %s: %w", path, err))
		}
	}
}

// parseLine parses a single `Project("{type}") = "Name", "rel\path", "{id}"` line.
// skip is true for solution folders.
func parseLine(line, dir string) (project Project, skip bool, err error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < 3 {
		return Project{}, false, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformed, len(fields))
	}

	typeID, ok := typeIdentity(fields[0])
	if !ok {
		return Project{}, false, fmt.Errorf("%w: missing project type identity", ErrMalformed)
	}
	if strings.EqualFold(typeID, FolderTypeID) {
		return Project{}, true, nil
	}

	id, err := guid.Canonical(strings.Trim(fields[2], `{}"`))
	if err != nil {
		return Project{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	relativePath := normalizeSeparators(fields[1])
	return Project{
		ID:           id,
		RelativePath: relativePath,
		AbsolutePath: filepath.Clean(filepath.Join(dir, relativePath)),
	}, false, nil
}

// typeIdentity returns the text between the first '{' and the following '}'.
func typeIdentity(field string) (string, bool) {
	start := strings.IndexByte(field, '{')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(field[start+1:], '}')
	if end < 0 {
		return "", false
	}
	return field[start+1 : start+1+end], true
}

// normalizeSeparators converts the Windows separators used in solution files
// to the host separator.
func normalizeSeparators(path string) string {
	if filepath.Separator == '\\' {
		return path
	}
	return strings.ReplaceAll(path, `\`, string(filepath.Separator))
}

// NormalizePath exposes the separator normalisation applied to relative
// paths so other inputs (override files) can be compared against them.
func NormalizePath(path string) string {
	return normalizeSeparators(path)
}
