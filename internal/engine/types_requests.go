package engine

import "github.com/danieljhkim/slnstart/internal/variant"

// ResolveRequest represents a request to resolve the startup set of a solution.
type ResolveRequest struct {
	// CWD is the directory relative paths are resolved against
	CWD string

	// SolutionPath is the solution descriptor
	SolutionPath string
}

// ListRequest represents a request to classify every project of a solution.
type ListRequest struct {
	// CWD is the directory relative paths are resolved against
	CWD string

	// SolutionPath is the solution descriptor
	SolutionPath string
}

// WriteRequest represents a request to write startup projects into
// per-user option containers.
type WriteRequest struct {
	// CWD is the directory relative paths are resolved against
	CWD string

	// SolutionPath is the solution descriptor
	SolutionPath string

	// Variants selects the IDE versions to write; empty means variant.Default()
	Variants []variant.Variant

	// ProjectIDs bypasses resolution when set
	ProjectIDs []string

	// TemplateDir holds the .suotemplate files
	TemplateDir string

	// Fallback uses a blank container when a template is missing
	Fallback bool

	// DryRun computes targets and digests without touching the filesystem
	DryRun bool
}

// InspectRequest represents a request to decode an existing container.
type InspectRequest struct {
	// CWD is the directory relative paths are resolved against
	CWD string

	// Path is the container file
	Path string
}
