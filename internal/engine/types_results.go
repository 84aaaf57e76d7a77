package engine

import (
	"github.com/danieljhkim/slnstart/internal/startup"
	"github.com/danieljhkim/slnstart/internal/variant"
)

// SourceExplicit marks a startup set given directly by the caller.
const SourceExplicit startup.Source = "explicit"

// ProjectInfo describes one solution project and its classification.
type ProjectInfo struct {
	ID           string `json:"id"`
	RelativePath string `json:"relative_path"`
	AbsolutePath string `json:"absolute_path"`

	// Eligible and Rule are empty when the project was not classified
	Eligible bool   `json:"eligible"`
	Rule     string `json:"rule,omitempty"`

	// DeclaredID is the ProjectGuid inside the project file, if any
	DeclaredID string `json:"declared_id,omitempty"`
}

// ResolveResult represents the resolved startup set of a solution.
type ResolveResult struct {
	SolutionPath string         `json:"solution"`
	Source       startup.Source `json:"source"`
	OverridePath string         `json:"override_path"`

	// ProjectIDs is the startup set in order
	ProjectIDs []string `json:"project_ids"`

	// Projects holds the classified projects when Source is convention
	Projects []ProjectInfo `json:"projects,omitempty"`
}

// ListResult represents every project of a solution with its verdict.
type ListResult struct {
	SolutionPath string `json:"solution"`

	// OverridePath is set only when an override file exists
	OverridePath string `json:"override_path,omitempty"`

	Projects []ProjectInfo `json:"projects"`
}

// TargetResult represents one container written (or planned).
type TargetResult struct {
	variant.Target

	// Digest is the SHA-256 of the container bytes
	Digest string `json:"digest"`

	// Written is false in a dry run
	Written bool `json:"written"`
}

// WriteResult represents the result of writing startup projects.
type WriteResult struct {
	SolutionPath string         `json:"solution"`
	Source       startup.Source `json:"source"`
	ProjectIDs   []string       `json:"project_ids"`
	Targets      []TargetResult `json:"targets"`
	DryRun       bool           `json:"dry_run"`
}

// InspectResult represents the decoded content of a container.
type InspectResult struct {
	Path       string   `json:"path"`
	ProjectIDs []string `json:"project_ids"`

	// Entries lists every storage and stream in the container
	Entries []string `json:"entries"`
}
