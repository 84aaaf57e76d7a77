package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/logging"
	"github.com/danieljhkim/slnstart/internal/solution"
	"github.com/danieljhkim/slnstart/internal/startup"
)

// List classifies every project of a solution, regardless of any override
// file. A project that cannot be classified fails the whole listing.
func (e *Engine) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	logger := logging.FromContext(ctx)

	slnPath, err := resolveInputPath(req.SolutionPath, req.CWD, "solution")
	if err != nil {
		return nil, err
	}

	result := &ListResult{SolutionPath: slnPath, Projects: []ProjectInfo{}}
	for project, err := range solution.Scan(e.fs, slnPath) {
		if err != nil {
			return nil, err
		}
		verdict, err := e.classifier.Classify(project.AbsolutePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("classified project", "project", project.RelativePath, "rule", verdict.Rule)
		result.Projects = append(result.Projects, projectInfo(startup.ProjectVerdict{Project: project, Verdict: verdict}))
	}

	overridePath := startup.OverridePath(slnPath)
	exists, err := fsops.IsFile(e.fs, overridePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check override file: %w", err)
	}
	if exists {
		result.OverridePath = overridePath
	}
	return result, nil
}
