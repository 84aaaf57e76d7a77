package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/slnstart/internal/logging"
	"github.com/danieljhkim/slnstart/internal/startup"
)

// Resolve determines the startup projects of a solution, from its override
// file when present and by classification otherwise.
func (e *Engine) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResult, error) {
	slnPath, err := resolveInputPath(req.SolutionPath, req.CWD, "solution")
	if err != nil {
		return nil, err
	}

	res, err := e.resolve(ctx, slnPath)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{
		SolutionPath: slnPath,
		Source:       res.Source,
		OverridePath: res.OverridePath,
		ProjectIDs:   res.Selection.IDs(),
	}
	for _, pv := range res.Verdicts {
		result.Projects = append(result.Projects, projectInfo(pv))
	}
	return result, nil
}

func (e *Engine) resolve(ctx context.Context, slnPath string) (*startup.Result, error) {
	logger := logging.FromContext(ctx)

	res, err := e.resolver().Resolve(slnPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve startup projects: %w", err)
	}

	for _, pv := range res.Verdicts {
		logger.Debug("classified project",
			"project", pv.Project.RelativePath,
			"eligible", pv.Verdict.Eligible,
			"rule", pv.Verdict.Rule)
	}
	logger.Info("resolved startup projects",
		"solution", slnPath,
		"source", string(res.Source),
		"count", res.Selection.Len())
	return res, nil
}

func projectInfo(pv startup.ProjectVerdict) ProjectInfo {
	return ProjectInfo{
		ID:           pv.Project.ID,
		RelativePath: pv.Project.RelativePath,
		AbsolutePath: pv.Project.AbsolutePath,
		Eligible:     pv.Verdict.Eligible,
		Rule:         pv.Verdict.Rule,
		DeclaredID:   pv.Verdict.ProjectID,
	}
}
