package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/slnstart/internal/container"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/logging"
	"github.com/danieljhkim/slnstart/internal/solution"
	"github.com/danieljhkim/slnstart/internal/startup"
	"github.com/danieljhkim/slnstart/internal/suoconfig"
	"github.com/danieljhkim/slnstart/internal/variant"
)

// Write stores the startup set of a solution in the option container of
// every requested variant. Variants are written in order and the first
// failure aborts the rest; containers already written stay in place.
func (e *Engine) Write(ctx context.Context, req *WriteRequest) (*WriteResult, error) {
	logger := logging.FromContext(ctx)

	slnPath, err := resolveInputPath(req.SolutionPath, req.CWD, "solution")
	if err != nil {
		return nil, err
	}

	// Explicit ids skip the resolver, which is otherwise what rejects a
	// missing solution.
	exists, err := fsops.IsFile(e.fs, slnPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check solution %s: %w", slnPath, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", solution.ErrDescriptorNotFound, slnPath)
	}

	variants := req.Variants
	if len(variants) == 0 {
		variants = variant.Default()
	}

	result := &WriteResult{SolutionPath: slnPath, DryRun: req.DryRun}
	if len(req.ProjectIDs) > 0 {
		selection, err := startup.NewSelection(req.ProjectIDs...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		result.Source = SourceExplicit
		result.ProjectIDs = selection.IDs()
	} else {
		res, err := e.resolve(ctx, slnPath)
		if err != nil {
			return nil, err
		}
		result.Source = res.Source
		result.ProjectIDs = res.Selection.IDs()
	}

	block, err := suoconfig.Encode(result.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode startup projects: %w", err)
	}

	w := e.writer(req.TemplateDir, req.Fallback)
	for _, v := range variants {
		target := v.Target(slnPath)
		tr, err := e.writeTarget(w, target, block, result.ProjectIDs, req.DryRun)
		if err != nil {
			return nil, err
		}
		logger.Info("wrote startup projects",
			"variant", target.Variant,
			"path", target.Path,
			"dry_run", req.DryRun)
		result.Targets = append(result.Targets, tr)
	}
	return result, nil
}

func (e *Engine) writeTarget(w *container.Writer, target variant.Target, block []byte, ids []string, dryRun bool) (TargetResult, error) {
	tr := TargetResult{Target: target}
	if dryRun {
		data, err := w.Build(target, block)
		if err != nil {
			return tr, fmt.Errorf("%w %s to %s: %w", container.ErrWrite, strings.Join(ids, " "), target.Path, err)
		}
		tr.Digest = e.hasher.HashBytes(data)
		return tr, nil
	}

	if err := w.Write(target, block, ids); err != nil {
		return tr, err
	}
	digest, err := e.hasher.HashFile(target.Path)
	if err != nil {
		return tr, fmt.Errorf("failed to hash %s: %w", target.Path, err)
	}
	tr.Digest = digest
	tr.Written = true
	return tr, nil
}
