package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/depctl/internal/graph"
	"github.com/alexisbeaulieu97/depctl/internal/logging"
	"github.com/alexisbeaulieu97/depctl/internal/workspace"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

// Builder performs a depth-first, successors-first, memoized traversal of a
// Graph: before a target builds, every dependency it needs has already
// finished (or been skipped as up-to-date), and its output collected. A
// target reachable via multiple paths is built exactly once.
type Builder struct {
	Graph     *graph.Graph
	Workspace *workspace.Workspace
	Env       map[string]string
	Factories map[string]UnitFactory
	Project   any
	Logger    logging.Logger

	outputs  map[string]OutputRecord
	visiting map[string]bool
}

// NewBuilder constructs a Builder. A fresh Builder should be created per
// Project.Build call; it is not safe to reuse across invocations.
func NewBuilder(g *graph.Graph, ws *workspace.Workspace, env map[string]string, factories map[string]UnitFactory, project any, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Builder{
		Graph:     g,
		Workspace: ws,
		Env:       env,
		Factories: factories,
		Project:   project,
		Logger:    logger,
		outputs:   make(map[string]OutputRecord),
		visiting:  make(map[string]bool),
	}
}

// Build runs (or skips, per freshness) root and every target it transitively
// depends on, returning root's build output.
func (b *Builder) Build(ctx context.Context, root string) (OutputRecord, error) {
	return b.build(ctx, root)
}

func (b *Builder) build(ctx context.Context, target string) (OutputRecord, error) {
	if out, done := b.outputs[target]; done {
		return out, nil
	}
	if b.visiting[target] {
		// Graph construction guarantees no cycles reach here; a hit means
		// an internal bookkeeping bug, not a user-facing cycle.
		return nil, depctlerr.NewUnitFailure(target, "build", fmt.Errorf("internal: revisited target %q while still building it", target))
	}
	b.visiting[target] = true
	defer delete(b.visiting, target)

	successors, err := b.Graph.Successors(target)
	if err != nil {
		return nil, err
	}

	input := make(map[string]OutputRecord, len(successors))
	for _, dep := range successors {
		out, err := b.build(ctx, dep)
		if err != nil {
			return nil, err
		}
		input[dep] = out
	}

	output, err := b.runTarget(ctx, target, input)
	if err != nil {
		return nil, err
	}

	b.outputs[target] = output
	return output, nil
}

func (b *Builder) runTarget(ctx context.Context, target string, input map[string]OutputRecord) (OutputRecord, error) {
	factory, ok := b.Factories[target]
	if !ok {
		return nil, depctlerr.NewUnitFailure(target, "build", fmt.Errorf("no deployable registered for target %q", target))
	}

	buildDir, err := b.Workspace.MakeBuildDir(target)
	if err != nil {
		return nil, depctlerr.NewUnitFailure(target, "build", err)
	}
	outputDir, err := b.Workspace.MakeBuildOutputDir(target)
	if err != nil {
		return nil, depctlerr.NewUnitFailure(target, "build", err)
	}

	unitCtx := &Context{
		Project:        b.Project,
		Env:            copyEnv(b.Env),
		Input:          input,
		BuildDir:       buildDir,
		BuildOutputDir: outputDir,
	}
	unit := factory(unitCtx)

	log := b.Logger.With("target", target)

	err = withWorkingDir(buildDir, func() error {
		outdated, err := unit.IsBuildOutdated(ctx)
		if err != nil {
			return depctlerr.NewUnitFailure(target, "is_build_outdated", err)
		}

		if !outdated {
			log.Info(ctx, "up-to-date, skipping build")
			return nil
		}

		if err := unit.Build(ctx); err != nil {
			return depctlerr.NewUnitFailure(target, "build", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output, err := unit.GetBuildOutput(ctx)
	if err != nil {
		var notFound *depctlerr.BuildNotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, depctlerr.NewUnitFailure(target, "get_build_output", err)
	}

	return output, nil
}
