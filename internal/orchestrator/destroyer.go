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

// Destroyer tears targets down, either the whole graph or a single targeted
// subtree, always predecessors (dependents) first.
type Destroyer struct {
	Graph     *graph.Graph
	Workspace *workspace.Workspace
	Env       map[string]string
	Factories map[string]UnitFactory
	Project   any
	Logger    logging.Logger

	destroyed map[string]bool
}

// NewDestroyer constructs a Destroyer. A fresh Destroyer should be created
// per Project.Destroy call.
func NewDestroyer(g *graph.Graph, ws *workspace.Workspace, env map[string]string, factories map[string]UnitFactory, project any, logger logging.Logger) *Destroyer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Destroyer{
		Graph:     g,
		Workspace: ws,
		Env:       env,
		Factories: factories,
		Project:   project,
		Logger:    logger,
		destroyed: make(map[string]bool),
	}
}

// DestroyAll destroys every target exactly once, in reverse topological
// order so every dependent is torn down before the dependencies it needs.
func (d *Destroyer) DestroyAll(ctx context.Context) error {
	order := d.Graph.TopologicalOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if err := d.destroyOne(ctx, order[i]); err != nil {
			return err
		}
	}
	return nil
}

// DestroyTarget destroys target after first destroying every target that
// transitively depends on it (its predecessors), depth-first.
func (d *Destroyer) DestroyTarget(ctx context.Context, target string) error {
	return d.destroyPredecessorsFirst(ctx, target)
}

func (d *Destroyer) destroyPredecessorsFirst(ctx context.Context, target string) error {
	if d.destroyed[target] {
		return nil
	}

	predecessors, err := d.Graph.Predecessors(target)
	if err != nil {
		return err
	}

	for _, p := range predecessors {
		if err := d.destroyPredecessorsFirst(ctx, p); err != nil {
			return err
		}
	}

	return d.destroyOne(ctx, target)
}

func (d *Destroyer) destroyOne(ctx context.Context, target string) error {
	if d.destroyed[target] {
		return nil
	}

	successors, err := d.Graph.Successors(target)
	if err != nil {
		return err
	}

	input := make(map[string]OutputRecord, len(successors))
	for _, dep := range successors {
		output, err := d.successorOutput(ctx, dep)
		if err != nil {
			var notFound *depctlerr.BuildNotFound
			if errors.As(err, &notFound) {
				// A missing prior build does not block destroy of its
				// dependents: the unit sees the same input shape it would
				// have during build, with an empty record standing in for
				// the never-built dependency.
				input[dep] = OutputRecord{}
				continue
			}
			return err
		}
		input[dep] = output
	}

	destroyDir, err := d.Workspace.MakeDestroyDir(target)
	if err != nil {
		return depctlerr.NewUnitFailure(target, "destroy", err)
	}

	factory, ok := d.Factories[target]
	if !ok {
		return depctlerr.NewUnitFailure(target, "destroy", fmt.Errorf("no deployable registered for target %q", target))
	}

	unitCtx := &Context{
		Project:        d.Project,
		Env:            copyEnv(d.Env),
		Input:          input,
		BuildOutputDir: d.Workspace.BuildOutputDir(target),
		DestroyDir:     destroyDir,
	}
	unit := factory(unitCtx)

	log := d.Logger.With("target", target)

	err = withWorkingDir(destroyDir, func() error {
		return unit.Destroy(ctx)
	})
	if err != nil {
		return depctlerr.NewUnitFailure(target, "destroy", err)
	}

	if err := d.Workspace.ClearBuildOutput(target); err != nil {
		return depctlerr.NewUnitFailure(target, "destroy", err)
	}

	log.Info(ctx, "destroyed")
	d.destroyed[target] = true
	return nil
}

// successorOutput re-instantiates dep's unit (without building it) and asks
// it for its most recent build output, so the target being destroyed sees
// the same input shape it saw during build.
func (d *Destroyer) successorOutput(ctx context.Context, dep string) (OutputRecord, error) {
	factory, ok := d.Factories[dep]
	if !ok {
		return nil, depctlerr.NewUnitFailure(dep, "get_build_output", fmt.Errorf("no deployable registered for target %q", dep))
	}

	unitCtx := &Context{
		Project:        d.Project,
		Env:            copyEnv(d.Env),
		BuildOutputDir: d.Workspace.BuildOutputDir(dep),
	}
	unit := factory(unitCtx)

	return unit.GetBuildOutput(ctx)
}
