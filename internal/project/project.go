// Package project ties a graph, a workspace, and a set of deployable units
// together into the long-lived handle a caller builds and destroys targets
// through.
package project

import (
	"context"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/depctl/internal/graph"
	"github.com/alexisbeaulieu97/depctl/internal/logging"
	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
	"github.com/alexisbeaulieu97/depctl/internal/workspace"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

// Environment is a validated, project-defined mapping of configuration keys
// to string values. The engine treats it as opaque and deep-copies it before
// handing it to any unit.
type Environment map[string]string

// Project is the interface a concrete project type implements by embedding
// Base and overriding the methods it needs. GetProject() factories return a
// Project.
type Project interface {
	GetDeployables() map[string]orchestrator.UnitFactory
	GetDependencies() map[string]graph.Dependencies
	GetDefaultBuildTarget() string
	LoadEnv(raw map[string]string) (Environment, error)

	Init(self Project, tmpRoot string, rawEnv map[string]string, logger logging.Logger) error
	Build(ctx context.Context, target string) (orchestrator.OutputRecord, error)
	Destroy(ctx context.Context, target string) error
}

// Base is an embeddable default: a concrete project embeds Base, overrides
// GetDeployables/GetDependencies/GetDefaultBuildTarget/LoadEnv, and calls
// Init once after construction (typically from its own constructor or from
// the loader that instantiates it) to wire the graph/workspace/env it needs
// to satisfy Build and Destroy. Init takes self as a back-reference: the
// embedding type passes itself in so Base can dispatch to its overrides.
type Base struct {
	self   Project
	ws     *workspace.Workspace
	env    map[string]string
	logger logging.Logger

	graphOnce sync.Once
	graph     *graph.Graph
	graphErr  error
}

// GetDeployables returns no targets; override in the embedding type.
func (*Base) GetDeployables() map[string]orchestrator.UnitFactory { return nil }

// GetDependencies declares no edges; override in the embedding type.
func (*Base) GetDependencies() map[string]graph.Dependencies { return nil }

// GetDefaultBuildTarget returns "", meaning Build requires an explicit
// target unless overridden.
func (*Base) GetDefaultBuildTarget() string { return "" }

// LoadEnv passes raw through unvalidated; override to apply real validation.
func (*Base) LoadEnv(raw map[string]string) (Environment, error) {
	return Environment(raw), nil
}

// Init wires self (the embedding project, overrides and all) to a root
// directory and a validated environment. tmpRoot is the directory the
// workspace's per-target build/build-output/destroy dirs are created under
// (typically "<project_dir>/tmp"). rawEnv is validated via self.LoadEnv.
func (b *Base) Init(self Project, tmpRoot string, rawEnv map[string]string, logger logging.Logger) error {
	env, err := self.LoadEnv(rawEnv)
	if err != nil {
		return depctlerr.NewConfigError("", "environment validation failed", err)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	b.self = self
	b.ws = workspace.New(tmpRoot)
	b.env = map[string]string(env)
	b.logger = logger
	return nil
}

func (b *Base) resolveGraph() (*graph.Graph, error) {
	b.graphOnce.Do(func() {
		deployables := b.self.GetDeployables()
		nodes := make([]string, 0, len(deployables))
		for name := range deployables {
			nodes = append(nodes, name)
		}
		// GetDeployables is a map, so its iteration order is random; sort
		// names to give Graph a deterministic node order to break ties on
		// (e.g. which of two sibling dependents is destroyed first).
		sort.Strings(nodes)
		b.graph, b.graphErr = graph.Construct(nodes, b.self.GetDependencies())
	})
	return b.graph, b.graphErr
}

// Build builds target and everything it transitively depends on, returning
// target's build output. An empty target uses the project's default build
// target; if that is also empty, Build fails with UnknownTarget.
func (b *Base) Build(ctx context.Context, target string) (orchestrator.OutputRecord, error) {
	if target == "" {
		target = b.self.GetDefaultBuildTarget()
	}

	g, err := b.resolveGraph()
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, depctlerr.NewUnknownTarget("", g.Nodes())
	}

	builder := orchestrator.NewBuilder(g, b.ws, b.env, b.self.GetDeployables(), b.self, b.logger)
	return builder.Build(ctx, target)
}

// Destroy tears target and every target transitively depending on it down.
// An empty target means destroy the entire project.
func (b *Base) Destroy(ctx context.Context, target string) error {
	g, err := b.resolveGraph()
	if err != nil {
		return err
	}

	destroyer := orchestrator.NewDestroyer(g, b.ws, b.env, b.self.GetDeployables(), b.self, b.logger)
	if target == "" {
		return destroyer.DestroyAll(ctx)
	}
	return destroyer.DestroyTarget(ctx, target)
}
