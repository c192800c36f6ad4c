package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/depctl/internal/graph"
	"github.com/alexisbeaulieu97/depctl/internal/workspace"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

// recorder captures the order units ran in and the input each one observed,
// shared across every fakeUnit instantiated during a single test.
type recorder struct {
	visitLog    []string
	destroyLog  []string
	observedIn  map[string]map[string]OutputRecord
	outputs     map[string]OutputRecord
	outdated    map[string]bool
	buildErr    map[string]error
	destroyErr  map[string]error
	missingDeps map[string]bool
}

func newRecorder() *recorder {
	return &recorder{
		observedIn:  make(map[string]map[string]OutputRecord),
		outputs:     make(map[string]OutputRecord),
		outdated:    make(map[string]bool),
		buildErr:    make(map[string]error),
		destroyErr:  make(map[string]error),
		missingDeps: make(map[string]bool),
	}
}

type fakeUnit struct {
	target string
	ctx    *Context
	rec    *recorder
}

func (u *fakeUnit) Build(ctx context.Context) error {
	u.rec.visitLog = append(u.rec.visitLog, u.target)
	u.rec.observedIn[u.target] = u.ctx.Input
	return u.rec.buildErr[u.target]
}

func (u *fakeUnit) GetBuildOutput(ctx context.Context) (OutputRecord, error) {
	if u.rec.missingDeps[u.target] {
		return nil, depctlerr.NewBuildNotFound(u.target, nil)
	}
	return u.rec.outputs[u.target], nil
}

func (u *fakeUnit) IsBuildOutdated(ctx context.Context) (bool, error) {
	if outdated, ok := u.rec.outdated[u.target]; ok {
		return outdated, nil
	}
	return true, nil
}

func (u *fakeUnit) Destroy(ctx context.Context) error {
	u.rec.destroyLog = append(u.rec.destroyLog, u.target)
	u.rec.observedIn[u.target] = u.ctx.Input
	return u.rec.destroyErr[u.target]
}

func factoriesFor(rec *recorder, targets ...string) map[string]UnitFactory {
	factories := make(map[string]UnitFactory, len(targets))
	for _, name := range targets {
		name := name
		factories[name] = func(c *Context) Unit {
			return &fakeUnit{target: name, ctx: c, rec: rec}
		}
	}
	return factories
}

func diamondGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Construct(
		[]string{"a", "b1", "b2", "c"},
		map[string]graph.Dependencies{
			"b1": graph.Dep("a"),
			"b2": graph.Dep("a"),
			"c":  graph.Dep("b1", "b2"),
		},
	)
	require.NoError(t, err)
	return g
}

func TestBuilderDiamondBuildVisitsEachTargetOnceInOrder(t *testing.T) {
	t.Parallel()

	g := diamondGraph(t)
	rec := newRecorder()
	rec.outputs["a"] = OutputRecord{"apple": 1}
	rec.outputs["b1"] = OutputRecord{"boy": 1}
	rec.outputs["b2"] = OutputRecord{"boy": 2}
	rec.outputs["c"] = OutputRecord{"cat": 1}

	ws := workspace.New(t.TempDir())
	b := NewBuilder(g, ws, map[string]string{}, factoriesFor(rec, "a", "b1", "b2", "c"), nil, nil)

	output, err := b.Build(context.Background(), "c")
	require.NoError(t, err)
	require.Equal(t, OutputRecord{"cat": 1}, output)
	require.Equal(t, []string{"a", "b1", "b2", "c"}, rec.visitLog)

	require.Equal(t, map[string]OutputRecord{
		"b1": {"boy": 1},
		"b2": {"boy": 2},
	}, rec.observedIn["c"])
}

func TestBuilderSkipsUpToDateTarget(t *testing.T) {
	t.Parallel()

	g := diamondGraph(t)
	rec := newRecorder()
	rec.outdated["a"] = false
	rec.outputs["a"] = OutputRecord{"apple": 1}
	rec.outputs["b1"] = OutputRecord{}
	rec.outputs["b2"] = OutputRecord{}
	rec.outputs["c"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	b := NewBuilder(g, ws, map[string]string{}, factoriesFor(rec, "a", "b1", "b2", "c"), nil, nil)

	_, err := b.Build(context.Background(), "c")
	require.NoError(t, err)
	require.NotContains(t, rec.visitLog, "a")
	require.Contains(t, rec.visitLog, "b1")
}

func TestBuilderAbortsOnUnitFailure(t *testing.T) {
	t.Parallel()

	g := diamondGraph(t)
	rec := newRecorder()
	rec.buildErr["a"] = assertError("boom")

	ws := workspace.New(t.TempDir())
	b := NewBuilder(g, ws, map[string]string{}, factoriesFor(rec, "a", "b1", "b2", "c"), nil, nil)

	_, err := b.Build(context.Background(), "c")
	require.Error(t, err)

	var unitErr *depctlerr.UnitFailure
	require.ErrorAs(t, err, &unitErr)
	require.Equal(t, "a", unitErr.Target)
	require.NotContains(t, rec.visitLog, "c")
}

func TestBuilderCreatesPerTargetBuildDirs(t *testing.T) {
	t.Parallel()

	g, err := graph.Construct([]string{"a", "b"}, nil)
	require.NoError(t, err)

	rec := newRecorder()
	rec.outputs["a"] = OutputRecord{}
	rec.outputs["b"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	b := NewBuilder(g, ws, map[string]string{}, factoriesFor(rec, "a", "b"), nil, nil)

	_, err = b.Build(context.Background(), "a")
	require.NoError(t, err)
	_, err = b.Build(context.Background(), "b")
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"a", "b"}, rec.visitLog)
	require.DirExists(t, filepath.Join(ws.Root(), "build", "a"))
	require.DirExists(t, filepath.Join(ws.Root(), "build", "b"))
}

func TestDestroyerFullDestroyIsPredecessorsFirst(t *testing.T) {
	t.Parallel()

	g := diamondGraph(t)
	rec := newRecorder()
	rec.outputs["a"] = OutputRecord{}
	rec.outputs["b1"] = OutputRecord{}
	rec.outputs["b2"] = OutputRecord{}
	rec.outputs["c"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	factories := factoriesFor(rec, "a", "b1", "b2", "c")

	d := NewDestroyer(g, ws, map[string]string{}, factories, nil, nil)
	require.NoError(t, d.DestroyAll(context.Background()))

	pos := make(map[string]int, len(rec.destroyLog))
	for i, n := range rec.destroyLog {
		pos[n] = i
	}
	require.Less(t, pos["c"], pos["b1"])
	require.Less(t, pos["c"], pos["b2"])
	require.Less(t, pos["b1"], pos["a"])
	require.Less(t, pos["b2"], pos["a"])
}

func TestDestroyerTargetedDestroysPredecessorsFirst(t *testing.T) {
	t.Parallel()

	g := diamondGraph(t)
	rec := newRecorder()
	rec.outputs["a"] = OutputRecord{}
	rec.outputs["b1"] = OutputRecord{}
	rec.outputs["b2"] = OutputRecord{}
	rec.outputs["c"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	d := NewDestroyer(g, ws, map[string]string{}, factoriesFor(rec, "a", "b1", "b2", "c"), nil, nil)

	require.NoError(t, d.DestroyTarget(context.Background(), "a"))
	require.Equal(t, []string{"c", "b1", "b2", "a"}, rec.destroyLog)
}

func TestDestroyerToleratesMissingPriorBuildOfSuccessor(t *testing.T) {
	t.Parallel()

	g, err := graph.Construct([]string{"a", "b"}, map[string]graph.Dependencies{"b": graph.Dep("a")})
	require.NoError(t, err)

	rec := newRecorder()
	rec.missingDeps["a"] = true
	rec.outputs["b"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	d := NewDestroyer(g, ws, map[string]string{}, factoriesFor(rec, "a", "b"), nil, nil)

	require.NoError(t, d.DestroyTarget(context.Background(), "a"))
	require.Equal(t, []string{"b", "a"}, rec.destroyLog)
	require.Equal(t, map[string]OutputRecord{"a": {}}, rec.observedIn["b"])
}

func TestDestroyerIsIdempotentAfterClear(t *testing.T) {
	t.Parallel()

	g, err := graph.Construct([]string{"a"}, nil)
	require.NoError(t, err)

	rec := newRecorder()
	rec.outputs["a"] = OutputRecord{}

	ws := workspace.New(t.TempDir())
	d1 := NewDestroyer(g, ws, map[string]string{}, factoriesFor(rec, "a"), nil, nil)
	require.NoError(t, d1.DestroyAll(context.Background()))

	rec.missingDeps["a"] = true
	d2 := NewDestroyer(g, ws, map[string]string{}, factoriesFor(rec, "a"), nil, nil)
	require.NoError(t, d2.DestroyAll(context.Background()))
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertError(msg string) error { return simpleError(msg) }
