package units

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
)

// Memory is a minimal in-memory orchestrator.Unit: it builds and destroys
// nothing on disk, counts its Build and Destroy calls, and reports a
// caller-supplied output. It exists for tests that need a Unit without the
// overhead of a real git checkout, archive, or HTTP call.
type Memory struct {
	orchestrator.AlwaysBuild

	Target string
	Output orchestrator.OutputRecord

	mu           sync.Mutex
	ctx          *orchestrator.Context
	BuildCalls   int
	DestroyCalls int
}

// NewMemory returns a UnitFactory producing a *Memory bound to target, whose
// Build always succeeds and whose GetBuildOutput always returns output.
func NewMemory(target string, output orchestrator.OutputRecord) orchestrator.UnitFactory {
	return func(c *orchestrator.Context) orchestrator.Unit {
		return &Memory{Target: target, Output: output, ctx: c}
	}
}

func (m *Memory) Build(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BuildCalls++
	return nil
}

func (m *Memory) Destroy(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DestroyCalls++
	return nil
}

func (m *Memory) GetBuildOutput(ctx context.Context) (orchestrator.OutputRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Output, nil
}

// Calls returns the number of times Build and Destroy were invoked, for
// assertions without reaching past the mutex.
func (m *Memory) Calls() (builds, destroys int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BuildCalls, m.DestroyCalls
}
