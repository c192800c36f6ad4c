package orchestrator

import "context"

// Unit is the contract a user target must satisfy. The engine constructs a
// fresh unit instance just before a target's build or destroy step and
// discards it afterward; no base-class state is required.
type Unit interface {
	// Build is side-effecting; the current working directory during the
	// call is the build dir. May write anywhere under the build dir or the
	// build-output dir. Any error aborts the current run.
	Build(ctx context.Context) error

	// GetBuildOutput returns the output record for the most recent
	// successful build. Must be safe to call after a successful Build,
	// after a skipped Build (freshness hit), and during destroy. Returns a
	// *depctlerr.BuildNotFound if the target has never built successfully.
	GetBuildOutput(ctx context.Context) (OutputRecord, error)

	// IsBuildOutdated reports whether the engine must run Build. Returning
	// false permits a skip.
	IsBuildOutdated(ctx context.Context) (bool, error)

	// Destroy is side-effecting; the current working directory during the
	// call is the destroy dir. May release external resources.
	Destroy(ctx context.Context) error
}

// UnitFactory constructs a Unit bound to the given Context. A project's
// GetDeployables() returns one UnitFactory per target name.
type UnitFactory func(*Context) Unit

// AlwaysBuild is an embeddable default for units with no freshness check:
// IsBuildOutdated always reports true, so Build always runs.
type AlwaysBuild struct{}

// IsBuildOutdated implements the always-build default.
func (AlwaysBuild) IsBuildOutdated(ctx context.Context) (bool, error) {
	return true, nil
}

// NoopDestroy is an embeddable default for units with nothing to release.
type NoopDestroy struct{}

// Destroy implements the no-op default.
func (NoopDestroy) Destroy(ctx context.Context) error {
	return nil
}
