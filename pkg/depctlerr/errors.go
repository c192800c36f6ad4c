// Package depctlerr defines the distinct error kinds surfaced by the
// orchestrator, its graph, and its project layer. Each kind is its own
// exported type so callers can discriminate with errors.As instead of
// string matching.
package depctlerr

import (
	"fmt"
	"strings"
)

// ConfigError represents a malformed project-definition file or a failed
// environment validation.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

// NewConfigError constructs a ConfigError.
func NewConfigError(path, message string, err error) error {
	return &ConfigError{Path: path, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("config error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CircularDependency represents a cycle discovered while constructing a
// Graph. Message always names one concrete cycle path.
type CircularDependency struct {
	Cycle []string
}

// NewCircularDependency constructs a CircularDependency naming the given
// cycle path (e.g. []string{"a", "b", "a"}).
func NewCircularDependency(cycle []string) error {
	return &CircularDependency{Cycle: append([]string(nil), cycle...)}
}

func (e *CircularDependency) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Circular dependency found: %s", strings.Join(e.Cycle, "->"))
}

// UnknownTarget represents an edge endpoint or query target absent from a
// Graph's node set. Message always includes the known targets.
type UnknownTarget struct {
	Target string
	Known  []string
}

// NewUnknownTarget constructs an UnknownTarget error.
func NewUnknownTarget(target string, known []string) error {
	return &UnknownTarget{Target: target, Known: append([]string(nil), known...)}
}

func (e *UnknownTarget) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unknown target %q (known targets: %s)", e.Target, strings.Join(e.Known, ", "))
}

// BuildNotFound represents a unit's GetBuildOutput failing because the
// target has never built successfully, or its prior output was cleared.
type BuildNotFound struct {
	Target string
	Err    error
}

// NewBuildNotFound constructs a BuildNotFound error.
func NewBuildNotFound(target string, err error) error {
	return &BuildNotFound{Target: target, Err: err}
}

func (e *BuildNotFound) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("build output not found for target %q: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("build output not found for target %q", e.Target)
}

// Unwrap exposes the underlying error.
func (e *BuildNotFound) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnitFailure wraps any error surfaced by user unit code during Build,
// Destroy, IsBuildOutdated, or GetBuildOutput (other than BuildNotFound
// encountered during destroy, which the Destroyer recovers from).
type UnitFailure struct {
	Target string
	Stage  string
	Err    error
}

// NewUnitFailure constructs a UnitFailure for the named target and stage
// ("build", "destroy", "is_build_outdated", "get_build_output").
func NewUnitFailure(target, stage string, err error) error {
	return &UnitFailure{Target: target, Stage: stage, Err: err}
}

func (e *UnitFailure) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unit failure on target %q during %s: %v", e.Target, e.Stage, e.Err)
}

// Unwrap exposes the underlying error.
func (e *UnitFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
