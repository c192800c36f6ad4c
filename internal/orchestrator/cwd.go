package orchestrator

import (
	"fmt"
	"os"
)

// withWorkingDir changes the process working directory to dir for the
// duration of fn, restoring the original directory on every exit path,
// including when fn panics or returns an error. This is the engine's only
// globally visible side effect beyond filesystem writes, and is scoped
// strictly to a single unit's build or destroy step.
func withWorkingDir(dir string, fn func() error) error {
	original, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("orchestrator: getwd: %w", err)
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("orchestrator: chdir %s: %w", dir, err)
	}
	defer os.Chdir(original)

	return fn()
}
