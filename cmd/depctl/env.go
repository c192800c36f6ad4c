package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/depctl/internal/project"
	"github.com/alexisbeaulieu97/depctl/internal/projectloader"
)

// loadAndInitProject resolves the project-definition file named by flags and
// wires it to a tmp root alongside it, seeded from the process environment.
func loadAndInitProject(flags *rootFlags) (project.Project, error) {
	logger, err := newLogger(flags)
	if err != nil {
		return nil, err
	}

	proj, err := projectloader.Load(flags.projectPath)
	if err != nil {
		return nil, err
	}

	tmpRoot := filepath.Join(filepath.Dir(flags.projectPath), "tmp")
	if err := proj.Init(proj, tmpRoot, processEnv(), logger); err != nil {
		return nil, err
	}
	return proj, nil
}

func processEnv() map[string]string {
	raw := os.Environ()
	env := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}
