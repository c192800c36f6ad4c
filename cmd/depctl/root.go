package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/depctl/internal/logging"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

type rootFlags struct {
	projectPath string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "depctl",
		Short:         "depctl builds and destroys dependency-graph-ordered infrastructure targets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.projectPath, "project", "p", "./depctl_project.go", "path to the project-definition file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug|info|warn|error")

	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newDestroyCmd(flags))

	return cmd
}

func newLogger(flags *rootFlags) (logging.Logger, error) {
	return logging.New(logging.Options{
		Writer:    os.Stderr,
		Level:     flags.logLevel,
		Component: "depctl",
	})
}

// exitCodeFor maps an engine error kind to the process exit code documented
// for depctl: ConfigError->2, CircularDependency->3, UnknownTarget->4,
// BuildNotFound->5, UnitFailure->6. Any other error exits 1.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var configErr *depctlerr.ConfigError
	var cycleErr *depctlerr.CircularDependency
	var unknownErr *depctlerr.UnknownTarget
	var notFoundErr *depctlerr.BuildNotFound
	var unitErr *depctlerr.UnitFailure

	switch {
	case errors.As(err, &configErr):
		return 2
	case errors.As(err, &cycleErr):
		return 3
	case errors.As(err, &unknownErr):
		return 4
	case errors.As(err, &notFoundErr):
		return 5
	case errors.As(err, &unitErr):
		return 6
	default:
		return 1
	}
}
