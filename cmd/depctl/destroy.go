package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDestroyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [target]",
		Short: "Destroy a target and everything depending on it, or the whole project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return runDestroy(cmd, flags, target)
		},
	}
}

func runDestroy(cmd *cobra.Command, flags *rootFlags, target string) error {
	proj, err := loadAndInitProject(flags)
	if err != nil {
		return err
	}

	if err := proj.Destroy(cmd.Context(), target); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "destroyed")
	return nil
}
