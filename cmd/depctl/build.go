package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build [target]",
		Short: "Build a target and everything it depends on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return runBuild(cmd, flags, target)
		},
	}
}

func runBuild(cmd *cobra.Command, flags *rootFlags, target string) error {
	proj, err := loadAndInitProject(flags)
	if err != nil {
		return err
	}

	output, err := proj.Build(cmd.Context(), target)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encode build output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
