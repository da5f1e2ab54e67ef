package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bd-admin",
		Short:         "Administrative tasks for BizDesk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newSeedUserCmd(),
		newHashPasswordCmd(),
	)

	return cmd
}
