package main

import (
	"fmt"

	"github.com/spf13/cobra"

	prserver "github.com/HendryAvila/pr-agent/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "pr-agent v%s\n", prserver.Version)
		return err
	},
}
