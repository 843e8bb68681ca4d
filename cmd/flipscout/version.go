package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/flipscout/internal/common"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			common.PrintBanner(common.LoadVersionFromFile())
			fmt.Fprintf(cmd.OutOrStdout(), "Flipscout version %s\n", common.GetFullVersion())
		},
	}
}
