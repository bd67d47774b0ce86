package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"photoshare/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetInfo("photoshare-cli").String())
			return nil
		},
	}
}
