package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			me, err := newAPIClient().Me(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), me, func(w io.Writer) { renderProfile(w, me) })
		},
	}
}
