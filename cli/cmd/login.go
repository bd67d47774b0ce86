package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"photoshare/cli/internal/client"
	cliconfig "photoshare/cli/internal/config"
)

func newLoginCmd() *cobra.Command {
	var code, fake string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with a GitHub OAuth code or as an existing user.

The token is stored in ~/.photoshare/.env and sent with every later request.

Examples:
  photoshare login --code 1a2b3c     # code from the GitHub redirect
  photoshare login --fake gPlake     # sign in as an existing user
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (code == "") == (fake == "") {
				return fmt.Errorf("exactly one of --code or --fake is required")
			}

			api := newAPIClient()
			var payload *client.AuthPayload
			var err error
			if code != "" {
				payload, err = api.GithubAuth(cmd.Context(), code)
			} else {
				payload, err = api.FakeUserAuth(cmd.Context(), fake)
			}
			if err != nil {
				return err
			}
			if payload == nil || payload.Token == "" {
				return fmt.Errorf("sign-in returned no token")
			}

			if err := cliconfig.SaveEnvValue(cliconfig.TokenKey, payload.Token); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}
			if c, path, err := openCache(); err == nil {
				c.ResetSession()
				_ = c.Save(path)
			}

			fmt.Fprint(cmd.OutOrStdout(), "Signed in as ")
			loginColor.Fprintln(cmd.OutOrStdout(), payload.User.GithubLogin)
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved to ~/.photoshare/.env")
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "GitHub OAuth code")
	cmd.Flags().StringVar(&fake, "fake", "", "githubLogin of an existing user")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliconfig.RemoveEnvValue(cliconfig.TokenKey); err != nil {
				return err
			}
			if c, path, err := openCache(); err == nil {
				c.ResetSession()
				_ = c.Save(path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
