package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"photoshare/cli/internal/cache"
	cliconfig "photoshare/cli/internal/config"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			c, path, err := openCache()
			if err != nil {
				return err
			}

			data, err := newAPIClient().RootQuery(cmd.Context())
			if err != nil {
				return err
			}
			c.WriteRoot(*data)
			if err := c.Save(path); err != nil {
				return fmt.Errorf("save cache: %w", err)
			}
			return renderRootFromCache(cmd.OutOrStdout(), c)
		},
	}
	cmd.AddCommand(newUsersAddCmd())
	return cmd
}

func newUsersAddCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add generated users",
		Long: `Add generated users through addFakeUsers.

The cached user list is patched with the new users and re-rendered without
fetching the list again.

Examples:
  photoshare users add
  photoshare users add --count 3
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			c, path, err := openCache()
			if err != nil {
				return err
			}
			api := newAPIClient()

			if _, ok := c.ReadRoot(); !ok {
				data, err := api.RootQuery(cmd.Context())
				if err != nil {
					return err
				}
				c.WriteRoot(*data)
			}

			added, err := api.AddFakeUsers(cmd.Context(), count)
			if err != nil {
				return err
			}
			c.MergeUsers(added)
			if err := c.Save(path); err != nil {
				return fmt.Errorf("save cache: %w", err)
			}
			return renderRootFromCache(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of users to generate")
	return cmd
}

func openCache() (*cache.Cache, string, error) {
	path, err := cliconfig.CachePath()
	if err != nil {
		return nil, "", err
	}
	c, err := cache.Load(path)
	if err != nil {
		// A corrupt cache is rebuilt from the next response.
		return cache.New(), path, nil
	}
	return c, path, nil
}

func renderRootFromCache(w io.Writer, c *cache.Cache) error {
	data, _ := c.ReadRoot()
	return render(w, data, func(w io.Writer) { renderUsers(w, data) })
}

