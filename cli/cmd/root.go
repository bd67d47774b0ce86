package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"photoshare/cli/internal/client"
	cliconfig "photoshare/cli/internal/config"
)

var (
	cfgFile string
	output  string
	noColor bool
)

// NewRootCmd returns the root command for the PhotoShare CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "photoshare",
		Short:         "PhotoShare CLI",
		Long:          "PhotoShare CLI: browse users and photos, sign in, and post photos against a PhotoShare API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.photoshare/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "text", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("endpoint", cliconfig.DefaultEndpoint, "GraphQL endpoint")
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newPhotosCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".photoshare"))
			viper.SetConfigName("config")
		}
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PHOTOSHARE")
	viper.AutomaticEnv()

	// Ignore missing config
	_ = viper.ReadInConfig()
}

func newAPIClient() *client.Client {
	return client.New(client.Config{
		Endpoint: viper.GetString("endpoint"),
		Token:    cliconfig.Token(),
		Timeout:  viper.GetDuration("timeout"),
	})
}

func validateOutput() error {
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q (want json or text)", output)
	}
	return nil
}
