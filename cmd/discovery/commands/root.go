// Package commands implements the discovery command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/config"
)

var (
	configPath string
	cfg        config.Config
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:          "discovery",
		Short:        "Browse popular, trending and seasonal anime in the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runScreen,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/discovery/config.toml)")

	root.AddCommand(fetchCmd(), notifyCmd(), pagesCmd(), configCmd())
	return root.Execute()
}
