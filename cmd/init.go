package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/fc-companion/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize companion configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure your account, feed source and thresholds, and writes a .companion.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
