package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize draftdesk configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to connect draftdesk to a drafting backend and generates a .draftdesk.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
