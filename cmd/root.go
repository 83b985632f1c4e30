package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	assumeYes bool
)

var rootCmd = &cobra.Command{
	Use:   "draftdesk",
	Short: "Terminal client for a document-drafting chat assistant",
	Long: `draftdesk drafts a sectioned document together with a chat assistant.
Chat responses can be loaded into named sections, edits are saved to the
backend automatically, and snapshots of the whole draft can be saved as
named versions and restored later.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".draftdesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")
}
