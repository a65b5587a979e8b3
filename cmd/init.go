package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize playdeck configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point playdeck at your course content and generates a .playdeck.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
