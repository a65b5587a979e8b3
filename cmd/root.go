package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/playdeck/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "playdeck",
	Short: "Interactive learning activities served to the browser",
	Long: `playdeck hosts a course of interactive activities (matching pairs,
flashcards, ordering, sorting, fill in the blank, sound matching, mazes,
mixed challenges and certificates). Activity state lives on the server;
learners play in the browser over a WebSocket and their progress and
badges are kept per learner.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
