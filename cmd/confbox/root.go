package main

import (
	"os"

	"github.com/spf13/cobra"
)

var envName string

var rootCmd = &cobra.Command{
	Use:          "confbox",
	Short:        "Conference session controller",
	Long:         "confbox joins a conference room and serves its session to browsers over a websocket.",
	SilenceUsage: true,
}

// Execute runs the root command; it is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "config environment, reads config/config.<env>.yaml (default $CONFIG_ENV or dev)")
	rootCmd.AddCommand(newServeCmd())
}
