package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alantheprice/exoshell/pkg/configuration"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exoshell",
	Short: "A boxed line editor for interactive command-line hosts",
	Long: `Exoshell draws a bordered prompt box at the bottom of the terminal and
keeps it there while the host program prints above it. Input is edited in
Line mode with a per-session history, forwarded byte for byte in Raw mode, or
routed through the leader key (Ctrl-\ by default) in Prefix mode.

Available commands:
  run      - Start an echo host inside the prompt box
  history  - Show or clear the ranked history of a session
  log      - Print the end of the log file
  version  - Print version information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is <user config dir>/exoshell/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)
}

// loadConfig reads the --config file, or the default location when unset.
func loadConfig() (*configuration.Config, error) {
	if configFile != "" {
		return configuration.LoadFrom(configFile)
	}
	return configuration.Load()
}
