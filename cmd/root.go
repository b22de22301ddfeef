package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evalf/runview/config"
)

// NewRootCmd creates the root command for runview.
func NewRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "runview",
		Short:         "Terminal viewer for structured run logs",
		Long:          "runview tails the log stream of a long-running computational job, decodes it into a context tree with derived severities, and browses the plots the job produces.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(newWatchCmd(loadConfig))
	rootCmd.AddCommand(newReadCmd(loadConfig))
	rootCmd.AddCommand(newPlotsCmd(loadConfig))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
