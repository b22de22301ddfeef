package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evalf/runview/config"
	"github.com/evalf/runview/internal/view"
)

func newWatchCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "watch <url-or-dir>",
		Short: "Live view of a running job's log and plots",
		Long:  "Attaches to a run served over HTTP (a base URL holding log.data and progress.json) or written to a local directory, and follows it until the job finishes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if statePath == "" {
				statePath = defaultStatePath()
			}
			session := view.NewSession(args[0], cfg)
			return view.Run(context.Background(), session, cfg, statePath)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "view state file (default next to the config)")

	return cmd
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "runview", "state.json")
}
