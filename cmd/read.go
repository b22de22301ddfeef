package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evalf/runview/config"
	"github.com/evalf/runview/internal/stream"
	"github.com/evalf/runview/internal/theater"
	"github.com/evalf/runview/internal/view"
)

func newReadCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var loglevel int

	cmd := &cobra.Command{
		Use:   "read <url-or-path>",
		Short: "Decode a run log in one pass and print the context tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if loglevel < 0 || loglevel > 4 {
				return fmt.Errorf("loglevel %d out of range 0-4", loglevel)
			}

			_, tree, err := decodeAll(args[0], cfg)
			if err != nil {
				return err
			}

			st := view.NewState(loglevel)
			for _, row := range view.TreeRows(tree, st.Log, view.DefaultStyles()) {
				fmt.Fprintln(cmd.OutOrStdout(), row.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&loglevel, "loglevel", 3, "verbosity filter, 0 (error) to 4 (debug)")

	return cmd
}

// decodeAll reads the complete log stream from a URL, a log file or a run
// directory and decodes it in a single pass.
func decodeAll(source string, cfg config.Config) (*theater.Registry, *stream.Tree, error) {
	data, err := readSource(source)
	if err != nil {
		return nil, nil, err
	}
	reg := theater.NewRegistry()
	dec := stream.NewDecoder(reg, stream.NewSuffixes(cfg.ViewableSuffixes))
	if _, err := dec.Write(data); err != nil {
		return nil, nil, err
	}
	return reg, dec.Tree(), nil
}

func readSource(source string) ([]byte, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: %s", source, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		source = filepath.Join(source, view.LogName)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return data, nil
}
