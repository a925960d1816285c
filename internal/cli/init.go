package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lectern/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and data directories",
		Long: `Init writes a default config.yaml when none exists and opens the configured
backend once, creating the data directory or database it needs.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := map[string]string{
				"config":  paths.ConfigFile(a.configDir),
				"data":    a.dataDir,
				"backend": a.handle.Backend,
			}
			return a.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "lectern initialized\n  config:  %s\n  data:    %s\n  backend: %s\n",
					res["config"], res["data"], res["backend"])
				return err
			})
		},
	}
}
