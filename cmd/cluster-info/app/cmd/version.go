package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/options"
	"github.com/neutree-ai/cluster-info/internal/report"
	"github.com/neutree-ai/cluster-info/internal/version"
)

func newVersionCmd(opts *options.ClusterInfoOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, git commit, build time, and other build information for cluster-info`,
		Args:  cobra.NoArgs,
		// no inventory is read
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			if opts.Output.Format == report.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}
}
