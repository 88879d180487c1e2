package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/options"
	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/report"
)

func NewClusterInfoCommand() *cobra.Command {
	opts := options.NewOptions()

	clusterInfoCmd := &cobra.Command{
		Use:   "cluster-info",
		Short: "Print status summaries for a PBS cluster or its nodes",
		Long: `cluster-info reads the node inventory of a PBS scheduler, by running
'pbsnodes -a -F json' or from a saved dump, and reports node capacity, load and state.

Examples:
  # List online nodes, largest first
  cluster-info

  # Read a saved dump, list all nodes by name and add the cluster summary
  cluster-info -i nodes.json --show-node-state all --node-list name --cluster-info

  # Nodes with the most free GPUs
  cluster-info --node-list free --free-priority gpu --show-node-type gpu

  # Per-queue statistics of free resources, no node listing
  cluster-info --node-list no --queue-resources free`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveFlags(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, opts.ReportOptions)
		},
	}

	opts.AddFlags(clusterInfoCmd.PersistentFlags())
	opts.Listing.AddFlags(clusterInfoCmd.Flags())
	opts.Summary.AddFlags(clusterInfoCmd.Flags())
	clusterInfoCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	clusterInfoCmd.AddCommand(newNodesCmd(opts))
	clusterInfoCmd.AddCommand(newSummaryCmd(opts))
	clusterInfoCmd.AddCommand(newQueuesCmd(opts))
	clusterInfoCmd.AddCommand(newVersionCmd(opts))

	return clusterInfoCmd
}

func newNodesCmd(opts *options.ClusterInfoOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, func() report.Options {
				return report.Options{List: opts.Listing.ListOptions()}
			})
		},
	}

	opts.Listing.AddFlags(cmd.Flags())

	return cmd
}

func newSummaryCmd(opts *options.ClusterInfoOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print node counts and capacity of the whole cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, func() report.Options {
				return report.Options{Summary: true}
			})
		},
	}
}

func newQueuesCmd(opts *options.ClusterInfoOptions) *cobra.Command {
	kind := cluster.ResourceMachine

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Print per-queue resource statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, func() report.Options {
				return report.Options{Queues: &report.QueueOptions{
					State: opts.Listing.State,
					Kind:  kind,
				}}
			})
		},
	}

	cmd.Flags().Var(&opts.Listing.State, "show-node-state", "node state to include: online, offline, all")
	cmd.Flags().Var(&kind, "queue-resources", "summarize machine or free resources")

	return cmd
}

func Execute() {
	if err := NewClusterInfoCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
