package cmd

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/config"
	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/options"
	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/internal/report"
)

// resolveFlags fills unset flags from the environment, then from the defaults file.
func resolveFlags(cmd *cobra.Command, opts *options.ClusterInfoOptions) error {
	if err := options.ResolveEnv(cmd.Flags()); err != nil {
		return err
	}

	return options.ApplyDefaultsFile(cmd.Flags(), opts.ConfigFile)
}

// runReport validates opts and prints the report sections chosen by sections.
func runReport(cmd *cobra.Command, opts *options.ClusterInfoOptions, sections func() report.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, err := opts.Config(sections())
	if err != nil {
		return err
	}

	return run(cmd.Context(), cfg, cmd.OutOrStdout())
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	printer, err := report.NewPrinter(out, cfg.Format)
	if err != nil {
		return err
	}

	doc, err := inventory.Load(ctx, cfg.Inventory.Source, cfg.Inventory.LoadOptions)
	if err != nil {
		return err
	}

	inventory.CheckSchedulerVersion(doc, cfg.Inventory.SchedulerVersion, cfg.Diagnostics)

	c, err := cluster.New(cfg.Cluster.Name, doc, cfg.Cluster.Options...)
	if err != nil {
		return errors.Wrap(err, "failed to read node inventory")
	}

	r, err := report.Build(c, cfg.Report)
	if err != nil {
		return err
	}

	r.Warnings = cfg.Diagnostics.Warnings()

	klog.V(4).Infof("rendering report for cluster %s with %d warnings", c.Name(), len(r.Warnings))

	return printer.Print(r)
}
