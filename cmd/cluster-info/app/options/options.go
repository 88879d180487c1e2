package options

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/config"
	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/report"
)

// ClusterInfoOptions are the options shared by every report command.
type ClusterInfoOptions struct {
	ConfigFile string
	Inventory  *InventoryOptions
	Cluster    *ClusterOptions
	Listing    *ListingOptions
	Summary    *SummaryOptions
	Output     *OutputOptions
}

func NewOptions() *ClusterInfoOptions {
	return &ClusterInfoOptions{
		Inventory: NewInventoryOptions(),
		Cluster:   NewClusterOptions(),
		Listing:   NewListingOptions(),
		Summary:   NewSummaryOptions(),
		Output:    NewOutputOptions(),
	}
}

// AddFlags registers the flags every command accepts.
func (o *ClusterInfoOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "YAML file with flag defaults (default "+DefaultConfigFile()+")")
	o.Inventory.AddFlags(fs)
	o.Cluster.AddFlags(fs)
	o.Output.AddFlags(fs)
}

func (o *ClusterInfoOptions) Validate() error {
	if err := o.Inventory.Validate(); err != nil {
		return err
	}

	if err := o.Cluster.Validate(); err != nil {
		return err
	}

	if err := o.Listing.Validate(); err != nil {
		return err
	}

	return o.Summary.Validate()
}

// Config resolves the options into a run configuration. The report sections are
// chosen by the caller.
func (o *ClusterInfoOptions) Config(sections report.Options) (*config.Config, error) {
	rec := diagnostics.NewRecorder()

	inv, err := o.Inventory.Config(os.Stdin)
	if err != nil {
		return nil, err
	}

	cl, err := o.Cluster.Config(rec)
	if err != nil {
		return nil, err
	}

	return &config.Config{
		Inventory:   inv,
		Cluster:     cl,
		Report:      sections,
		Format:      o.Output.Format,
		Diagnostics: rec,
	}, nil
}

// ReportOptions returns the sections of the combined report.
func (o *ClusterInfoOptions) ReportOptions() report.Options {
	opts := report.Options{
		List:    o.Listing.ListOptions(),
		Summary: o.Summary.ClusterInfo,
	}

	if o.Summary.QueueResources != "" {
		opts.Queues = &report.QueueOptions{
			State: o.Listing.State,
			Kind:  o.QueueKind(),
		}
	}

	return opts
}

// QueueKind is the capacity the queue summary is computed over, machine unless set.
func (o *ClusterInfoOptions) QueueKind() cluster.ResourceKind {
	kind, err := cluster.ParseResourceKind(o.Summary.QueueResources)
	if err != nil {
		return cluster.ResourceMachine
	}

	return kind
}
