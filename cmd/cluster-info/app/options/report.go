package options

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/node"
	"github.com/neutree-ai/cluster-info/internal/report"
)

// NoListing disables the node listing.
const NoListing = "no"

// ListingOptions control the node listing.
type ListingOptions struct {
	State        cluster.StateFilter
	Type         cluster.NodeType
	TopN         int
	NodeList     string
	FreePriority node.Priority
}

func NewListingOptions() *ListingOptions {
	return &ListingOptions{
		State:        cluster.StateOnline,
		Type:         cluster.TypeAll,
		NodeList:     string(cluster.SortSize),
		FreePriority: node.PriorityCPU,
	}
}

func (o *ListingOptions) AddFlags(fs *pflag.FlagSet) {
	fs.Var(&o.State, "show-node-state", "node state to show: online, offline, all")
	fs.Var(&o.Type, "show-node-type", "node type to show: cpu, gpu, all")
	fs.IntVar(&o.TopN, "show-first-n", o.TopN, "show only the first N nodes of the listing, 0 for all")
	fs.StringVar(&o.NodeList, "node-list", o.NodeList, "sort the node listing by name, size (cpu/mem/gpu), free resources or none, 'no' to skip it")
	fs.Var(&o.FreePriority, "free-priority", fmt.Sprintf("resource ranked first when sorting by free resources: %v", node.Priorities()))
}

func (o *ListingOptions) Validate() error {
	if o.TopN < 0 {
		return errors.New("--show-first-n must not be negative")
	}

	if o.NodeList == NoListing {
		return nil
	}

	if _, err := cluster.ParseSortOrder(o.NodeList); err != nil {
		return errors.Wrap(err, "invalid --node-list")
	}

	return nil
}

// ListOptions returns nil when the listing is disabled.
func (o *ListingOptions) ListOptions() *cluster.ListOptions {
	if o.NodeList == NoListing {
		return nil
	}

	return &cluster.ListOptions{
		Type:     o.Type,
		State:    o.State,
		Sort:     cluster.SortOrder(o.NodeList),
		Priority: o.FreePriority,
		TopN:     o.TopN,
	}
}

// SummaryOptions select the summary sections.
type SummaryOptions struct {
	ClusterInfo    bool
	QueueResources string
}

func NewSummaryOptions() *SummaryOptions {
	return &SummaryOptions{}
}

func (o *SummaryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.ClusterInfo, "cluster-info", o.ClusterInfo, "print the cluster summary")
	fs.StringVar(&o.QueueResources, "queue-resources", o.QueueResources, "print per-queue statistics of machine or free resources")
}

func (o *SummaryOptions) Validate() error {
	if o.QueueResources == "" {
		return nil
	}

	if _, err := cluster.ParseResourceKind(o.QueueResources); err != nil {
		return errors.Wrap(err, "invalid --queue-resources")
	}

	return nil
}

type OutputOptions struct {
	Format report.Format
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{Format: report.FormatText}
}

func (o *OutputOptions) AddFlags(fs *pflag.FlagSet) {
	fs.VarP(&o.Format, "output", "o", "output format: text, table, json, yaml")
}
