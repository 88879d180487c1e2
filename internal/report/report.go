// Package report renders cluster listings and summaries.
package report

import (
	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/node"
)

// Report is everything one run prints. Nil sections are skipped.
type Report struct {
	Cluster  string                `json:"cluster"`
	Nodes    []node.View           `json:"nodes,omitempty"`
	Summary  *cluster.Summary      `json:"summary,omitempty"`
	Queues   *QueueReport          `json:"queue_resources,omitempty"`
	Warnings []diagnostics.Warning `json:"warnings,omitempty"`
}

// QueueReport is the per-queue statistics section.
type QueueReport struct {
	Cluster string               `json:"cluster"`
	Kind    cluster.ResourceKind `json:"kind"`
	Queues  []cluster.QueueStats `json:"queues"`
}

// QueueOptions select the nodes and capacity behind a QueueReport.
type QueueOptions struct {
	State cluster.StateFilter
	Kind  cluster.ResourceKind
}

// Options select the sections of a report.
type Options struct {
	// List, when set, adds a node listing.
	List *cluster.ListOptions
	// Summary adds the cluster summary.
	Summary bool
	// Queues, when set, adds per-queue statistics.
	Queues *QueueOptions
}

// Build derives the requested sections from c.
func Build(c *cluster.Cluster, opts Options) (*Report, error) {
	r := &Report{Cluster: c.Name()}

	if opts.List != nil {
		nodes, err := c.List(*opts.List)
		if err != nil {
			return nil, err
		}

		r.Nodes = NodeViews(nodes)
	}

	if opts.Summary {
		s := c.Summary()
		r.Summary = &s
	}

	if opts.Queues != nil {
		queues, err := c.QueueSummary(opts.Queues.State, opts.Queues.Kind)
		if err != nil {
			return nil, err
		}

		r.Queues = &QueueReport{
			Cluster: c.Name(),
			Kind:    opts.Queues.Kind,
			Queues:  queues,
		}
	}

	return r, nil
}

func NodeViews(nodes []*node.Node) []node.View {
	views := make([]node.View, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, n.View())
	}

	return views
}
