package cluster

import (
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/neutree-ai/cluster-info/internal/node"
)

// ListOptions select and order the nodes of a listing. Zero values mean all nodes in
// inventory order.
type ListOptions struct {
	Type     NodeType
	State    StateFilter
	Sort     SortOrder
	Priority node.Priority
	// TopN caps the listing, 0 means no cap.
	TopN int
}

// List filters and orders the nodes. Size and free orders are descending and keep
// inventory order between equal nodes.
func (c *Cluster) List(opts ListOptions) ([]*node.Node, error) {
	if opts.TopN < 0 {
		return nil, errors.Errorf("invalid node count %d, must not be negative", opts.TopN)
	}

	var err error

	if opts.Type == "" {
		opts.Type = TypeAll
	}

	if opts.State == "" {
		opts.State = StateAll
	}

	if opts.Sort == "" {
		opts.Sort = SortNone
	}

	if opts.Priority == "" {
		opts.Priority = node.PriorityCPU
	}

	if opts.Type, err = ParseNodeType(string(opts.Type)); err != nil {
		return nil, err
	}

	if opts.State, err = ParseStateFilter(string(opts.State)); err != nil {
		return nil, err
	}

	if opts.Sort, err = ParseSortOrder(string(opts.Sort)); err != nil {
		return nil, err
	}

	if opts.Priority, err = node.ParsePriority(string(opts.Priority)); err != nil {
		return nil, err
	}

	out := make([]*node.Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		if opts.Type.Match(n.Class()) && opts.State.Match(n.State()) {
			out = append(out, n)
		}
	}

	switch opts.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b *node.Node) int {
			return strings.Compare(a.Name(), b.Name())
		})
	case SortSize:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].Smaller(out[i])
		})
	case SortFree:
		slices.SortStableFunc(out, func(a, b *node.Node) int {
			return b.Free(opts.Priority).Compare(a.Free(opts.Priority))
		})
	}

	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}

	return out, nil
}
