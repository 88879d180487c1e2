package cluster

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/neutree-ai/cluster-info/internal/node"
	"github.com/neutree-ai/cluster-info/internal/resource"
	"github.com/neutree-ai/cluster-info/internal/state"
	"github.com/neutree-ai/cluster-info/internal/stats"
	"github.com/neutree-ai/cluster-info/internal/units"
)

// Count is a cluster-wide total and the share of it that is online.
type Count struct {
	Total   int     `json:"total"`
	Online  int     `json:"online"`
	Percent float64 `json:"online_percent"`
}

func (c *Count) add(v int, online bool) {
	c.Total += v
	if online {
		c.Online += v
	}
}

// Summary aggregates the machine capacity of the whole cluster.
type Summary struct {
	Name       string    `json:"name"`
	PBSVersion string    `json:"pbs_version"`
	PBSServer  string    `json:"pbs_server"`
	Timestamp  time.Time `json:"timestamp"`
	Nodes      Count     `json:"nodes"`
	CPUNodes   Count     `json:"cpu_nodes"`
	GPUNodes   Count     `json:"gpu_nodes"`
	Cores      Count     `json:"cpu_cores"`
	Memory     Count     `json:"memory_gb"`
	Boards     Count     `json:"gpu_boards"`
}

// Summary counts nodes and capacity. Percentages are rounded to one decimal and are 0
// when there is nothing to count.
func (c *Cluster) Summary() Summary {
	s := Summary{
		Name:       c.name,
		PBSVersion: c.pbsVersion,
		PBSServer:  c.pbsServer,
		Timestamp:  c.timestamp,
	}

	for _, n := range c.nodes {
		online := n.State() == state.Online
		m := n.Machine()

		s.Nodes.add(1, online)

		if n.Class() == resource.ClassGPU {
			s.GPUNodes.add(1, online)
		} else {
			s.CPUNodes.add(1, online)
		}

		s.Cores.add(m[0], online)
		s.Memory.add(m[1], online)
		s.Boards.add(m[2], online)
	}

	for _, cnt := range []*Count{&s.Nodes, &s.CPUNodes, &s.GPUNodes, &s.Cores, &s.Memory, &s.Boards} {
		cnt.Percent = percent(cnt.Online, cnt.Total)
	}

	return s
}

func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return units.Round(float64(num)/float64(den)*100, 1)
}

// QueueStats summarizes the nodes serving one queue.
type QueueStats struct {
	Queue  string    `json:"queue"`
	Nodes  int       `json:"nodes"`
	Cores  stats.Set `json:"cpu_cores"`
	Memory stats.Set `json:"memory_gb"`
	Boards stats.Set `json:"gpu_boards"`
}

// QueueSummary computes per-queue statistics over the nodes passing filter, using their
// machine or free capacity. Queues are returned in lexicographic order. Free capacity
// counts starved nodes as -1 in every dimension.
func (c *Cluster) QueueSummary(filter StateFilter, kind ResourceKind) ([]QueueStats, error) {
	var err error

	if filter, err = ParseStateFilter(string(filter)); err != nil {
		return nil, err
	}

	if kind, err = ParseResourceKind(string(kind)); err != nil {
		return nil, err
	}

	samples := map[string]*[3][]int{}
	queues := sets.New[string]()

	for _, n := range c.nodes {
		if !filter.Match(n.State()) {
			continue
		}

		triple := n.Machine()
		if kind == ResourceFree {
			triple = n.Free(node.PriorityCPU)
		}

		for _, q := range n.Queues() {
			sample, ok := samples[q]
			if !ok {
				sample = &[3][]int{}
				samples[q] = sample
				queues.Insert(q)
			}

			for i := range triple {
				sample[i] = append(sample[i], triple[i])
			}
		}
	}

	out := make([]QueueStats, 0, queues.Len())

	for _, q := range sets.List(queues) {
		sample := samples[q]
		qs := QueueStats{Queue: q, Nodes: len(sample[0])}

		for i, dst := range []*stats.Set{&qs.Cores, &qs.Memory, &qs.Boards} {
			set, err := stats.Compute(sample[i])
			if err != nil {
				return nil, errors.Wrapf(err, "queue %s", q)
			}

			*dst = set
		}

		out = append(out, qs)
	}

	return out, nil
}
