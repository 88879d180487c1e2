// Package node models one scheduler node: its capacity, allocation, load and state.
package node

import (
	"encoding/json"
	"math"
	"slices"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/errdefs"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/internal/resource"
	"github.com/neutree-ai/cluster-info/internal/state"
	"github.com/neutree-ai/cluster-info/internal/units"
)

// UnknownScheduler is reported when a node carries no ntype.
const UnknownScheduler = "unknown"

const (
	// below these a node cannot take another job
	minFreeCores  = 1
	minFreeMemory = 2
)

type Options struct {
	// CorrectSMT halves reported core counts.
	CorrectSMT bool
	// Diagnostics receives state warnings; nil discards them.
	Diagnostics diagnostics.Sink
	// Location is the zone node timestamps are reported in; nil means local time.
	Location *time.Location
}

// Node is immutable once built by New.
type Node struct {
	name            string
	scheduler       string
	state           state.NodeState
	class           resource.Class
	queues          sets.Set[string]
	machine         resource.Record
	used            resource.Record
	remaining       resource.Record
	load            float64
	jobs            []string
	lastUsed        time.Time
	lastStateChange time.Time
}

// New builds the node listed as name from its raw inventory record.
func New(name string, raw inventory.RawNode, opts Options) (*Node, error) {
	sink := opts.Diagnostics
	if sink == nil {
		sink = diagnostics.Discard
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	machine, err := resource.Parse(name, raw.ResourcesAvailable, resource.ParseOptions{
		CorrectSMT: opts.CorrectSMT,
		Machine:    true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse available resources")
	}

	used, err := resource.Parse(name, raw.ResourcesAssigned, resource.ParseOptions{
		CorrectSMT: opts.CorrectSMT,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse assigned resources")
	}

	n := &Node{
		name:            name,
		scheduler:       raw.NType,
		class:           resource.ClassCPU,
		queues:          machine.Queues.Union(used.Queues),
		machine:         machine.Record,
		used:            used.Record,
		jobs:            slices.Sorted(slices.Values(raw.Jobs)),
		lastUsed:        raw.LastUsed().In(loc),
		lastStateChange: raw.LastStateChange().In(loc),
	}

	if n.scheduler == "" {
		n.scheduler = UnknownScheduler
	}

	if machine.Class == resource.ClassGPU || used.Class == resource.ClassGPU {
		n.class = resource.ClassGPU
	}

	st, finding := state.Classify(raw.State)
	if finding != nil {
		kind := diagnostics.AmbiguousState
		if st == state.Various {
			kind = diagnostics.UndefinedState
		}

		sink.Warn(diagnostics.Warning{Kind: kind, Subject: name, Message: finding.String()})
	}

	n.state = st

	if err := n.estimateLoad(); err != nil {
		return nil, err
	}

	klog.V(5).Infof("node %s: state %s, class %s, load %.2f", name, n.state, n.class, n.load)

	return n, nil
}

// estimateLoad derives the remaining resources and the load estimate, the mean
// utilization over the dimensions the node has capacity in.
func (n *Node) estimateLoad() error {
	var ratios []float64

	for _, key := range resource.NumericKeys {
		capacity, _ := n.machine.Get(key)
		used, _ := n.used.Get(key)

		n.remaining.Set(key, max(0, capacity-used))

		if capacity == 0 {
			if n.class == resource.ClassGPU {
				return errdefs.Consistencyf("gpu node %s has no %s", n.name, key)
			}

			continue
		}

		ratios = append(ratios, math.Min(1, math.Max(0, float64(used)/float64(capacity))))
	}

	if len(ratios) == 0 {
		n.load = 0
		return nil
	}

	var sum float64
	for _, r := range ratios {
		sum += r
	}

	n.load = units.Round(sum/float64(len(ratios)), 2)

	return nil
}

func (n *Node) Name() string {
	return n.name
}

// Scheduler is the ntype tag the scheduler assigned to the node.
func (n *Node) Scheduler() string {
	return n.scheduler
}

func (n *Node) State() state.NodeState {
	return n.state
}

func (n *Node) Class() resource.Class {
	return n.class
}

// Queues returns the queues the node serves in lexicographic order.
func (n *Node) Queues() []string {
	return sets.List(n.queues)
}

// InQueue reports whether the node serves queue q.
func (n *Node) InQueue(q string) bool {
	return n.queues.Has(q)
}

func (n *Node) MachineResources() resource.Record {
	return n.machine.Clone()
}

func (n *Node) UsedResources() resource.Record {
	return n.used.Clone()
}

func (n *Node) RemainingResources() resource.Record {
	return n.remaining.Clone()
}

// Load is the load estimate in [0,1], rounded to two decimals.
func (n *Node) Load() float64 {
	return n.load
}

func (n *Node) Jobs() []string {
	return slices.Clone(n.jobs)
}

func (n *Node) LastUsed() time.Time {
	return n.lastUsed
}

func (n *Node) LastStateChange() time.Time {
	return n.lastStateChange
}

// Machine returns the total capacity as (cores, memory, boards).
func (n *Node) Machine() Triple {
	return Triple{n.machine.Cores(), n.machine.Memory(), n.machine.Boards()}
}

// Free returns the remaining capacity ordered by priority:
// cpu (cores, memory, boards), gpu (boards, memory, cores), mem (memory, cores, boards).
// Nodes with less than one free core or two free GiB are Starved under every priority.
func (n *Node) Free(p Priority) Triple {
	cores, mem, boards := n.remaining.Cores(), n.remaining.Memory(), n.remaining.Boards()

	if cores < minFreeCores || mem < minFreeMemory {
		return Starved
	}

	switch p {
	case PriorityGPU:
		return Triple{boards, mem, cores}
	case PriorityMem:
		return Triple{mem, cores, boards}
	default:
		return Triple{cores, mem, boards}
	}
}

// SameSize reports whether both nodes have the same cores, memory and boards.
func (n *Node) SameSize(o *Node) bool {
	return n.Machine() == o.Machine()
}

// Smaller reports whether n has fewer cores, or less memory and no more boards, than o.
// Smaller and Larger are not complements and not transitive for every input.
func (n *Node) Smaller(o *Node) bool {
	a, b := n.Machine(), o.Machine()
	return a[0] < b[0] || (a[1] < b[1] && a[2] <= b[2])
}

// Larger mirrors Smaller.
func (n *Node) Larger(o *Node) bool {
	a, b := n.Machine(), o.Machine()
	return a[0] > b[0] || (a[1] > b[1] && a[2] >= b[2])
}

// View is the serialized form of a node.
type View struct {
	Name            string          `json:"name"`
	Scheduler       string          `json:"scheduler"`
	State           state.NodeState `json:"state"`
	Class           resource.Class  `json:"class"`
	Queues          []string        `json:"queues"`
	Load            float64         `json:"load_estimate"`
	Machine         resource.Record `json:"machine"`
	Used            resource.Record `json:"used"`
	Remaining       resource.Record `json:"remaining"`
	Jobs            []string        `json:"jobs"`
	LastUsed        time.Time       `json:"last_used"`
	LastStateChange time.Time       `json:"last_state_change"`
}

func (n *Node) View() View {
	return View{
		Name:            n.name,
		Scheduler:       n.scheduler,
		State:           n.state,
		Class:           n.class,
		Queues:          n.Queues(),
		Load:            n.load,
		Machine:         n.MachineResources(),
		Used:            n.UsedResources(),
		Remaining:       n.RemainingResources(),
		Jobs:            n.Jobs(),
		LastUsed:        n.lastUsed,
		LastStateChange: n.lastStateChange,
	}
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.View())
}
