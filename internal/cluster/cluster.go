// Package cluster assembles the nodes of one inventory snapshot and derives listings and
// summaries from them.
package cluster

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/internal/node"
)

// Cluster is one inventory snapshot. It owns its nodes and is not modified after New.
type Cluster struct {
	name       string
	inferred   bool
	pbsVersion string
	pbsServer  string
	timestamp  time.Time
	nodes      []*node.Node
}

type options struct {
	correctSMT bool
	rand       *rand.Rand
	sink       diagnostics.Sink
	clock      clock.PassiveClock
	location   *time.Location
}

// Option configures how a Cluster is built.
type Option func(*options)

// WithCorrectSMT halves the core counts of every node.
func WithCorrectSMT(correct bool) Option {
	return func(o *options) {
		o.correctSMT = correct
	}
}

// WithRand sets the random source used for name inference.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

func WithDiagnostics(sink diagnostics.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithClock sets the clock consulted when the snapshot carries no usable timestamp.
func WithClock(c clock.PassiveClock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLocation sets the zone timestamps are reported in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// New builds the cluster described by doc. The name InferName asks for the name to be
// guessed from the node names.
func New(name string, doc *inventory.Document, opts ...Option) (*Cluster, error) {
	o := &options{
		sink:     diagnostics.Discard,
		clock:    clock.RealClock{},
		location: time.Local,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := &Cluster{
		name:       name,
		pbsVersion: doc.PBSVersion,
		pbsServer:  doc.PBSServer,
		nodes:      make([]*node.Node, 0, len(doc.Nodes)),
	}

	ts, ok := doc.SnapshotTime()
	if !ok {
		klog.V(4).Info("inventory carries no usable timestamp, using the current time")
		ts = o.clock.Now()
	}

	c.timestamp = ts.In(o.location)

	for _, raw := range doc.Nodes {
		n, err := node.New(raw.Name, raw.RawNode, node.Options{
			CorrectSMT:  o.correctSMT,
			Diagnostics: o.sink,
			Location:    o.location,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build node %s", raw.Name)
		}

		c.nodes = append(c.nodes, n)
	}

	if name == InferName {
		c.name = inferName(doc.Nodes.Names(), o.rand, o.sink)
		c.inferred = true
	}

	klog.V(4).Infof("cluster %s: %d nodes at %s", c.name, len(c.nodes), c.timestamp.Format(TimeLayout))

	return c, nil
}

func (c *Cluster) Name() string {
	return c.name
}

// NameInferred reports whether the name was guessed from the node names.
func (c *Cluster) NameInferred() bool {
	return c.inferred
}

func (c *Cluster) PBSVersion() string {
	return c.pbsVersion
}

func (c *Cluster) PBSServer() string {
	return c.pbsServer
}

func (c *Cluster) Timestamp() time.Time {
	return c.timestamp
}

// Nodes returns the nodes in inventory order.
func (c *Cluster) Nodes() []*node.Node {
	return slices.Clone(c.nodes)
}

// TimeLayout is how report timestamps are printed.
const TimeLayout = "2006-01-02T15:04:05"
