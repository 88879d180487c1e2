package options

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/config"
	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/diagnostics"
)

type ClusterOptions struct {
	Name       string
	CorrectSMT bool
	Seed       uint64
	Timezone   string
}

func NewClusterOptions() *ClusterOptions {
	return &ClusterOptions{
		Name:     cluster.InferName,
		Timezone: "Local",
	}
}

func (o *ClusterOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Name, "cluster-name", o.Name, "cluster name, 'infer' guesses it from the node names (env: CLUSTER_INFO_CLUSTER_NAME)")
	fs.BoolVar(&o.CorrectSMT, "correct-smt", o.CorrectSMT, "halve reported core counts on hosts with two hardware threads per core")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "seed for cluster name inference, 0 picks a random seed")
	fs.StringVar(&o.Timezone, "timezone", o.Timezone, "IANA zone report timestamps are printed in")
}

func (o *ClusterOptions) Validate() error {
	if o.Name == "" {
		return errors.New("--cluster-name must not be empty")
	}

	if _, err := time.LoadLocation(o.Timezone); err != nil {
		return errors.Wrapf(err, "invalid --timezone")
	}

	return nil
}

func (o *ClusterOptions) Config(sink diagnostics.Sink) (config.ClusterConfig, error) {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return config.ClusterConfig{}, errors.Wrapf(err, "invalid --timezone")
	}

	seed := o.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return config.ClusterConfig{
		Name:     o.Name,
		Location: loc,
		Options: []cluster.Option{
			cluster.WithCorrectSMT(o.CorrectSMT),
			cluster.WithRand(rand.New(rand.NewPCG(seed, seed))),
			cluster.WithDiagnostics(sink),
			cluster.WithLocation(loc),
		},
	}, nil
}
