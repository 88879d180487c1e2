package options

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/neutree-ai/cluster-info/cmd/cluster-info/app/config"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/pkg/command"
)

type InventoryOptions struct {
	NodeInfo         string
	PBSNodes         string
	PBSNodesTimeout  time.Duration
	Overrides        string
	SchedulerVersion string
}

func NewInventoryOptions() *InventoryOptions {
	return &InventoryOptions{
		PBSNodes:        inventory.DefaultPBSNodesCommand,
		PBSNodesTimeout: inventory.DefaultPBSNodesTimeout,
	}
}

func (o *InventoryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.NodeInfo, "node-info", "i", o.NodeInfo,
		"pbsnodes JSON dump to read instead of running pbsnodes, '-' for stdin, may be gzip compressed (env: CLUSTER_INFO_NODE_INFO)")
	fs.StringVar(&o.PBSNodes, "pbsnodes", o.PBSNodes, "pbsnodes command used when no --node-info is given")
	fs.DurationVar(&o.PBSNodesTimeout, "pbsnodes-timeout", o.PBSNodesTimeout, "timeout for the pbsnodes command, 0 for none")
	fs.StringVar(&o.Overrides, "overrides", o.Overrides, "JSON merge patch applied to the inventory before it is read")
	fs.StringVar(&o.SchedulerVersion, "scheduler-version", o.SchedulerVersion, "warn unless the scheduler version satisfies this constraint, e.g. '>= 19.1'")
}

func (o *InventoryOptions) Validate() error {
	if o.NodeInfo != "" && o.NodeInfo != "-" {
		if _, err := os.Stat(o.NodeInfo); err != nil {
			return errors.Wrap(err, "invalid --node-info")
		}
	}

	if o.PBSNodesTimeout < 0 {
		return errors.New("--pbsnodes-timeout must not be negative")
	}

	return nil
}

func (o *InventoryOptions) Config(stdin io.Reader) (config.InventoryConfig, error) {
	overrides, err := inventory.ReadOverrides(o.Overrides)
	if err != nil {
		return config.InventoryConfig{}, err
	}

	var src inventory.Source
	if o.NodeInfo != "" {
		src = &inventory.FileSource{Path: o.NodeInfo, Stdin: stdin}
	} else {
		src = inventory.NewPBSNodesSource(&command.OSExecutor{}, o.PBSNodes, o.PBSNodesTimeout)
	}

	return config.InventoryConfig{
		Source:           src,
		LoadOptions:      inventory.LoadOptions{Overrides: overrides},
		SchedulerVersion: o.SchedulerVersion,
	}, nil
}
