package config

import (
	"time"

	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/internal/report"
)

// InventoryConfig says where the node inventory comes from.
type InventoryConfig struct {
	Source      inventory.Source
	LoadOptions inventory.LoadOptions
	// SchedulerVersion is a version constraint checked against the inventory, empty to skip.
	SchedulerVersion string
}

type ClusterConfig struct {
	Name     string
	Options  []cluster.Option
	Location *time.Location
}

// Config is everything one report run needs.
type Config struct {
	Inventory   InventoryConfig
	Cluster     ClusterConfig
	Report      report.Options
	Format      report.Format
	Diagnostics *diagnostics.Recorder
}
