package cluster

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/neutree-ai/cluster-info/internal/resource"
	"github.com/neutree-ai/cluster-info/internal/state"
)

// NodeType filters nodes by class.
type NodeType string

const (
	TypeAll NodeType = "all"
	TypeCPU NodeType = "cpu"
	TypeGPU NodeType = "gpu"
)

// StateFilter filters nodes by state bucket.
type StateFilter string

const (
	StateAll     StateFilter = "all"
	StateOnline  StateFilter = "online"
	StateOffline StateFilter = "offline"
)

// SortOrder selects how a listing is ordered.
type SortOrder string

const (
	SortName SortOrder = "name"
	SortSize SortOrder = "size"
	SortFree SortOrder = "free"
	SortNone SortOrder = "none"
)

// ResourceKind selects which triple feeds a queue summary.
type ResourceKind string

const (
	ResourceMachine ResourceKind = "machine"
	ResourceFree    ResourceKind = "free"
)

var (
	nodeTypes     = []NodeType{TypeAll, TypeCPU, TypeGPU}
	stateFilters  = []StateFilter{StateAll, StateOnline, StateOffline}
	sortOrders    = []SortOrder{SortName, SortSize, SortFree, SortNone}
	resourceKinds = []ResourceKind{ResourceMachine, ResourceFree}
)

func parseEnum[T ~string](what, s string, valid []T) (T, error) {
	for _, v := range valid {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}

	names := make([]string, 0, len(valid))
	for _, v := range valid {
		names = append(names, string(v))
	}

	var zero T

	return zero, errors.Errorf("invalid %s %q, must be one of %s", what, s, strings.Join(names, ", "))
}

func ParseNodeType(s string) (NodeType, error) {
	return parseEnum("node type", s, nodeTypes)
}

func (t NodeType) String() string { return string(t) }

func (t *NodeType) Set(s string) error {
	v, err := ParseNodeType(s)
	if err == nil {
		*t = v
	}

	return err
}

func (t *NodeType) Type() string { return "nodetype" }

// Match reports whether a node of class c passes the filter.
func (t NodeType) Match(c resource.Class) bool {
	switch t {
	case TypeCPU:
		return c == resource.ClassCPU
	case TypeGPU:
		return c == resource.ClassGPU
	default:
		return true
	}
}

func ParseStateFilter(s string) (StateFilter, error) {
	return parseEnum("node state", s, stateFilters)
}

func (f StateFilter) String() string { return string(f) }

func (f *StateFilter) Set(s string) error {
	v, err := ParseStateFilter(s)
	if err == nil {
		*f = v
	}

	return err
}

func (f *StateFilter) Type() string { return "state" }

// Match reports whether a node in state st passes the filter.
func (f StateFilter) Match(st state.NodeState) bool {
	switch f {
	case StateOnline:
		return st == state.Online
	case StateOffline:
		return st == state.Offline
	default:
		return true
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	return parseEnum("sort order", s, sortOrders)
}

func (o SortOrder) String() string { return string(o) }

func (o *SortOrder) Set(s string) error {
	v, err := ParseSortOrder(s)
	if err == nil {
		*o = v
	}

	return err
}

func (o *SortOrder) Type() string { return "order" }

func ParseResourceKind(s string) (ResourceKind, error) {
	return parseEnum("resource kind", s, resourceKinds)
}

func (k ResourceKind) String() string { return string(k) }

func (k *ResourceKind) Set(s string) error {
	v, err := ParseResourceKind(s)
	if err == nil {
		*k = v
	}

	return err
}

func (k *ResourceKind) Type() string { return "kind" }
