// Package state reduces PBS node state expressions such as "down,offline" or
// "job-busy" to a single NodeState.
package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// NodeState is the bucket a node's raw scheduler state resolves to.
type NodeState int

const (
	Online NodeState = iota
	Offline
	Invalid
	Various
)

var stateNames = map[NodeState]string{
	Online:  "online",
	Offline: "offline",
	Invalid: "invalid",
	Various: "various",
}

func (s NodeState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("NodeState(%d)", int(s))
}

func (s NodeState) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, errors.Errorf("unknown node state %d", int(s))
	}

	return []byte(name), nil
}

func (s *NodeState) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}

	return errors.Errorf("unknown node state %q", string(text))
}

// lexicon maps cleaned pbsnodes state tokens to their bucket.
var lexicon = map[string]NodeState{
	"online":        Online,
	"free":          Online,
	"jobbusy":       Online,
	"busy":          Online,
	"jobexclusive":  Online,
	"jobsharing":    Online,
	"resvexclusive": Online,

	"offline":          Offline,
	"down":             Offline,
	"unknown":          Offline,
	"stateunknown":     Offline,
	"stale":            Offline,
	"unresolvable":     Offline,
	"sleep":            Offline,
	"maintenance":      Offline,
	"provisioning":     Offline,
	"waitprovisioning": Offline,

	"invalid": Invalid,

	"various": Various,
}

// Finding explains why a state expression did not resolve cleanly.
type Finding struct {
	Expression string
	Reason     string
}

func (f *Finding) String() string {
	return fmt.Sprintf("%s node state: %s", f.Reason, f.Expression)
}

// Classify resolves a comma separated state expression to exactly one NodeState.
// A non-nil Finding is returned when the expression was ambiguous, undefined or
// unknown; the returned state is still valid in that case.
func Classify(expr string) (NodeState, *Finding) {
	buckets := map[NodeState]struct{}{}

	var unknown []string

	for _, raw := range strings.Split(expr, ",") {
		tok := cleanToken(raw)
		if tok == "" {
			continue
		}

		st, ok := lexicon[tok]
		if !ok {
			unknown = append(unknown, tok)
			st = Invalid
		}

		buckets[st] = struct{}{}
	}

	switch {
	case len(unknown) > 0:
		sort.Strings(unknown)
		return Invalid, &Finding{Expression: expr, Reason: "unknown (" + strings.Join(unknown, ",") + ")"}
	case len(buckets) == 0:
		return Invalid, &Finding{Expression: expr, Reason: "empty"}
	case len(buckets) > 1:
		return Invalid, &Finding{Expression: expr, Reason: "invalid"}
	}

	for st := range buckets {
		if st == Various {
			return Various, &Finding{Expression: expr, Reason: "undefined"}
		}

		return st, nil
	}

	return Invalid, nil
}

// cleanToken strips whitespace, angle bracket decoration and hyphens, so that
// "<job-busy>" becomes "jobbusy".
func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.Trim(tok, "<>")
	tok = strings.ReplaceAll(tok, "-", "")

	return strings.ToLower(strings.TrimSpace(tok))
}
