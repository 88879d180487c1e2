// Package inventory decodes the node inventory printed by `pbsnodes -a -F json`.
package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/neutree-ai/cluster-info/internal/errdefs"
)

// Document is one inventory snapshot.
type Document struct {
	PBSVersion string          `json:"pbs_version"`
	PBSServer  string          `json:"pbs_server"`
	Timestamp  json.RawMessage `json:"timestamp,omitempty"`
	Nodes      Nodes           `json:"nodes"`
}

// SnapshotTime returns the snapshot time and false when the timestamp is absent or
// not a number of epoch seconds.
func (d *Document) SnapshotTime() (time.Time, bool) {
	return epochSeconds(d.Timestamp)
}

// RawNode is one node record as reported by the scheduler.
type RawNode struct {
	State               string          `json:"state"`
	NType               string          `json:"ntype,omitempty"`
	LastUsedTime        json.RawMessage `json:"last_used_time,omitempty"`
	LastStateChangeTime json.RawMessage `json:"last_state_change_time,omitempty"`
	Jobs                []string        `json:"jobs,omitempty"`
	ResourcesAvailable  map[string]any  `json:"resources_available,omitempty"`
	ResourcesAssigned   map[string]any  `json:"resources_assigned,omitempty"`
}

// LastUsed returns the last-used time, the Unix epoch when it was not reported.
func (n RawNode) LastUsed() time.Time {
	t, _ := epochSeconds(n.LastUsedTime)
	return t
}

// LastStateChange returns the last state change time, the Unix epoch when it was not reported.
func (n RawNode) LastStateChange() time.Time {
	t, _ := epochSeconds(n.LastStateChangeTime)
	return t
}

// NamedNode pairs a raw node with the name it is listed under.
type NamedNode struct {
	Name string
	RawNode
}

// Nodes keeps the nodes in document order; the scheduler lists them as a JSON object.
type Nodes []NamedNode

func (ns *Nodes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ns = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("nodes must be an object, got %v", tok)
	}

	seen := sets.New[string]()
	out := Nodes{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		name, ok := tok.(string)
		if !ok {
			return errors.Errorf("unexpected node key %v", tok)
		}

		if seen.Has(name) {
			return errors.Errorf("duplicate node %q", name)
		}

		seen.Insert(name)

		var raw RawNode
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "node %s", name)
		}

		out = append(out, NamedNode{Name: name, RawNode: raw})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*ns = out

	return nil
}

func (ns Nodes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, n := range ns {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(n.Name)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(n.RawNode)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Names returns the node names in document order.
func (ns Nodes) Names() []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Name)
	}

	return out
}

// Decode reads an inventory document. Malformed documents are format errors.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, errdefs.Formatf("failed to decode node inventory: %v", err)
	}

	return doc, nil
}

// Parse decodes an inventory document held in memory.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// epochSeconds reads a JSON number of seconds since the epoch. Anything else yields
// the epoch and false.
func epochSeconds(raw json.RawMessage) (time.Time, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return time.Unix(0, 0), false
	}

	secs, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Unix(0, 0), false
	}

	whole, frac := math.Modf(secs)

	return time.Unix(int64(whole), int64(frac*1e9)), true
}
