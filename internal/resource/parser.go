package resource

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/cluster-info/internal/errdefs"
	"github.com/neutree-ai/cluster-info/internal/units"
)

// Raw resource keys as reported by pbsnodes.
const (
	rawAcceleratorModel = "accelerator_model"
	rawGPUID            = "gpu_id"
	rawArch             = "arch"
	rawHost             = "host"
	rawNCPUs            = "ncpus"
	rawNGPUs            = "ngpus"
	rawMem              = "mem"
)

const (
	// noAccelerator marks nodes without a discrete accelerator.
	noAccelerator = "none"
	// IntegratedGPU is the model recorded for nodes without a discrete accelerator.
	IntegratedGPU = "igpu"
	// arch is always "linux" on PBS, which says nothing about the microarchitecture
	uninformativeArch = "linux"
	UnknownArch       = "unknown"
)

type ParseOptions struct {
	// CorrectSMT halves the reported core count on hosts with two hardware threads per core.
	CorrectSMT bool
	// Machine marks a total-capacity resource set, which always carries the numeric keys.
	Machine bool
}

// Parsed is the result of reading one raw resource map.
type Parsed struct {
	Record Record
	// Class is ClassGPU when a discrete accelerator or GPU boards were reported.
	Class  Class
	Queues sets.Set[string]
}

// Parse reads a raw pbsnodes resource map of the node named nodeName. Unrecognized keys
// are ignored.
func Parse(nodeName string, raw map[string]any, opts ParseOptions) (*Parsed, error) {
	p := &Parsed{
		Class:  ClassCPU,
		Queues: sets.New[string](),
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if err := p.apply(nodeName, key, raw[key], opts); err != nil {
			return nil, err
		}
	}

	if opts.Machine {
		if p.Record.CPUCores == nil {
			p.Record.CPUCores = intPtr(0)
		}

		if p.Record.GPUBoards == nil {
			p.Record.GPUBoards = intPtr(0)
		}

		if p.Record.MemoryGB == nil {
			p.Record.MemoryGB = intPtr(0)
		}
	}

	if p.Record.Boards() > 0 {
		p.Class = ClassGPU
	}

	klog.V(5).Infof("node %s: parsed resources %v, class %s", nodeName, p.Record.Keys(), p.Class)

	return p, nil
}

func (p *Parsed) apply(nodeName, key string, rawValue any, opts ParseOptions) error {
	if !isQueueListKey(key) {
		switch key {
		case rawAcceleratorModel, rawGPUID, rawArch, rawHost, rawNCPUs, rawNGPUs, rawMem:
		default:
			klog.V(5).Infof("node %s: ignoring resource %s", nodeName, key)
			return nil
		}
	}

	text, err := normalize(rawValue)
	if err != nil {
		return errdefs.Formatf("node %s: resource %s = %v: %v", nodeName, key, rawValue, err)
	}

	switch {
	case key == rawAcceleratorModel || key == rawGPUID:
		model := text
		if text == noAccelerator {
			model = IntegratedGPU
		} else {
			p.Class = ClassGPU
		}

		p.Record.GPUModel = &model
	case key == rawArch:
		arch := text
		if arch == uninformativeArch {
			arch = UnknownArch
		}

		p.Record.CPUMicroarchitecture = &arch
	case key == rawHost:
		if !strings.EqualFold(text, nodeName) {
			return errdefs.Consistencyf("node %s reports host %q", nodeName, text)
		}
	case key == rawNCPUs:
		cores, err := strconv.Atoi(text)
		if err != nil {
			return errdefs.Formatf("node %s: resource %s = %q is not an integer", nodeName, key, text)
		}

		if opts.CorrectSMT {
			cores /= 2
		}

		p.Record.CPUCores = &cores
	case key == rawNGPUs:
		boards, err := strconv.Atoi(text)
		if err != nil {
			return errdefs.Formatf("node %s: resource %s = %q is not an integer", nodeName, key, text)
		}

		p.Record.GPUBoards = &boards
	case key == rawMem:
		mem, err := units.BluntGiB(text)
		if err != nil {
			return errors.Wrapf(err, "node %s", nodeName)
		}

		p.Record.MemoryGB = &mem
	case isQueueListKey(key):
		for _, q := range strings.Split(text, ",") {
			if q = strings.TrimSpace(q); q != "" {
				p.Queues.Insert(q)
			}
		}
	}

	return nil
}

func isQueueListKey(key string) bool {
	return strings.EqualFold(key, "qlist")
}

// normalize turns a raw resource value into trimmed lower-case text. Numbers must be integral.
func normalize(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(val)), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}

		f, err := val.Float64()
		if err != nil || f != math.Trunc(f) {
			return "", errors.Errorf("non-integral number %s", val.String())
		}

		return strconv.FormatFloat(f, 'f', 0, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		if val != math.Trunc(val) {
			return "", errors.Errorf("non-integral number %v", val)
		}

		return strconv.FormatFloat(val, 'f', 0, 64), nil
	default:
		return "", errors.Errorf("unsupported value type %T", v)
	}
}

func intPtr(v int) *int {
	return &v
}
