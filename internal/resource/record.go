package resource

// Class is the kind of workload a node serves.
type Class string

const (
	ClassCPU Class = "cpu"
	ClassGPU Class = "gpu"
)

// Key names a field of a Record.
type Key string

const (
	KeyCPUCores             Key = "cpu_cores"
	KeyCPUMicroarchitecture Key = "cpu_microarchitecture"
	KeyGPUBoards            Key = "gpu_boards"
	KeyGPUModel             Key = "gpu_model"
	KeyMemoryGB             Key = "memory_gb"
)

var allKeys = []Key{KeyCPUCores, KeyCPUMicroarchitecture, KeyGPUBoards, KeyGPUModel, KeyMemoryGB}

// NumericKeys are the dimensions tracked for load and free capacity.
var NumericKeys = []Key{KeyCPUCores, KeyGPUBoards, KeyMemoryGB}

// Record is a canonical resource set. A nil field was not reported by the scheduler.
// Fields are declared in lexicographic key order, which fixes the JSON key order.
type Record struct {
	CPUCores             *int    `json:"cpu_cores,omitempty"`
	CPUMicroarchitecture *string `json:"cpu_microarchitecture,omitempty"`
	GPUBoards            *int    `json:"gpu_boards,omitempty"`
	GPUModel             *string `json:"gpu_model,omitempty"`
	MemoryGB             *int    `json:"memory_gb,omitempty"`
}

func (r Record) Cores() int {
	return intOrZero(r.CPUCores)
}

func (r Record) Boards() int {
	return intOrZero(r.GPUBoards)
}

func (r Record) Memory() int {
	return intOrZero(r.MemoryGB)
}

func (r Record) Model() string {
	return stringOr(r.GPUModel, "")
}

func (r Record) Microarchitecture() string {
	return stringOr(r.CPUMicroarchitecture, "")
}

// Get returns the numeric value stored under key and whether it is present.
func (r Record) Get(key Key) (int, bool) {
	var p *int

	switch key {
	case KeyCPUCores:
		p = r.CPUCores
	case KeyGPUBoards:
		p = r.GPUBoards
	case KeyMemoryGB:
		p = r.MemoryGB
	}

	if p == nil {
		return 0, false
	}

	return *p, true
}

// Set stores a numeric value under key. Non-numeric keys are ignored.
func (r *Record) Set(key Key, v int) {
	switch key {
	case KeyCPUCores:
		r.CPUCores = &v
	case KeyGPUBoards:
		r.GPUBoards = &v
	case KeyMemoryGB:
		r.MemoryGB = &v
	}
}

// Has reports whether key was reported.
func (r Record) Has(key Key) bool {
	switch key {
	case KeyCPUCores:
		return r.CPUCores != nil
	case KeyCPUMicroarchitecture:
		return r.CPUMicroarchitecture != nil
	case KeyGPUBoards:
		return r.GPUBoards != nil
	case KeyGPUModel:
		return r.GPUModel != nil
	case KeyMemoryGB:
		return r.MemoryGB != nil
	default:
		return false
	}
}

// Keys returns the reported keys in lexicographic order.
func (r Record) Keys() []Key {
	var keys []Key

	for _, k := range allKeys {
		if r.Has(k) {
			keys = append(keys, k)
		}
	}

	return keys
}

// Clone returns a deep copy so records are never shared between nodes.
func (r Record) Clone() Record {
	return Record{
		CPUCores:             cloneInt(r.CPUCores),
		CPUMicroarchitecture: cloneString(r.CPUMicroarchitecture),
		GPUBoards:            cloneInt(r.GPUBoards),
		GPUModel:             cloneString(r.GPUModel),
		MemoryGB:             cloneInt(r.MemoryGB),
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}

	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}

	return *p
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
