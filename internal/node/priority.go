package node

import (
	"strings"

	"github.com/pkg/errors"
)

// Priority selects the leading dimension of a free-capacity triple.
type Priority string

const (
	PriorityCPU Priority = "cpu"
	PriorityGPU Priority = "gpu"
	PriorityMem Priority = "mem"
)

var priorities = []Priority{PriorityCPU, PriorityGPU, PriorityMem}

// Priorities lists every accepted priority.
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

func ParsePriority(s string) (Priority, error) {
	for _, p := range priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}

	names := make([]string, 0, len(priorities))
	for _, p := range priorities {
		names = append(names, string(p))
	}

	return "", errors.Errorf("invalid priority %q, must be one of %s", s, strings.Join(names, ", "))
}

func (p Priority) String() string {
	return string(p)
}

func (p *Priority) Set(s string) error {
	v, err := ParsePriority(s)
	if err != nil {
		return err
	}

	*p = v

	return nil
}

func (p *Priority) Type() string {
	return "priority"
}

// Triple holds one value per tracked dimension. Its order depends on where it came from,
// see Node.Machine and Node.Free.
type Triple [3]int

// Starved is the free triple of nodes that cannot take another job.
var Starved = Triple{-1, -1, -1}

// Compare orders triples lexicographically and returns -1, 0 or +1.
func (t Triple) Compare(o Triple) int {
	for i := range t {
		switch {
		case t[i] < o[i]:
			return -1
		case t[i] > o[i]:
			return 1
		}
	}

	return 0
}
