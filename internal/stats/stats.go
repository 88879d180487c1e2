// Package stats summarizes integer samples for queue reports.
package stats

import (
	"slices"

	"github.com/neutree-ai/cluster-info/internal/errdefs"
)

// Set holds the summary statistics of one sample.
type Set struct {
	Size   int `json:"size"`
	Min    int `json:"min"`
	Median int `json:"median"`
	Mode   int `json:"mode"`
	Max    int `json:"max"`
}

// Compute summarizes sample. The median of an even-sized sample is the mean of the two
// middle values truncated toward zero. The mode is the most frequent value; among equally
// frequent values the one seen first in sample wins.
func Compute(sample []int) (Set, error) {
	if len(sample) == 0 {
		return Set{}, errdefs.ErrEmptySample
	}

	sorted := slices.Clone(sample)
	slices.Sort(sorted)

	return Set{
		Size:   len(sample),
		Min:    sorted[0],
		Median: median(sorted),
		Mode:   mode(sample),
		Max:    sorted[len(sorted)-1],
	}, nil
}

func median(sorted []int) int {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return int((float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2)
}

func mode(sample []int) int {
	counts := make(map[int]int, len(sample))
	best, bestCount := sample[0], 0

	for _, v := range sample {
		counts[v]++
	}

	for _, v := range sample {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}

	return best
}
