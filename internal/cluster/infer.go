package cluster

import (
	"fmt"
	"math/rand/v2"

	"k8s.io/klog/v2"

	"github.com/neutree-ai/cluster-info/internal/diagnostics"
)

const (
	// InferName asks New to guess the cluster name.
	InferName = "infer"
	// UnknownName is used when there are no nodes to guess from.
	UnknownName = "unknown"

	inferGuesses = 2
)

// inferName guesses a cluster name from common fragments of node names. Each guess
// compares a randomly chosen node against all others; differing guesses are reported and
// the first one is kept.
func inferName(names []string, r *rand.Rand, sink diagnostics.Sink) string {
	if len(names) == 0 {
		return UnknownName
	}

	guesses := make([]string, 0, inferGuesses)
	for i := 0; i < inferGuesses; i++ {
		guesses = append(guesses, guessName(names, r))
	}

	klog.V(4).Infof("cluster name guesses: %v", guesses)

	for _, g := range guesses[1:] {
		if g != guesses[0] {
			sink.Warn(diagnostics.Warning{
				Kind:    diagnostics.NameInference,
				Message: fmt.Sprintf("cannot unambiguously infer cluster name from %v, using %s", guesses, guesses[0]),
			})

			break
		}
	}

	return guesses[0]
}

func guessName(names []string, r *rand.Rand) string {
	chosen := names[r.IntN(len(names))]

	counts := map[string]int{}
	var order []string

	for _, other := range names {
		if other == chosen {
			continue
		}

		common := longestCommonSubstring(other, chosen)
		if common == "" {
			continue
		}

		if _, ok := counts[common]; !ok {
			order = append(order, common)
		}

		counts[common]++
	}

	if len(order) == 0 {
		return chosen
	}

	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}

	return best
}

// longestCommonSubstring returns the longest run of b that also occurs in a. Ties go to
// the run found earliest in a, then earliest in b.
func longestCommonSubstring(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	bestLen, bestEnd := 0, 0

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] != rb[j-1] {
				cur[j] = 0
				continue
			}

			cur[j] = prev[j-1] + 1
			if cur[j] > bestLen {
				bestLen, bestEnd = cur[j], j
			}
		}

		prev, cur = cur, prev
	}

	return string(rb[bestEnd-bestLen : bestEnd])
}
