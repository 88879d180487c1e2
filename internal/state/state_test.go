package state

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		want        NodeState
		wantFinding bool
	}{
		{name: "free", expr: "free", want: Online},
		{name: "hyphenated busy", expr: "job-busy", want: Online},
		{name: "decorated", expr: "<job-exclusive>", want: Online},
		{name: "offline pair", expr: "down,offline", want: Offline},
		{name: "spaces and case", expr: " Down , State-Unknown ", want: Offline},
		{name: "mixed buckets", expr: "free,down", want: Invalid, wantFinding: true},
		{name: "explicit invalid token", expr: "invalid", want: Invalid},
		{name: "various marker", expr: "<various>", want: Various, wantFinding: true},
		{name: "unknown token", expr: "exploded", want: Invalid, wantFinding: true},
		{name: "unknown next to valid token", expr: "free,exploded", want: Invalid, wantFinding: true},
		{name: "empty", expr: "", want: Invalid, wantFinding: true},
		{name: "only separators", expr: " , ", want: Invalid, wantFinding: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, finding := Classify(tt.expr)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFinding, finding != nil, "finding: %v", finding)
		})
	}
}

func TestClassifySingleBucketCombinations(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for _, bucket := range []NodeState{Online, Offline, Invalid, Various} {
		tokens := known(bucket)
		require.NotEmpty(t, tokens, bucket.String())

		for i := 0; i < 50; i++ {
			n := 1 + r.IntN(4)
			parts := make([]string, n)

			for j := range parts {
				parts[j] = tokens[r.IntN(len(tokens))]
			}

			expr := strings.Join(parts, ",")
			got, finding := Classify(expr)
			assert.Equal(t, bucket, got, expr)

			if bucket == Various {
				assert.NotNil(t, finding, expr)
			} else {
				assert.Nil(t, finding, expr)
			}
		}
	}
}

func TestClassifyMixedBucketsAreInvalid(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	buckets := []NodeState{Online, Offline, Invalid, Various}

	for i := 0; i < 100; i++ {
		a := buckets[r.IntN(len(buckets))]
		b := buckets[r.IntN(len(buckets))]

		if a == b {
			continue
		}

		ta, tb := known(a), known(b)
		expr := ta[r.IntN(len(ta))] + "," + tb[r.IntN(len(tb))]

		got, finding := Classify(expr)
		assert.Equal(t, Invalid, got, expr)
		require.NotNil(t, finding, expr)
		assert.Contains(t, finding.String(), expr)
	}
}

func TestNodeStateText(t *testing.T) {
	for _, st := range []NodeState{Online, Offline, Invalid, Various} {
		text, err := st.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, st.String(), string(text))

		var back NodeState
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, st, back)
	}

	_, err := NodeState(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "NodeState(42)", NodeState(42).String())

	var s NodeState
	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
}

// known returns every lexicon token of the given bucket, sorted.
func known(st NodeState) []string {
	var out []string

	for tok, b := range lexicon {
		if b == st {
			out = append(out, tok)
		}
	}

	sort.Strings(out)

	return out
}
