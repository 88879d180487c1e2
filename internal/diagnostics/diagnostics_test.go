package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{Quiet: true}

	r.Warn(Warning{Kind: AmbiguousState, Subject: "node01", Message: "invalid node state: free,down"})
	r.Warn(Warning{Kind: NameInference, Message: "cannot unambiguously infer cluster name"})
	r.Warn(Warning{Kind: AmbiguousState, Subject: "node02", Message: "invalid node state: offline,job-busy"})

	assert.Len(t, r.Warnings(), 3)
	assert.Equal(t, 2, r.Count(AmbiguousState))
	assert.Equal(t, 1, r.Count(NameInference))
	assert.Equal(t, 0, r.Count(SchedulerVersion))

	// the returned slice is a copy
	ws := r.Warnings()
	ws[0].Subject = "changed"
	assert.Equal(t, "node01", r.Warnings()[0].Subject)
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "AmbiguousState: invalid node state: free,down / node01",
		Warning{Kind: AmbiguousState, Subject: "node01", Message: "invalid node state: free,down"}.String())
	assert.Equal(t, "NameInference: cannot unambiguously infer cluster name",
		Warning{Kind: NameInference, Message: "cannot unambiguously infer cluster name"}.String())
}
