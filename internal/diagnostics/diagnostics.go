package diagnostics

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Kind classifies a non-fatal finding. None of them abort a report run.
type Kind string

const (
	AmbiguousState   Kind = "AmbiguousState"
	UndefinedState   Kind = "UndefinedState"
	NameInference    Kind = "NameInference"
	SchedulerVersion Kind = "SchedulerVersion"
)

// Warning is a single diagnostic about an inventory entity.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Subject == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}

	return fmt.Sprintf("%s: %s / %s", w.Kind, w.Message, w.Subject)
}

// Sink receives warnings emitted while building the cluster model.
type Sink interface {
	Warn(w Warning)
}

// Recorder keeps every warning it receives and mirrors it to the klog error stream.
// The zero value is ready to use.
type Recorder struct {
	// Quiet suppresses the klog output, the warnings are still recorded.
	Quiet    bool
	warnings []Warning
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Warn(w Warning) {
	r.warnings = append(r.warnings, w)

	if !r.Quiet {
		klog.Warning(w.String())
	}
}

func (r *Recorder) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// Count returns the number of recorded warnings of the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0

	for _, w := range r.warnings {
		if w.Kind == kind {
			n++
		}
	}

	return n
}

// Discard drops every warning.
var Discard Sink = discard{}

type discard struct{}

func (discard) Warn(Warning) {}
