package inventory

import (
	"fmt"

	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/semver"
)

// CheckSchedulerVersion warns when the scheduler that produced the document does not
// satisfy constraint. An empty constraint disables the check.
func CheckSchedulerVersion(doc *Document, constraint string, sink diagnostics.Sink) {
	if constraint == "" {
		return
	}

	ok, err := semver.Satisfies(doc.PBSVersion, constraint)
	if err != nil {
		sink.Warn(diagnostics.Warning{
			Kind:    diagnostics.SchedulerVersion,
			Subject: doc.PBSServer,
			Message: fmt.Sprintf("cannot check scheduler version %q: %v", doc.PBSVersion, err),
		})

		return
	}

	if !ok {
		sink.Warn(diagnostics.Warning{
			Kind:    diagnostics.SchedulerVersion,
			Subject: doc.PBSServer,
			Message: fmt.Sprintf("scheduler version %s does not satisfy %s", doc.PBSVersion, constraint),
		})
	}
}
