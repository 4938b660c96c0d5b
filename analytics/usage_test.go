package analytics

import "testing"

func TestReportEventDisabled(t *testing.T) {
	// With metrics disabled (or no public key baked in) reporting must be
	// a silent no-op.
	Init(true)
	ReportEvent(VersionCommand)

	Init(false)
	ReportEvent(VersionCommand)
}
