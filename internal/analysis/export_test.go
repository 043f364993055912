package analysis

import "testing"

// SetMaxReportBytes lowers the report size cap for the duration of a test.
func SetMaxReportBytes(t *testing.T, n int64) {
	t.Helper()
	prev := maxReportBytes
	maxReportBytes = n
	t.Cleanup(func() { maxReportBytes = prev })
}
