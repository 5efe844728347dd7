package export

import "time"

// displayLayout is the human-readable timestamp format used throughout the
// document.
const displayLayout = "2006-01-02 15:04"

// FormatTimestamp reformats an ISO8601 timestamp for display. Malformed
// input passes through unchanged rather than failing the export.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return parsed.Format(displayLayout)
}
