package diag

import "strings"

// Severity orders diagnostics; only SevError blocks execution.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

// String is the upper-case label used by pretty and JSON output.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in short diagnostics ("error", ...).
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}
