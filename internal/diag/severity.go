package diag

// Severity defines the importance of an issue.
type Severity uint8

const (
	// SevInfo is for informational issues.
	SevInfo Severity = iota
	// SevWarning is for issues a downstream parser may tolerate.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by the short output format.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}
