package state

// JobStatus is the last-known execution state of a job as reported by the scheduling engine.
type JobStatus string

const (
	StatusIdle       JobStatus = "idle"
	StatusProcessing JobStatus = "processing"
	StatusSucceeded  JobStatus = "succeeded"
	StatusFailed     JobStatus = "failed"
)

func (s JobStatus) String() string {
	return string(s)
}

// AllStatuses lists every status the console knows how to render, in display order.
var AllStatuses = []JobStatus{
	StatusIdle,
	StatusProcessing,
	StatusSucceeded,
	StatusFailed,
}

// IsKnown reports whether s is one of AllStatuses.
func (s JobStatus) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatuses keeps the known statuses of raw in order, dropping blanks and duplicates.
// Unknown values are returned separately so callers can reject or log them.
func ParseStatuses(raw []string) (statuses []JobStatus, unknown []string) {
	seen := make(map[JobStatus]struct{}, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		s := JobStatus(r)
		if !s.IsKnown() {
			unknown = append(unknown, r)
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		statuses = append(statuses, s)
	}
	return statuses, unknown
}
