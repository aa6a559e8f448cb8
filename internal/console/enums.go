package console

import "github.com/RezaEskandarii/jobconsole/internal/state"

// Badge is how an enumerated value is drawn in a cell or a filter dropdown.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusBadges = map[state.JobStatus]Badge{
	state.StatusIdle:       {Label: "空闲", Color: "default"},
	state.StatusProcessing: {Label: "执行中", Color: "processing"},
	state.StatusSucceeded:  {Label: "成功", Color: "success"},
	state.StatusFailed:     {Label: "失败", Color: "error"},
}

var (
	enabledBadge  = Badge{Label: "启用", Color: "green"}
	disabledBadge = Badge{Label: "未启用", Color: "red"}
)

// StatusBadge returns the badge for s. A status outside state.AllStatuses is drawn
// with its raw value and ok is false.
func StatusBadge(s state.JobStatus) (b Badge, ok bool) {
	if b, ok = statusBadges[s]; ok {
		return b, true
	}
	return Badge{Label: string(s), Color: "default"}, false
}

func EnabledBadge(enabled bool) Badge {
	if enabled {
		return enabledBadge
	}
	return disabledBadge
}
