package console

import (
	"testing"

	"github.com/RezaEskandarii/jobconsole/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestEnabledBadge(t *testing.T) {
	assert.Equal(t, Badge{Label: "启用", Color: "green"}, EnabledBadge(true))
	assert.Equal(t, Badge{Label: "未启用", Color: "red"}, EnabledBadge(false))
}

func TestStatusBadge_KnownStatuses(t *testing.T) {
	labels := map[string]bool{}
	for _, s := range state.AllStatuses {
		b, ok := StatusBadge(s)
		assert.True(t, ok, s)
		assert.NotEmpty(t, b.Label)
		labels[b.Label] = true
	}
	assert.Len(t, labels, len(state.AllStatuses), "labels must be distinct")

	b, _ := StatusBadge(state.StatusFailed)
	assert.Equal(t, Badge{Label: "失败", Color: "error"}, b)
}

func TestStatusBadge_UnknownFallsBackToRaw(t *testing.T) {
	b, ok := StatusBadge(state.JobStatus("paused"))
	assert.False(t, ok)
	assert.Equal(t, Badge{Label: "paused", Color: "default"}, b)
}
