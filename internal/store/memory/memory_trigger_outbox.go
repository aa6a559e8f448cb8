package memory

import (
	"context"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/store"
)

// TriggerOutbox collects trigger requests in order of arrival.
type TriggerOutbox struct {
	mu       sync.Mutex
	requests []models.TriggerRequest
}

func NewTriggerOutbox() *TriggerOutbox {
	return &TriggerOutbox{}
}

func (o *TriggerOutbox) Enqueue(ctx context.Context, req models.TriggerRequest) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, req)
	return nil
}

func (o *TriggerOutbox) Requests() []models.TriggerRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.TriggerRequest(nil), o.requests...)
}

var _ store.TriggerOutbox = (*TriggerOutbox)(nil)
