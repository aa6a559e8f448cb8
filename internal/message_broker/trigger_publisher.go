package message_broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RezaEskandarii/jobconsole/internal/models"
)

// TriggerPublisher hands manual trigger requests to the scheduling engine over a broker.
type TriggerPublisher struct {
	broker     MessageBroker
	routingKey string
}

func NewTriggerPublisher(broker MessageBroker, routingKey string) *TriggerPublisher {
	return &TriggerPublisher{broker: broker, routingKey: routingKey}
}

func (p *TriggerPublisher) Enqueue(ctx context.Context, req models.TriggerRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal trigger request: %w", err)
	}
	if err := p.broker.Publish(ctx, p.routingKey, body); err != nil {
		return fmt.Errorf("publish trigger for job %d: %w", req.JobID, err)
	}
	return nil
}
