package message_broker

import "context"

type MessageBroker interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
	Close() error
}
