package messaging

import (
	"context"
)

// Broker is the pub/sub surface the outbox pipeline publishes through.
// Channels are named after event types; subscribers receive the marshaled
// event payload.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
