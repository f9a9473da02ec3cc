package outbox

import (
	"time"
)

// StatusEventsQueue is the queue terminal status events are published to.
// The outbox worker declares it at startup; rows reference it as their
// routing key.
const StatusEventsQueue = "oms.order.status_changed"

// OutboxMessage is a notification event waiting to be published to RabbitMQ.
// One row is written per committed transition, in the same transaction as the
// status change it announces, and deleted after a successful publish.
type OutboxMessage struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
