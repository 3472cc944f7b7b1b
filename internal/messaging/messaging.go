// Package messaging defines the broker abstraction used for threat signal
// intake and incident event publishing.
package messaging

import (
	"context"
	"time"
)

// Message is a message received from or sent to the broker.
type Message struct {
	// Subject is the topic the message was published to.
	Subject string

	// Data is the raw payload.
	Data []byte

	// Metadata holds optional key-value message headers.
	Metadata map[string]string

	// Timestamp is when the message was received.
	Timestamp time.Time
}

// MessageHandler processes a received message. A returned error indicates
// processing failure; delivery semantics are at-most-once.
type MessageHandler func(ctx context.Context, msg *Message) error

// Subscription is an active subscription to a subject.
type Subscription interface {
	// Unsubscribe stops receiving messages on this subscription.
	Unsubscribe() error

	// Subject returns the subject this subscription listens to.
	Subject() string

	// IsValid reports whether the subscription is still active.
	IsValid() bool
}

// Client publishes and subscribes to broker subjects.
type Client interface {
	// Publish sends a fire-and-forget message to the subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe creates a fan-out subscription to the subject.
	Subscribe(subject string, handler MessageHandler) (Subscription, error)

	// QueueSubscribe creates a queue subscription; messages are
	// load-balanced across subscribers in the same queue group.
	QueueSubscribe(subject, queue string, handler MessageHandler) (Subscription, error)

	// Drain gracefully closes, letting in-flight messages complete.
	Drain() error

	// IsConnected reports whether the client is connected to the broker.
	IsConnected() bool

	// Close releases all resources and unsubscribes active subscriptions.
	Close() error
}
