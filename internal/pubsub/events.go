// Package pubsub fans out store events to any number of subscribers.
// The TUI subscribes to receive registration outcomes as toasts.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// SucceededEvent is published when a remote operation completes successfully.
	SucceededEvent EventType = "succeeded"
	// FailedEvent is published when a remote operation fails or is rejected.
	FailedEvent EventType = "failed"
	// ResetEvent is published when the form state is cleared.
	ResetEvent EventType = "reset"
)

// Event wraps a payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
