package interfaces

import "context"

// IEventPublisher publishes payment lifecycle events for downstream consumers
// (the email notifier listens to them).
type IEventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
