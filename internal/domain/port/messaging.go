package port

import "context"

// StatusPublisher emits ColorStatusMessage payloads to the status queue
// on every job state transition.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, msg []byte) error
}

// DLQPublisher parks messages that must not be retried, tagged with the
// failure reason.
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg []byte, reason string) error
}
