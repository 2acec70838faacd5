package port

import "context"

// FailureNotifier tells the requesting user their extraction job failed
// permanently.
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, userEmail string, jobID string, videoKey string, errorMsg string) error
}
