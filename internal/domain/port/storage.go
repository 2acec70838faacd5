package port

import "context"

// VideoStorage resolves a source object into a local scratch file the
// decoder can read. Nothing is ever written back; colors leave the
// service on the status queue.
type VideoStorage interface {
	DownloadVideo(ctx context.Context, objectKey string, destPath string) error
}
