package port

import (
	"context"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

// FrameDecoder drives the external decoder process.
type FrameDecoder interface {
	// DecodeBatch runs one decoder invocation emitting every frame the
	// predicate selects, concatenated as baseline JPEGs with no framing
	// between them. The stream may hold fewer frames than windows when
	// nearby windows coalesce.
	DecodeBatch(ctx context.Context, videoPath string, pred entity.FramePredicate) ([]byte, error)

	// DecodeFrameAt seeks to one offset and emits a single JPEG frame,
	// downscaled to width.
	DecodeFrameAt(ctx context.Context, videoPath string, offsetMs int64, width int) ([]byte, error)
}

// DurationProber reports a video's duration in seconds.
type DurationProber interface {
	ProbeDuration(ctx context.Context, videoPath string) (float64, error)
}
