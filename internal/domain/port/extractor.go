package port

import (
	"context"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

// ColorExtractor runs the whole pipeline for one video: decode the
// requested frames, split the stream, and select one dominant color per
// timestamp. Results come back in request order, or the call fails as a
// whole.
type ColorExtractor interface {
	ExtractColors(ctx context.Context, videoPath string, timestampsMs []int64) ([]entity.ColorResult, error)
}
