// Package extraction implements batch dominant-color extraction: one
// decoder invocation per request, demultiplexed into frames, each frame
// reduced to a single representative color.
package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/Prateek-coditas/color-extractor/internal/domain/port"
	"github.com/Prateek-coditas/color-extractor/internal/mjpeg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultOutputWidth = 320

// ErrNoTimestamps rejects calls with an empty timestamp request.
var ErrNoTimestamps = errors.New("extraction: no timestamps requested")

type Config struct {
	// OutputWidth is the downscale target for decoded frames, in
	// pixels. Height follows the aspect ratio.
	OutputWidth int
}

// Extractor orchestrates the pipeline. It holds no per-request state
// and is safe for concurrent use.
type Extractor struct {
	decoder port.FrameDecoder
	palette port.PaletteExtractor
	width   int
	logger  *zap.Logger
}

func NewExtractor(decoder port.FrameDecoder, palette port.PaletteExtractor, cfg Config, logger *zap.Logger) *Extractor {
	width := cfg.OutputWidth
	if width <= 0 {
		width = defaultOutputWidth
	}
	return &Extractor{
		decoder: decoder,
		palette: palette,
		width:   width,
		logger:  logger,
	}
}

// ExtractColors returns one dominant color per requested timestamp, in
// request order. Duplicate timestamps are decoded once and share their
// result. Any failure fails the whole call; there are no partial
// results.
func (x *Extractor) ExtractColors(ctx context.Context, videoPath string, timestampsMs []int64) ([]entity.ColorResult, error) {
	if len(timestampsMs) == 0 {
		return nil, ErrNoTimestamps
	}
	if len(timestampsMs) == 1 {
		return x.extractSingle(ctx, videoPath, timestampsMs[0])
	}

	ordered := uniqueSortedTimestamps(timestampsMs)
	if len(ordered) == 1 {
		shared, err := x.extractSingle(ctx, videoPath, ordered[0])
		if err != nil {
			return nil, err
		}
		results := make([]entity.ColorResult, len(timestampsMs))
		for i := range results {
			results[i] = shared[0]
		}
		return results, nil
	}

	pred := buildPredicate(ordered, x.width)

	decodeStart := time.Now()
	stream, err := x.decoder.DecodeBatch(ctx, videoPath, pred)
	if err != nil {
		return nil, err
	}
	decodeMs := time.Since(decodeStart).Milliseconds()

	if len(stream) == 0 {
		return nil, &NoFramesError{Source: videoPath}
	}

	frames, err := mjpeg.Split(stream)
	if err != nil {
		if errors.Is(err, mjpeg.ErrNoFrames) {
			return nil, &NoFramesError{Source: videoPath}
		}
		return nil, err
	}

	x.logger.Debug("decoded frame batch",
		zap.String("video", videoPath),
		zap.Int("windows", len(ordered)),
		zap.Int("frames", len(frames)),
		zap.Int("stream_bytes", len(stream)),
		zap.Int64("decode_ms", decodeMs),
	)
	if len(frames) > len(ordered) {
		x.logger.Warn("decoder produced more frames than windows, ignoring extras",
			zap.Int("windows", len(ordered)),
			zap.Int("frames", len(frames)),
		)
	}

	matched, err := reconcile(ordered, frames)
	if err != nil {
		return nil, err
	}

	colors := make([]string, len(matched))
	extractMs := make([]int64, len(matched))

	g, gctx := errgroup.WithContext(ctx)
	for i, fr := range matched {
		i, fr := i, fr // per-iteration copies; required under go <= 1.21 loop semantics
		g.Go(func() error {
			start := time.Now()
			pal, err := x.palette.ExtractPalette(gctx, fr.data)
			if err != nil {
				return err
			}
			sw, ok := pal.Dominant()
			if !ok {
				return &NoSwatchError{TimestampMs: fr.timestampMs}
			}
			colors[i] = sw.Hex()
			extractMs[i] = time.Since(start).Milliseconds()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTimestamp := make(map[int64]int, len(ordered))
	for i, ts := range ordered {
		byTimestamp[ts] = i
	}

	results := make([]entity.ColorResult, len(timestampsMs))
	for j, ts := range timestampsMs {
		i := byTimestamp[ts]
		results[j] = entity.ColorResult{
			TimestampMs:       ts,
			HexColor:          colors[i],
			DecodeDurationMs:  decodeMs,
			ExtractDurationMs: extractMs[i],
		}
	}
	return results, nil
}

// extractSingle skips the batch machinery: one seek, one frame, one
// palette.
func (x *Extractor) extractSingle(ctx context.Context, videoPath string, timestampMs int64) ([]entity.ColorResult, error) {
	decodeStart := time.Now()
	frame, err := x.decoder.DecodeFrameAt(ctx, videoPath, timestampMs, x.width)
	if err != nil {
		return nil, err
	}
	decodeMs := time.Since(decodeStart).Milliseconds()

	if len(frame) == 0 {
		return nil, &NoFramesError{Source: videoPath}
	}

	extractStart := time.Now()
	pal, err := x.palette.ExtractPalette(ctx, frame)
	if err != nil {
		return nil, err
	}
	sw, ok := pal.Dominant()
	if !ok {
		return nil, &NoSwatchError{TimestampMs: timestampMs}
	}

	return []entity.ColorResult{{
		TimestampMs:       timestampMs,
		HexColor:          sw.Hex(),
		DecodeDurationMs:  decodeMs,
		ExtractDurationMs: time.Since(extractStart).Milliseconds(),
	}}, nil
}
