// Package ffmpeg adapts the external ffmpeg binary to the decoder
// ports. Frames leave ffmpeg as concatenated baseline JPEGs on stdout;
// stderr is captured for failure classification.
package ffmpeg

import (
	"bytes"
	"context"
	"strconv"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// defaultJPEGQuality is the mjpeg qscale. 2 is near-lossless; 31 is
// the floor.
const defaultJPEGQuality = 2

type Decoder struct {
	quality int
	logger  *zap.Logger
}

func NewDecoder(quality int, logger *zap.Logger) *Decoder {
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	return &Decoder{quality: quality, logger: logger}
}

// DecodeBatch runs one ffmpeg invocation covering every window in the
// predicate. vsync vfr keeps the sparse select output from being
// padded with duplicate frames.
func (d *Decoder) DecodeBatch(ctx context.Context, videoPath string, pred entity.FramePredicate) ([]byte, error) {
	var out, diag bytes.Buffer

	cmd := ffmpeg.Input(videoPath).
		Output("pipe:1", ffmpeg.KwArgs{
			"format": "image2pipe",
			"vcodec": "mjpeg",
			"vf":     batchFilter(pred),
			"vsync":  "vfr",
			"q:v":    strconv.Itoa(d.quality),
		}).
		WithOutput(&out).
		WithErrorOutput(&diag)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		return nil, classifyDecodeFailure(videoPath, diag.String(), err)
	}

	d.logger.Debug("batch decode finished",
		zap.String("video", videoPath),
		zap.Int("windows", len(pred.Windows)),
		zap.Int("stream_bytes", out.Len()),
	)
	return out.Bytes(), nil
}

// DecodeFrameAt seeks before demuxing (-ss as an input option) and
// emits a single downscaled frame.
func (d *Decoder) DecodeFrameAt(ctx context.Context, videoPath string, offsetMs int64, width int) ([]byte, error) {
	var out, diag bytes.Buffer

	cmd := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": formatSeconds(float64(offsetMs) / 1000.0)}).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "image2pipe",
			"vcodec":  "mjpeg",
			"vframes": "1",
			"vf":      scaleFilter(width),
			"q:v":     strconv.Itoa(d.quality),
		}).
		WithOutput(&out).
		WithErrorOutput(&diag)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		return nil, classifyDecodeFailure(videoPath, diag.String(), err)
	}

	d.logger.Debug("single frame decode finished",
		zap.String("video", videoPath),
		zap.Int64("offset_ms", offsetMs),
		zap.Int("frame_bytes", out.Len()),
	)
	return out.Bytes(), nil
}
