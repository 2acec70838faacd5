package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Prober reads container metadata through ffprobe.
type Prober struct{}

func NewProber() *Prober {
	return &Prober{}
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration returns the container duration in seconds.
func (p *Prober) ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	probeJSON, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(probeJSON), &out); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return duration, nil
}
