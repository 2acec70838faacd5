// Package mjpeg splits a concatenated baseline-JPEG stream into
// individual frames. The decoder emits frames back to back with no
// length framing, so boundaries are recovered from the JPEG
// Start-Of-Image marker.
package mjpeg

import (
	"bytes"
	"errors"
)

// soiMarker opens every baseline JPEG. It cannot legally occur inside
// entropy-coded data, where 0xFF bytes are stuffed with 0x00.
var soiMarker = []byte{0xFF, 0xD8}

// ErrNoFrames reports a stream that contains no Start-Of-Image marker.
var ErrNoFrames = errors.New("mjpeg: no frames in stream")

// Split scans stream for SOI markers and returns one subslice per
// frame, in stream order. Each frame starts at its marker and runs to
// the next marker or the end of the stream. Bytes before the first
// marker and zero-length frames between adjacent markers are dropped.
// The returned slices alias stream.
func Split(stream []byte) ([][]byte, error) {
	starts := markerOffsets(stream)
	if len(starts) == 0 {
		return nil, ErrNoFrames
	}

	frames := make([][]byte, 0, len(starts))
	for i, start := range starts {
		end := len(stream)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end-start <= len(soiMarker) {
			continue
		}
		frames = append(frames, stream[start:end])
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

func markerOffsets(stream []byte) []int {
	var starts []int
	for pos := 0; pos+len(soiMarker) <= len(stream); {
		rel := bytes.Index(stream[pos:], soiMarker)
		if rel < 0 {
			break
		}
		starts = append(starts, pos+rel)
		pos += rel + len(soiMarker)
	}
	return starts
}
