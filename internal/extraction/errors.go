package extraction

import "fmt"

// SourceUnreachableError reports a source the decoder could not open at
// all: missing file, dead path, refused connection.
type SourceUnreachableError struct {
	Source     string
	Diagnostic string
}

func (e *SourceUnreachableError) Error() string {
	return fmt.Sprintf("source unreachable: %s: %s", e.Source, e.Diagnostic)
}

// UnsupportedSourceError reports a source the decoder opened but could
// not make sense of: corrupt container, unknown or unsupported codec.
type UnsupportedSourceError struct {
	Source     string
	Diagnostic string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported source: %s: %s", e.Source, e.Diagnostic)
}

// DecodeError reports a decoder invocation that failed for any reason
// not covered by the more specific source errors. Diagnostic carries
// the tail of the decoder's stderr.
type DecodeError struct {
	Diagnostic string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("decode failed: %v", e.Err)
	}
	return fmt.Sprintf("decode failed: %v: %s", e.Err, e.Diagnostic)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NoFramesError reports a decoder run that exited cleanly but emitted
// no frames at all.
type NoFramesError struct {
	Source string
}

func (e *NoFramesError) Error() string {
	return fmt.Sprintf("no frames decoded from %s", e.Source)
}

// PartialExtractionError reports a batch that produced fewer frames
// than timestamps. MissingTimestampsMs lists every requested offset
// that got no frame, ascending.
type PartialExtractionError struct {
	Requested           int
	Produced            int
	MissingTimestampsMs []int64
}

func (e *PartialExtractionError) Error() string {
	return fmt.Sprintf("decoded %d of %d requested frames, missing timestamps %v",
		e.Produced, e.Requested, e.MissingTimestampsMs)
}

// NoSwatchError reports a frame whose palette ended up empty, so no
// dominant color could be selected.
type NoSwatchError struct {
	TimestampMs int64
}

func (e *NoSwatchError) Error() string {
	return fmt.Sprintf("no qualifying swatch for frame at %dms", e.TimestampMs)
}
