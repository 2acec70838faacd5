package extraction

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFrame builds a minimal stream chunk: SOI marker, a tag byte the
// fake palette turns into the red channel, and some payload.
func fakeFrame(tag byte) []byte {
	return []byte{0xFF, 0xD8, tag, 0x00, 0x11, 0x22}
}

func fakeStream(tags ...byte) []byte {
	var stream []byte
	for _, tag := range tags {
		stream = append(stream, fakeFrame(tag)...)
	}
	return stream
}

type fakeDecoder struct {
	stream      []byte
	singleFrame []byte
	batchErr    error
	singleErr   error

	batchCalls  int
	singleCalls int
	lastPred    entity.FramePredicate
	lastOffset  int64
}

func (d *fakeDecoder) DecodeBatch(_ context.Context, _ string, pred entity.FramePredicate) ([]byte, error) {
	d.batchCalls++
	d.lastPred = pred
	if d.batchErr != nil {
		return nil, d.batchErr
	}
	return d.stream, nil
}

func (d *fakeDecoder) DecodeFrameAt(_ context.Context, _ string, offsetMs int64, _ int) ([]byte, error) {
	d.singleCalls++
	d.lastOffset = offsetMs
	if d.singleErr != nil {
		return nil, d.singleErr
	}
	return d.singleFrame, nil
}

type fakePalette struct {
	empty bool
	err   error
	calls atomic.Int32
}

func (p *fakePalette) ExtractPalette(_ context.Context, frame []byte) (entity.Palette, error) {
	p.calls.Add(1)
	if p.err != nil {
		return entity.Palette{}, p.err
	}
	if p.empty {
		return entity.Palette{}, nil
	}
	return entity.Palette{
		Vibrant: &entity.Swatch{R: frame[2], G: 0, B: 0, Population: 1},
	}, nil
}

func newTestExtractor(d *fakeDecoder, p *fakePalette) *Extractor {
	return NewExtractor(d, p, Config{OutputWidth: 320}, zap.NewNop())
}

func TestExtractColorsSinglePathForOneTimestamp(t *testing.T) {
	decoder := &fakeDecoder{singleFrame: fakeFrame(9)}
	x := newTestExtractor(decoder, &fakePalette{})

	results, err := x.ExtractColors(context.Background(), "in.mp4", []int64{7000})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "#090000", results[0].HexColor)
	assert.Equal(t, int64(7000), results[0].TimestampMs)
	assert.Equal(t, 1, decoder.singleCalls)
	assert.Equal(t, 0, decoder.batchCalls)
	assert.Equal(t, int64(7000), decoder.lastOffset)
}

func TestExtractColorsSingleDecoderInvocationForBatch(t *testing.T) {
	decoder := &fakeDecoder{stream: fakeStream(1, 2, 3, 4)}
	x := newTestExtractor(decoder, &fakePalette{})

	results, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000, 3000, 4000})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, 1, decoder.batchCalls)
	assert.Equal(t, 0, decoder.singleCalls)
}

func TestExtractColorsPreservesRequestOrder(t *testing.T) {
	// Frames arrive in presentation order: 1000ms, 3000ms, 5000ms.
	decoder := &fakeDecoder{stream: fakeStream(1, 3, 5)}
	x := newTestExtractor(decoder, &fakePalette{})

	results, err := x.ExtractColors(context.Background(), "in.mp4", []int64{5000, 1000, 3000})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int64(5000), results[0].TimestampMs)
	assert.Equal(t, "#050000", results[0].HexColor)
	assert.Equal(t, int64(1000), results[1].TimestampMs)
	assert.Equal(t, "#010000", results[1].HexColor)
	assert.Equal(t, int64(3000), results[2].TimestampMs)
	assert.Equal(t, "#030000", results[2].HexColor)

	require.Len(t, decoder.lastPred.Windows, 3)
	assert.InDelta(t, 0.990, decoder.lastPred.Windows[0].Start, 1e-9)
	assert.InDelta(t, 1.010, decoder.lastPred.Windows[0].End, 1e-9)
	assert.InDelta(t, 2.990, decoder.lastPred.Windows[1].Start, 1e-9)
	assert.InDelta(t, 4.990, decoder.lastPred.Windows[2].Start, 1e-9)
	assert.Equal(t, 320, decoder.lastPred.Width)
}

func TestExtractColorsDuplicateTimestampsShareOneFrame(t *testing.T) {
	decoder := &fakeDecoder{stream: fakeStream(1, 2)}
	x := newTestExtractor(decoder, &fakePalette{})

	results, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 1000, 2000})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Len(t, decoder.lastPred.Windows, 2)
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, "#010000", results[0].HexColor)
	assert.Equal(t, "#020000", results[2].HexColor)
}

func TestExtractColorsAllDuplicatesUseSinglePath(t *testing.T) {
	decoder := &fakeDecoder{singleFrame: fakeFrame(7)}
	x := newTestExtractor(decoder, &fakePalette{})

	results, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1500, 1500})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, decoder.singleCalls)
	assert.Equal(t, 0, decoder.batchCalls)
	assert.Equal(t, results[0].HexColor, results[1].HexColor)
}

func TestExtractColorsEmptyRequest(t *testing.T) {
	x := newTestExtractor(&fakeDecoder{}, &fakePalette{})

	_, err := x.ExtractColors(context.Background(), "in.mp4", nil)
	assert.ErrorIs(t, err, ErrNoTimestamps)
}

func TestExtractColorsUndercountFailsWholeBatch(t *testing.T) {
	decoder := &fakeDecoder{stream: fakeStream(1, 2)}
	x := newTestExtractor(decoder, &fakePalette{})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000, 3000})
	require.Error(t, err)

	var partial *PartialExtractionError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 3, partial.Requested)
	assert.Equal(t, 2, partial.Produced)
	assert.Equal(t, []int64{3000}, partial.MissingTimestampsMs)
}

func TestExtractColorsEmptyStream(t *testing.T) {
	decoder := &fakeDecoder{stream: nil}
	x := newTestExtractor(decoder, &fakePalette{})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000})

	var noFrames *NoFramesError
	assert.ErrorAs(t, err, &noFrames)
}

func TestExtractColorsMarkerlessStream(t *testing.T) {
	decoder := &fakeDecoder{stream: []byte{0x00, 0x01, 0x02, 0x03}}
	x := newTestExtractor(decoder, &fakePalette{})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000})

	var noFrames *NoFramesError
	assert.ErrorAs(t, err, &noFrames)
}

func TestExtractColorsNoSwatchFailsWholeBatch(t *testing.T) {
	decoder := &fakeDecoder{stream: fakeStream(1, 2)}
	x := newTestExtractor(decoder, &fakePalette{empty: true})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000})
	require.Error(t, err)

	var noSwatch *NoSwatchError
	require.ErrorAs(t, err, &noSwatch)
	assert.Contains(t, []int64{1000, 2000}, noSwatch.TimestampMs)
}

func TestExtractColorsDecoderErrorPassthrough(t *testing.T) {
	decodeErr := &DecodeError{Diagnostic: "mjpeg encoder exploded", Err: errors.New("exit status 1")}
	decoder := &fakeDecoder{batchErr: decodeErr}
	x := newTestExtractor(decoder, &fakePalette{})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000})

	var got *DecodeError
	require.ErrorAs(t, err, &got)
	assert.Same(t, decodeErr, got)
}

func TestExtractColorsPaletteErrorFailsFast(t *testing.T) {
	paletteErr := errors.New("frame did not decode")
	decoder := &fakeDecoder{stream: fakeStream(1, 2, 3)}
	x := newTestExtractor(decoder, &fakePalette{err: paletteErr})

	_, err := x.ExtractColors(context.Background(), "in.mp4", []int64{1000, 2000, 3000})
	assert.ErrorIs(t, err, paletteErr)
}

func TestExtractColorsDeterministic(t *testing.T) {
	request := []int64{4000, 1000, 2500}

	run := func() []entity.ColorResult {
		decoder := &fakeDecoder{stream: fakeStream(10, 25, 40)}
		x := newTestExtractor(decoder, &fakePalette{})
		results, err := x.ExtractColors(context.Background(), "in.mp4", request)
		require.NoError(t, err)
		return results
	}

	assert.Equal(t, run(), run())
}
