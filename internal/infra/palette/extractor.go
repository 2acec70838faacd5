// Package palette reduces a decoded frame to categorized color
// swatches: median-cut quantization over filtered pixels, then HSL
// classification into the six palette buckets.
package palette

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/Prateek-coditas/color-extractor/internal/extraction"
	"github.com/lucasb-eyer/go-colorful"
)

const defaultMaxColors = 64

// Pixel filter bounds. Near-black and near-white pixels say nothing
// about a frame's color identity, and the low-saturation red band is
// dominated by skin tones.
const (
	blackMaxLightness = 0.05
	whiteMinLightness = 0.95
	redBandHueMin     = 10.0
	redBandHueMax     = 37.0
	redBandSatMax     = 0.82
)

type Extractor struct {
	maxColors int
}

func NewExtractor(maxColors int) *Extractor {
	if maxColors <= 0 {
		maxColors = defaultMaxColors
	}
	return &Extractor{maxColors: maxColors}
}

// ExtractPalette decodes one JPEG frame and quantizes it. A frame whose
// pixels all fall to the filter yields an empty palette.
func (e *Extractor) ExtractPalette(ctx context.Context, frame []byte) (entity.Palette, error) {
	if err := ctx.Err(); err != nil {
		return entity.Palette{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return entity.Palette{}, &extraction.DecodeError{
			Diagnostic: "frame image decode: " + err.Error(),
			Err:        err,
		}
	}

	swatches := quantize(collectPixels(img), e.maxColors)
	return classify(swatches), nil
}

func collectPixels(img image.Image) []pixel {
	bounds := img.Bounds()
	pixels := make([]pixel, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			px := pixel{r: int(r >> 8), g: int(g >> 8), b: int(b >> 8)}
			if includePixel(px) {
				pixels = append(pixels, px)
			}
		}
	}
	return pixels
}

func includePixel(px pixel) bool {
	c := colorful.Color{
		R: float64(px.r) / 255.0,
		G: float64(px.g) / 255.0,
		B: float64(px.b) / 255.0,
	}
	h, s, l := c.Hsl()
	if l <= blackMaxLightness || l >= whiteMinLightness {
		return false
	}
	if h >= redBandHueMin && h <= redBandHueMax && s <= redBandSatMax {
		return false
	}
	return true
}
