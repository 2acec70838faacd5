package entity

import "fmt"

// SwatchCategory names one of the six perceptual buckets a quantized
// color can be classified into.
type SwatchCategory string

const (
	CategoryVibrant      SwatchCategory = "Vibrant"
	CategoryMuted        SwatchCategory = "Muted"
	CategoryDarkVibrant  SwatchCategory = "DarkVibrant"
	CategoryDarkMuted    SwatchCategory = "DarkMuted"
	CategoryLightVibrant SwatchCategory = "LightVibrant"
	CategoryLightMuted   SwatchCategory = "LightMuted"
)

// DominantPriority is the order Dominant walks the palette in. The first
// populated category wins, regardless of swatch populations.
var DominantPriority = [...]SwatchCategory{
	CategoryVibrant,
	CategoryMuted,
	CategoryDarkVibrant,
	CategoryDarkMuted,
	CategoryLightVibrant,
	CategoryLightMuted,
}

// Swatch is one quantized color and the number of sampled pixels that
// mapped to it.
type Swatch struct {
	R          uint8
	G          uint8
	B          uint8
	Population int
}

// Hex renders the swatch as "#RRGGBB" with uppercase hex digits.
func (s Swatch) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", s.R, s.G, s.B)
}

// Palette holds at most one swatch per category. Categories a frame has
// no qualifying color for stay nil.
type Palette struct {
	Vibrant      *Swatch
	Muted        *Swatch
	DarkVibrant  *Swatch
	DarkMuted    *Swatch
	LightVibrant *Swatch
	LightMuted   *Swatch
}

// ByCategory returns the swatch for a category, or nil when the palette
// has none.
func (p Palette) ByCategory(c SwatchCategory) *Swatch {
	switch c {
	case CategoryVibrant:
		return p.Vibrant
	case CategoryMuted:
		return p.Muted
	case CategoryDarkVibrant:
		return p.DarkVibrant
	case CategoryDarkMuted:
		return p.DarkMuted
	case CategoryLightVibrant:
		return p.LightVibrant
	case CategoryLightMuted:
		return p.LightMuted
	}
	return nil
}

// Dominant selects the representative swatch for the frame by walking
// DominantPriority. ok is false when every category is empty.
func (p Palette) Dominant() (Swatch, bool) {
	for _, c := range DominantPriority {
		if sw := p.ByCategory(c); sw != nil {
			return *sw, true
		}
	}
	return Swatch{}, false
}

// ColorResult is the per-timestamp outcome of a color extraction call.
type ColorResult struct {
	TimestampMs       int64  `json:"timestamp_ms"`
	HexColor          string `json:"hex_color"`
	DecodeDurationMs  int64  `json:"decode_duration_ms"`
	ExtractDurationMs int64  `json:"extract_duration_ms"`
}
