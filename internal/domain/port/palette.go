package port

import (
	"context"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

// PaletteExtractor quantizes one JPEG frame into categorized swatches.
// A frame with no qualifying pixels yields an empty palette, not an
// error.
type PaletteExtractor interface {
	ExtractPalette(ctx context.Context, frame []byte) (entity.Palette, error)
}
