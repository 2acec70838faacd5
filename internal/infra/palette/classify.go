package palette

import (
	"math"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/lucasb-eyer/go-colorful"
)

// target describes the HSL bucket one category accepts and the point
// inside it scoring pulls toward.
type target struct {
	category                  entity.SwatchCategory
	satMin, satTarget, satMax float64
	lumMin, lumTarget, lumMax float64
}

// Assignment order. Vibrant buckets claim their swatches before the
// muted buckets compete for what is left.
var targets = []target{
	{entity.CategoryVibrant, 0.35, 1.0, 1.0, 0.3, 0.5, 0.7},
	{entity.CategoryLightVibrant, 0.35, 1.0, 1.0, 0.55, 0.74, 1.0},
	{entity.CategoryDarkVibrant, 0.35, 1.0, 1.0, 0.0, 0.26, 0.45},
	{entity.CategoryMuted, 0.0, 0.3, 0.4, 0.3, 0.5, 0.7},
	{entity.CategoryLightMuted, 0.0, 0.3, 0.4, 0.55, 0.74, 1.0},
	{entity.CategoryDarkMuted, 0.0, 0.3, 0.4, 0.0, 0.26, 0.45},
}

const (
	weightSaturation = 0.24
	weightLuma       = 0.52
	weightPopulation = 0.24
)

// classify assigns each category its best-scoring swatch. A swatch
// serves at most one category; categories with no qualifying swatch
// stay empty.
func classify(swatches []entity.Swatch) entity.Palette {
	pal := entity.Palette{}
	if len(swatches) == 0 {
		return pal
	}

	maxPopulation := 0
	for _, sw := range swatches {
		if sw.Population > maxPopulation {
			maxPopulation = sw.Population
		}
	}

	used := make(map[int]bool, len(swatches))
	for _, tg := range targets {
		idx := bestSwatchFor(tg, swatches, used, maxPopulation)
		if idx < 0 {
			continue
		}
		used[idx] = true
		sw := swatches[idx]
		switch tg.category {
		case entity.CategoryVibrant:
			pal.Vibrant = &sw
		case entity.CategoryLightVibrant:
			pal.LightVibrant = &sw
		case entity.CategoryDarkVibrant:
			pal.DarkVibrant = &sw
		case entity.CategoryMuted:
			pal.Muted = &sw
		case entity.CategoryLightMuted:
			pal.LightMuted = &sw
		case entity.CategoryDarkMuted:
			pal.DarkMuted = &sw
		}
	}
	return pal
}

func bestSwatchFor(tg target, swatches []entity.Swatch, used map[int]bool, maxPopulation int) int {
	best := -1
	bestScore := 0.0
	for i, sw := range swatches {
		if used[i] {
			continue
		}
		_, s, l := swatchHsl(sw)
		if s < tg.satMin || s > tg.satMax || l < tg.lumMin || l > tg.lumMax {
			continue
		}
		score := weightSaturation*(1-math.Abs(s-tg.satTarget)) +
			weightLuma*(1-math.Abs(l-tg.lumTarget)) +
			weightPopulation*(float64(sw.Population)/float64(maxPopulation))
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

func swatchHsl(sw entity.Swatch) (h, s, l float64) {
	c := colorful.Color{
		R: float64(sw.R) / 255.0,
		G: float64(sw.G) / 255.0,
		B: float64(sw.B) / 255.0,
	}
	return c.Hsl()
}
