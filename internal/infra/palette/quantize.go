package palette

import (
	"sort"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

type pixel struct {
	r, g, b int
}

type box struct {
	pixels     []pixel
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
}

func newBox(pixels []pixel) *box {
	b := &box{pixels: pixels}
	b.computeRange()
	return b
}

func (b *box) computeRange() {
	b.rMin, b.gMin, b.bMin = 256, 256, 256
	b.rMax, b.gMax, b.bMax = -1, -1, -1
	for _, p := range b.pixels {
		if p.r < b.rMin {
			b.rMin = p.r
		}
		if p.r > b.rMax {
			b.rMax = p.r
		}
		if p.g < b.gMin {
			b.gMin = p.g
		}
		if p.g > b.gMax {
			b.gMax = p.g
		}
		if p.b < b.bMin {
			b.bMin = p.b
		}
		if p.b > b.bMax {
			b.bMax = p.b
		}
	}
}

// widestChannel reports the channel with the largest spread and that
// spread's size.
func (b *box) widestChannel() (byte, int) {
	rRange := b.rMax - b.rMin
	gRange := b.gMax - b.gMin
	bRange := b.bMax - b.bMin
	if rRange >= gRange && rRange >= bRange {
		return 'r', rRange
	}
	if gRange >= rRange && gRange >= bRange {
		return 'g', gRange
	}
	return 'b', bRange
}

// split sorts the box along its widest channel and cuts at the median.
func (b *box) split() (*box, *box) {
	channel, _ := b.widestChannel()
	sort.Slice(b.pixels, func(i, j int) bool {
		switch channel {
		case 'r':
			return b.pixels[i].r < b.pixels[j].r
		case 'g':
			return b.pixels[i].g < b.pixels[j].g
		default:
			return b.pixels[i].b < b.pixels[j].b
		}
	})
	mid := len(b.pixels) / 2
	lo := append([]pixel(nil), b.pixels[:mid]...)
	hi := append([]pixel(nil), b.pixels[mid:]...)
	return newBox(lo), newBox(hi)
}

// quantize median-cuts the sampled pixels into at most maxColors boxes
// and averages each box into a population-carrying swatch.
func quantize(pixels []pixel, maxColors int) []entity.Swatch {
	if len(pixels) == 0 {
		return nil
	}

	boxes := []*box{newBox(pixels)}
	for len(boxes) < maxColors {
		idx := -1
		widest := 0
		for i, bx := range boxes {
			if len(bx.pixels) < 2 {
				continue
			}
			if _, w := bx.widestChannel(); w > widest {
				widest = w
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		lo, hi := boxes[idx].split()
		boxes = append(boxes[:idx], append([]*box{lo, hi}, boxes[idx+1:]...)...)
	}

	swatches := make([]entity.Swatch, 0, len(boxes))
	for _, bx := range boxes {
		n := len(bx.pixels)
		if n == 0 {
			continue
		}
		var rSum, gSum, bSum int
		for _, p := range bx.pixels {
			rSum += p.r
			gSum += p.g
			bSum += p.b
		}
		swatches = append(swatches, entity.Swatch{
			R:          uint8(rSum / n),
			G:          uint8(gSum / n),
			B:          uint8(bSum / n),
			Population: n,
		})
	}
	return swatches
}
