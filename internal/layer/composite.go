package layer

import "github.com/yusshu/featherpng/internal/pngimage"

// rgba is one pixel reduced to 8 bits per sample.
type rgba struct {
	r, g, b, a int
}

// pixelAt reads pixel x of a raw truecolor scanline. 16-bit samples keep
// their high byte; a missing alpha channel reads as opaque.
func pixelAt(row []byte, x int, h pngimage.Header) rgba {
	step := int(h.BitDepth) / 8
	channels := h.ColorType.Channels()
	off := 1 + x*channels*step
	sample := func(i int) int { return int(row[off+i*step]) }

	p := rgba{r: sample(0), g: sample(1), b: sample(2), a: 255}
	if h.ColorType.HasAlpha() {
		p.a = sample(3)
	}
	return p
}

// over blends top onto bottom. A fully transparent top pixel leaves bottom
// untouched; otherwise the result is opaque.
func over(bottom, top rgba) rgba {
	if top.a == 0 {
		return bottom
	}
	inv := 255 - top.a
	return rgba{
		r: (bottom.r*inv + top.r*top.a) / 255,
		g: (bottom.g*inv + top.g*top.a) / 255,
		b: (bottom.b*inv + top.b*top.a) / 255,
		a: 255,
	}
}

// composite returns raw 8-bit RGBA scanlines of overlay drawn over base.
func composite(base, overlay *decoded) [][]byte {
	width := int(base.header.Width)
	out := make([][]byte, len(base.rows))
	for y, brow := range base.rows {
		orow := overlay.rows[y]
		row := make([]byte, 1+4*width)
		for x := 0; x < width; x++ {
			p := over(pixelAt(brow, x, base.header), pixelAt(orow, x, overlay.header))
			i := 1 + 4*x
			row[i], row[i+1], row[i+2], row[i+3] = byte(p.r), byte(p.g), byte(p.b), byte(p.a)
		}
		out[y] = row
	}
	return out
}
