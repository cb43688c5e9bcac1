// Package imggen builds PNG fixtures for tests and the e2e smoke run.
package imggen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/filter"
	"github.com/yusshu/featherpng/internal/interlace"
	"github.com/yusshu/featherpng/internal/pngimage"
)

// Gradient creates an NRGBA image with a smooth color ramp and partial
// transparency along the diagonal.
func Gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(width, 1)),
				G: uint8(y * 255 / max(height, 1)),
				B: 128,
				A: uint8(255 - (x+y)%64),
			})
		}
	}
	return img
}

// Encode encodes img with the standard library PNG encoder.
func Encode(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Errorf("encode png: %w", err))
	}
	return buf.Bytes()
}

// Rows creates deterministic raw scanlines for h. Padding bits at the end
// of each row are zero.
func Rows(h pngimage.Header) [][]byte {
	width, height, sbc := int(h.Width), int(h.Height), h.SampleBitCount()
	rowLen := pngimage.ScanlineLength(width, sbc)
	rows := make([][]byte, height)
	for y := range rows {
		row := make([]byte, rowLen)
		for x := 1; x < rowLen; x++ {
			row[x] = byte(x*7 + y*13 + (x*y)%5)
		}
		if rem := (width * sbc) % 8; rem != 0 && rowLen > 1 {
			row[rowLen-1] &= byte(0xff << (8 - rem))
		}
		rows[y] = row
	}
	return rows
}

// Build assembles a PNG stream from raw scanlines. The data is filtered
// (Paeth, or per-pass Paeth when h is interlaced), compressed, and split
// across two IDAT chunks. extra chunks are placed between IHDR and the
// image data; tail chunks between the image data and IEND.
func Build(h pngimage.Header, rows [][]byte, extra []pngimage.Chunk, tail []pngimage.Chunk) []byte {
	width, height, sbc := int(h.Width), int(h.Height), h.SampleBitCount()

	var data []byte
	if h.Interlaced() {
		var err error
		data, err = interlace.Transform{}.Interlace(rows, width, height, sbc, filter.Paeth)
		if err != nil {
			panic(err)
		}
	} else {
		data = filter.Join(filter.Engine{}.Apply(filter.Paeth, rows, sbc))
	}

	compressed, err := deflate.Standard{}.Compress(data, 6, false)
	if err != nil {
		panic(err)
	}

	img := pngimage.New()
	img.Add(h.Chunk())
	for _, c := range extra {
		img.Add(c)
	}
	half := len(compressed) / 2
	img.Add(pngimage.Chunk{Type: pngimage.TypeIDAT, Data: compressed[:half]})
	img.Add(pngimage.Chunk{Type: pngimage.TypeIDAT, Data: compressed[half:]})
	for _, c := range tail {
		img.Add(c)
	}
	img.Add(pngimage.Chunk{Type: pngimage.TypeIEND, Data: []byte{}})

	out, err := img.Bytes()
	if err != nil {
		panic(err)
	}
	return out
}

// Gamma returns a gAMA chunk for gamma 1/2.2.
func Gamma() pngimage.Chunk {
	return pngimage.Chunk{Type: pngimage.TypeGAMA, Data: []byte{0x00, 0x00, 0xb1, 0x8f}}
}

// Text returns a tEXt chunk.
func Text(keyword, value string) pngimage.Chunk {
	return pngimage.Chunk{Type: pngimage.TypeTEXT, Data: []byte(keyword + "\x00" + value)}
}

// RGBA builds a non-interlaced 8-bit truecolor+alpha PNG filled with c.
func RGBA(width, height int, c color.NRGBA) []byte {
	h := pngimage.Header{
		Width:     uint32(width),
		Height:    uint32(height),
		BitDepth:  8,
		ColorType: pngimage.TruecolorAlpha,
	}
	rows := make([][]byte, height)
	for y := range rows {
		row := make([]byte, 1+4*width)
		for x := 0; x < width; x++ {
			copy(row[1+4*x:], []byte{c.R, c.G, c.B, c.A})
		}
		rows[y] = row
	}
	return Build(h, rows, nil, nil)
}
