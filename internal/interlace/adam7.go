// Package interlace converts between Adam7-interlaced image data and
// full-resolution scanlines.
package interlace

import (
	"fmt"
	"math"

	"github.com/yusshu/featherpng/internal/filter"
	"github.com/yusshu/featherpng/internal/pngimage"
)

// Pass describes where one Adam7 pass samples the full image.
type Pass struct {
	StartRow, StartCol int
	RowStep, ColStep   int
}

// Adam7 lists the seven passes in transmission order.
var Adam7 = [7]Pass{
	{0, 0, 8, 8},
	{0, 4, 8, 8},
	{4, 0, 8, 4},
	{0, 2, 4, 4},
	{2, 0, 4, 2},
	{0, 1, 2, 2},
	{1, 0, 2, 1},
}

// Size returns the pass sub-image dimensions. Either is zero when the image
// is too small for the pass to sample any pixel.
func (p Pass) Size(width, height int) (w, h int) {
	if width > p.StartCol {
		w = (width - p.StartCol + p.ColStep - 1) / p.ColStep
	}
	if height > p.StartRow {
		h = (height - p.StartRow + p.RowStep - 1) / p.RowStep
	}
	if w == 0 || h == 0 {
		return 0, 0
	}
	return w, h
}

// DataLength is the size of the filtered, interlaced stream for an image.
// Empty passes contribute nothing. ok is false when the size does not fit
// in an int.
func DataLength(width, height, sampleBitCount int) (n int, ok bool) {
	for _, p := range Adam7 {
		pw, ph := p.Size(width, height)
		if ph == 0 {
			continue
		}
		l, ok := pngimage.DataLength(pw, ph, sampleBitCount)
		if !ok || l > math.MaxInt-n {
			return 0, false
		}
		n += l
	}
	return n, true
}

// Transform deinterlaces and interlaces image data, filtering each pass
// with Filter.
type Transform struct {
	Filter filter.Engine
}

// Deinterlace splits the inflated stream into its seven passes, defilters
// each pass on its own and scatters the pixels into full-resolution raw
// scanlines (filter type None). The stream length is checked against the
// geometry before any output is allocated.
func (tr Transform) Deinterlace(width, height, sampleBitCount int, data []byte) ([][]byte, error) {
	need, ok := DataLength(width, height, sampleBitCount)
	if !ok {
		return nil, pngimage.FormatError(fmt.Sprintf(
			"interlaced image of %dx%d at %d bits per pixel is too large", width, height, sampleBitCount))
	}
	if need > len(data) {
		return nil, pngimage.FormatError(fmt.Sprintf(
			"interlaced image data truncated: need %d bytes, have %d", need, len(data)))
	}

	rowLen := pngimage.ScanlineLength(width, sampleBitCount)
	out := make([][]byte, height)
	for i := range out {
		out[i] = make([]byte, rowLen)
	}

	offset := 0
	for _, p := range Adam7 {
		pw, ph := p.Size(width, height)
		if ph == 0 {
			continue
		}
		passLen := pngimage.ScanlineLength(pw, sampleBitCount)
		rows := make([][]byte, ph)
		for r := range rows {
			rows[r] = append([]byte(nil), data[offset:offset+passLen]...)
			offset += passLen
		}
		tr.Filter.Defilter(rows, sampleBitCount)

		for r, row := range rows {
			dst := out[p.StartRow+r*p.RowStep][1:]
			for c := 0; c < pw; c++ {
				copyPixel(dst, p.StartCol+c*p.ColStep, row[1:], c, sampleBitCount)
			}
		}
	}
	return out, nil
}

// Interlace gathers raw full-resolution scanlines into the seven passes,
// filters every pass independently with t and returns the concatenated
// stream, ready for compression.
func (tr Transform) Interlace(rows [][]byte, width, height, sampleBitCount int, t filter.Type) ([]byte, error) {
	if len(rows) != height {
		return nil, fmt.Errorf("interlace: got %d rows for height %d", len(rows), height)
	}
	rowLen := pngimage.ScanlineLength(width, sampleBitCount)
	for i, row := range rows {
		if len(row) != rowLen {
			return nil, fmt.Errorf("interlace: row %d has length %d, want %d", i, len(row), rowLen)
		}
	}

	n, _ := DataLength(width, height, sampleBitCount)
	out := make([]byte, 0, n)
	for _, p := range Adam7 {
		pw, ph := p.Size(width, height)
		if ph == 0 {
			continue
		}
		passLen := pngimage.ScanlineLength(pw, sampleBitCount)
		pass := make([][]byte, ph)
		for r := range pass {
			pass[r] = make([]byte, passLen)
			src := rows[p.StartRow+r*p.RowStep][1:]
			for c := 0; c < pw; c++ {
				copyPixel(pass[r][1:], c, src, p.StartCol+c*p.ColStep, sampleBitCount)
			}
		}
		out = append(out, filter.Join(tr.Filter.Apply(t, pass, sampleBitCount))...)
	}
	return out, nil
}

// copyPixel copies pixel sx of src to pixel dx of dst. Both slices hold
// sample bytes only. Sub-byte pixels are packed most significant bit first.
func copyPixel(dst []byte, dx int, src []byte, sx int, sampleBitCount int) {
	if sampleBitCount >= 8 {
		n := sampleBitCount / 8
		copy(dst[dx*n:dx*n+n], src[sx*n:sx*n+n])
		return
	}
	mask := byte(1<<sampleBitCount - 1)
	sbit := sx * sampleBitCount
	v := src[sbit/8] >> (8 - sampleBitCount - sbit%8) & mask

	dbit := dx * sampleBitCount
	shift := 8 - sampleBitCount - dbit%8
	dst[dbit/8] = dst[dbit/8]&^(mask<<shift) | v<<shift
}
