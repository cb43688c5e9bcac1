// Package pngproc holds the pieces shared by the optimizer and the layerer:
// the processing context and helpers that walk an image's chunk sequence.
package pngproc

import (
	"fmt"
	"os"

	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/filter"
	"github.com/yusshu/featherpng/internal/interlace"
	"github.com/yusshu/featherpng/internal/pngimage"
)

// Context bundles the filter engine, interlace transform and compressor a
// pipeline runs with. It is a value and is never mutated after creation.
type Context struct {
	Filter     filter.Engine
	Interlace  interlace.Transform
	Compressor deflate.Compressor
	Logf       func(format string, args ...any)
}

// NewContext wires a Context around c. A nil c selects deflate.Standard; a
// nil logf writes to stderr.
func NewContext(c deflate.Compressor, logf func(format string, args ...any)) Context {
	if logf == nil {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[featherpng] "+format+"\n", args...)
		}
	}
	if c == nil {
		c = deflate.Standard{Logf: logf}
	}
	eng := filter.Engine{Logf: logf}
	return Context{
		Filter:     eng,
		Interlace:  interlace.Transform{Filter: eng},
		Compressor: c,
		Logf:       logf,
	}
}

// Unsupported reports whether h describes a low-bit-depth interlaced image,
// which the pipelines pass through unchanged.
func Unsupported(h pngimage.Header) bool {
	return h.Interlaced() && h.SampleBitCount() < 8
}

// Scanlines turns an inflated image data stream into raw, full-resolution
// scanlines (filter type None), deinterlacing first when h says so. A zero
// width or height, or data shorter than the geometry needs, is a
// FormatError reported before the rows are allocated.
func (ctx Context) Scanlines(h pngimage.Header, data []byte) ([][]byte, error) {
	width, height, sbc := int(h.Width), int(h.Height), h.SampleBitCount()
	if width == 0 || height == 0 {
		return nil, pngimage.FormatError(fmt.Sprintf("invalid image size %dx%d", h.Width, h.Height))
	}
	if h.Interlaced() {
		return ctx.Interlace.Deinterlace(width, height, sbc, data)
	}

	need, ok := pngimage.DataLength(width, height, sbc)
	if !ok {
		return nil, pngimage.FormatError(fmt.Sprintf("image of %dx%d at %d bits per pixel is too large", width, height, sbc))
	}
	if need > len(data) {
		return nil, pngimage.FormatError(fmt.Sprintf("image data truncated: need %d bytes, have %d", need, len(data)))
	}
	rowLen := h.ScanlineLength()
	rows := make([][]byte, height)
	for i := range rows {
		rows[i] = append([]byte(nil), data[i*rowLen:(i+1)*rowLen]...)
	}
	ctx.Filter.Defilter(rows, sbc)
	return rows, nil
}

// Compress serializes filtered scanlines and runs the compressor over them.
func (ctx Context) Compress(rows [][]byte, level int, concurrent bool) ([]byte, error) {
	return ctx.Compressor.Compress(filter.Join(rows), level, concurrent)
}
