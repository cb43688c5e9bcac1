// Package layer alpha-composites one PNG image over another.
package layer

import (
	"errors"
	"fmt"

	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/filter"
	"github.com/yusshu/featherpng/internal/pngimage"
	"github.com/yusshu/featherpng/internal/pngproc"
)

// ErrIncompatible is returned when the two images cannot be layered.
var ErrIncompatible = errors.New("layer: incompatible images")

// Options tune a single Layer call.
type Options struct {
	// Level is a zlib level 0-9, or deflate.LevelSearch to try them all.
	Level int
	// Concurrent lets the compressor run its attempts in parallel.
	Concurrent bool
}

// DefaultOptions searches every compression level in parallel.
func DefaultOptions() Options {
	return Options{Level: deflate.LevelSearch, Concurrent: true}
}

// Layerer composites images with the capabilities of its context.
type Layerer struct {
	ctx pngproc.Context
}

// New creates a Layerer.
func New(ctx pngproc.Context) *Layerer {
	return &Layerer{ctx: ctx}
}

// decoded is an image reduced to raw scanlines plus its remaining chunks.
type decoded struct {
	header pngimage.Header
	head   []pngimage.Chunk
	rows   [][]byte
	cur    *pngproc.Cursor
}

func (l *Layerer) decode(img *pngimage.Image) (*decoded, error) {
	h, ok := img.Header()
	if !ok {
		return nil, pngimage.FormatError("missing IHDR chunk")
	}
	cur := pngproc.NewCursor(img)
	head := pngproc.HeadChunks(cur, nil)
	data, err := pngproc.ImageData(cur)
	if err != nil {
		return nil, err
	}
	rows, err := l.ctx.Scanlines(h, data)
	if err != nil {
		return nil, err
	}
	return &decoded{header: h, head: head, rows: rows, cur: cur}, nil
}

// Layer draws overlay on top of base. Both images must have the same size,
// base must be truecolor (with or without alpha) and overlay truecolor with
// alpha, at bit depth 8 or 16. The result is a non-interlaced 8-bit
// truecolor+alpha image carrying base's trailing critical chunks. 16-bit
// samples, alpha included, are blended using only their high byte.
//
// A low-bit-depth interlaced base is returned unchanged.
func (l *Layerer) Layer(base, overlay *pngimage.Image, opts Options) (*pngimage.Image, error) {
	bh, ok := base.Header()
	if !ok {
		return nil, pngimage.FormatError("base: missing IHDR chunk")
	}
	if pngproc.Unsupported(bh) {
		l.ctx.Logf("skip layering: interlaced base with %d bits per pixel is not supported", bh.SampleBitCount())
		return base, nil
	}
	oh, ok := overlay.Header()
	if !ok {
		return nil, pngimage.FormatError("overlay: missing IHDR chunk")
	}
	if err := compatible(bh, oh); err != nil {
		return nil, err
	}

	b, err := l.decode(base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	o, err := l.decode(overlay)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}

	rows := composite(b, o)
	filtered := l.ctx.Filter.Apply(filter.None, rows, 32)
	data, err := l.ctx.Compress(filtered, opts.Level, opts.Concurrent)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	out := pngimage.New()
	out.Add(pngimage.Header{
		Width:     bh.Width,
		Height:    bh.Height,
		BitDepth:  8,
		ColorType: pngimage.TruecolorAlpha,
	}.Chunk())
	for _, c := range o.head {
		if c.Type == pngimage.TypeGAMA || c.Type == pngimage.TypeCHRM {
			out.Add(c)
		}
	}
	out.Add(pngimage.Chunk{Type: pngimage.TypeIDAT, Data: data})
	for _, c := range pngproc.TailChunks(b.cur) {
		out.Add(c)
	}
	pngproc.EnsureTrailer(out)
	return out, nil
}

func compatible(base, overlay pngimage.Header) error {
	if base.Width != overlay.Width || base.Height != overlay.Height {
		return fmt.Errorf("%w: base is %dx%d, overlay is %dx%d",
			ErrIncompatible, base.Width, base.Height, overlay.Width, overlay.Height)
	}
	if base.ColorType != pngimage.Truecolor && base.ColorType != pngimage.TruecolorAlpha {
		return fmt.Errorf("%w: base color type %s is not truecolor", ErrIncompatible, base.ColorType)
	}
	if overlay.ColorType != pngimage.TruecolorAlpha {
		return fmt.Errorf("%w: overlay color type %s has no alpha channel", ErrIncompatible, overlay.ColorType)
	}
	for _, d := range []uint8{base.BitDepth, overlay.BitDepth} {
		if d != 8 && d != 16 {
			return fmt.Errorf("%w: unsupported bit depth %d", ErrIncompatible, d)
		}
	}
	return nil
}
