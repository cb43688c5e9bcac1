// Package optimizer losslessly recompresses PNG images.
//
// The image data is inflated, deinterlaced and defiltered into raw
// scanlines. Each standard filter type, and the adaptive per-row choice, is
// then applied to a fresh copy and compressed; the smallest stream is
// written back as a single IDAT chunk in a non-interlaced image.
package optimizer

import (
	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/filter"
	"github.com/yusshu/featherpng/internal/pngimage"
	"github.com/yusshu/featherpng/internal/pngproc"
)

// Adaptive names the per-row filter choice in Result.Filter.
const Adaptive = "adaptive"

// Options tune a single Optimize call.
type Options struct {
	// RemoveGamma drops the gAMA chunk from the output.
	RemoveGamma bool
	// Level is a zlib level 0-9, or deflate.LevelSearch to try them all.
	Level int
}

// DefaultOptions keeps gamma and searches every compression level.
func DefaultOptions() Options {
	return Options{Level: deflate.LevelSearch}
}

// Candidate is one filter trial and the compressed size it reached.
type Candidate struct {
	Filter string
	Size   int
}

// Result is the outcome of one Optimize call.
type Result struct {
	Image *pngimage.Image
	// Filter is the winning filter type name, or Adaptive.
	Filter string
	// Candidates lists every trial in evaluation order.
	Candidates []Candidate
	// Skipped is set when the input was returned unchanged because it is
	// a low-bit-depth interlaced image.
	Skipped bool
}

// Optimizer recompresses images with the capabilities of its context.
type Optimizer struct {
	ctx pngproc.Context
}

// New creates an Optimizer.
func New(ctx pngproc.Context) *Optimizer {
	return &Optimizer{ctx: ctx}
}

// Optimize returns a recompressed copy of img. img itself is not modified.
func (o *Optimizer) Optimize(img *pngimage.Image, opts Options) (*Result, error) {
	h, ok := img.Header()
	if !ok {
		return nil, pngimage.FormatError("missing IHDR chunk")
	}
	if pngproc.Unsupported(h) {
		o.ctx.Logf("skip: interlaced image with %d bits per pixel is not supported", h.SampleBitCount())
		return &Result{Image: img, Skipped: true}, nil
	}

	cur := pngproc.NewCursor(img)
	head := pngproc.HeadChunks(cur, func(c pngimage.Chunk) bool {
		return !(opts.RemoveGamma && c.Type == pngimage.TypeGAMA)
	})

	data, err := pngproc.ImageData(cur)
	if err != nil {
		return nil, err
	}
	rows, err := o.ctx.Scanlines(h, data)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	sbc := h.SampleBitCount()
	var best []byte
	try := func(name string, filtered [][]byte) error {
		out, err := o.ctx.Compress(filtered, opts.Level, true)
		if err != nil {
			return err
		}
		res.Candidates = append(res.Candidates, Candidate{Filter: name, Size: len(out)})
		if best == nil || len(out) < len(best) {
			best = out
			res.Filter = name
		}
		return nil
	}

	for _, t := range filter.Standard {
		if err := try(t.String(), o.ctx.Filter.Apply(t, rows, sbc)); err != nil {
			return nil, err
		}
	}
	if err := try(Adaptive, o.ctx.Filter.Adaptive(rows, sbc)); err != nil {
		return nil, err
	}

	out := pngimage.New()
	for _, c := range head {
		out.Add(c)
	}
	out.Add(pngimage.Chunk{Type: pngimage.TypeIDAT, Data: best})
	for _, c := range pngproc.TailChunks(cur) {
		out.Add(c)
	}
	pngproc.EnsureTrailer(out)

	res.Image = out
	return res, nil
}
