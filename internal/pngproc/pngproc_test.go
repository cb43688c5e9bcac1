package pngproc

import (
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/pngimage"
)

func quiet(string, ...any) {}

func TestScanlinesDefilters(t *testing.T) {
	h := pngimage.Header{Width: 2, Height: 2, BitDepth: 8, ColorType: pngimage.Grayscale}
	// Row 0 Sub, row 1 Up.
	data := []byte{1, 10, 5, 2, 1, 1}
	rows, err := NewContext(nil, quiet).Scanlines(h, data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]byte{{0, 10, 15}, {0, 11, 16}}, rows); diff != "" {
		t.Errorf("rows:\n%s", diff)
	}
}

func TestScanlinesRejectsBadGeometry(t *testing.T) {
	tests := map[string]pngimage.Header{
		"zero width":             {Width: 0, Height: 5, BitDepth: 8, ColorType: pngimage.Grayscale},
		"zero height":            {Width: 5, Height: 0, BitDepth: 8, ColorType: pngimage.Grayscale},
		"truncated":              {Width: 100, Height: 100, BitDepth: 8, ColorType: pngimage.Truecolor},
		"truncated interlaced":   {Width: 12000, Height: 12000, BitDepth: 8, ColorType: pngimage.Truecolor, Interlace: 1},
		"overflowing size":       {Width: math.MaxUint32, Height: 1 << 29, BitDepth: 16, ColorType: pngimage.TruecolorAlpha},
		"huge interlaced rgba16": {Width: 65535, Height: 65535, BitDepth: 16, ColorType: pngimage.TruecolorAlpha, Interlace: 1},
	}
	ctx := NewContext(nil, quiet)
	for name, h := range tests {
		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err := ctx.Scanlines(h, []byte{0, 0, 0, 0})
		runtime.ReadMemStats(&after)

		var fe pngimage.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected FormatError, got %v", name, err)
		}
		if grown := after.TotalAlloc - before.TotalAlloc; grown > 1<<20 {
			t.Errorf("%s: allocated %d bytes before rejecting", name, grown)
		}
	}
}

func TestImageDataFromHugeHeader(t *testing.T) {
	idat, err := deflate.Standard{Logf: quiet}.Compress([]byte{0, 0, 0, 0}, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	h := pngimage.Header{Width: 12000, Height: 12000, BitDepth: 8, ColorType: pngimage.Truecolor, Interlace: 1}
	img := pngimage.New()
	img.Add(h.Chunk())
	img.Add(pngimage.Chunk{Type: pngimage.TypeIDAT, Data: idat})
	img.Add(pngimage.Chunk{Type: pngimage.TypeIEND})

	cur := NewCursor(img)
	HeadChunks(cur, nil)
	data, err := ImageData(cur)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewContext(nil, quiet).Scanlines(h, data)
	var fe pngimage.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestEnsureTrailer(t *testing.T) {
	img := pngimage.New()
	img.Add(pngimage.Header{Width: 1, Height: 1, BitDepth: 8}.Chunk())
	EnsureTrailer(img)
	EnsureTrailer(img)
	if n := len(img.Chunks()); n != 2 {
		t.Errorf("got %d chunks, want IHDR and one IEND", n)
	}
}
