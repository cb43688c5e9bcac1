//go:build ignore

// gen_fixtures creates small PNG files for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/yusshu/featherpng/internal/imggen"
	"github.com/yusshu/featherpng/internal/pngimage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "cards"), 0o755); err != nil {
		panic(err)
	}

	// Banner (stdlib encoder, 400x225)
	write(filepath.Join(dir, "banner.png"), imggen.Encode(imggen.Gradient(400, 225)))

	// Cards: interlaced truecolor with gamma and text chunks
	for i := 1; i <= 3; i++ {
		h := pngimage.Header{Width: uint32(60 * i), Height: 45, BitDepth: 8, ColorType: pngimage.Truecolor, Interlace: 1}
		extra := []pngimage.Chunk{imggen.Gamma(), imggen.Text("Title", fmt.Sprintf("card %d", i))}
		write(filepath.Join(dir, "cards", fmt.Sprintf("card-%d.png", i)), imggen.Build(h, imggen.Rows(h), extra, nil))
	}

	// Low bit depth: one plain, one interlaced (passed through unchanged)
	mono := pngimage.Header{Width: 64, Height: 64, BitDepth: 1, ColorType: pngimage.Grayscale}
	write(filepath.Join(dir, "mono.png"), imggen.Build(mono, imggen.Rows(mono), nil, nil))
	mono.Interlace = 1
	write(filepath.Join(dir, "mono-interlaced.png"), imggen.Build(mono, imggen.Rows(mono), nil, nil))

	// Overlay for the layer command, same size as the banner
	write(filepath.Join(dir, "overlay.rgba"), imggen.RGBA(400, 225, color.NRGBA{R: 220, G: 60, B: 30, A: 96}))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
