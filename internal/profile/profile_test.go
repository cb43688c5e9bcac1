package profile

import (
	"testing"

	"github.com/yusshu/featherpng/internal/deflate"
)

func TestGetFallsBackToDefault(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q, want the requested name", p.Name)
	}
	if p.Level != deflate.LevelSearch || p.Compressor != CompressorStandard {
		t.Errorf("got %+v, want default settings", p)
	}
}

func TestBuiltinsHaveCompressors(t *testing.T) {
	for _, name := range Names() {
		c, err := Get(name).NewCompressor(nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if c == nil {
			t.Fatalf("%s: nil compressor", name)
		}
	}
}

func TestNewCompressor(t *testing.T) {
	c, err := Profile{Compressor: CompressorBlockSplitting}.NewCompressor(nil)
	if err != nil {
		t.Fatal(err)
	}
	bs, ok := c.(deflate.BlockSplitting)
	if !ok {
		t.Fatalf("got %T, want deflate.BlockSplitting", c)
	}
	if bs.Iterations != deflate.DefaultIterations {
		t.Errorf("iterations: got %d, want %d", bs.Iterations, deflate.DefaultIterations)
	}

	if _, err := (Profile{Compressor: "zip"}).NewCompressor(nil); err == nil {
		t.Error("expected error for unknown compressor")
	}
}
