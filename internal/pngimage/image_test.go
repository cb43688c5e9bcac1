package pngimage

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sample() *Image {
	img := New()
	img.Add(Header{Width: 3, Height: 2, BitDepth: 8, ColorType: Truecolor}.Chunk())
	img.Add(Chunk{Type: TypeTEXT, Data: []byte("Comment\x00hi")})
	img.Add(Chunk{Type: TypeIDAT, Data: []byte{0x78, 0x9c, 0x01, 0x02, 0x03}})
	img.Add(Chunk{Type: TypeIEND})
	return img
}

func encode(t *testing.T, img *Image) []byte {
	t.Helper()
	data, err := img.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	img := sample()
	data := encode(t, img)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(img.Chunks(), got.Chunks(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("chunks differ:\n%s", diff)
	}
	if !bytes.Equal(data, encode(t, got)) {
		t.Error("re-encoded stream differs")
	}
}

func TestEncodeLayout(t *testing.T) {
	img := New()
	img.Add(Chunk{Type: TypeIEND})
	want := []byte(Signature + "\x00\x00\x00\x00IEND\xae\x42\x60\x82")
	if diff := cmp.Diff(want, encode(t, img)); diff != "" {
		t.Errorf("encoded IEND:\n%s", diff)
	}
}

func TestDecodeCRCMismatch(t *testing.T) {
	data := encode(t, sample())
	// signature, IHDR frame, then the tEXt chunk header
	start := len(Signature) + 12 + HeaderSize + 8
	for i := start; i < start+len("Comment\x00hi"); i++ {
		corrupt := bytes.Clone(data)
		corrupt[i] ^= 0x01
		_, err := Decode(corrupt)
		var fe FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("byte %d: expected FormatError, got %v", i, err)
		}
	}
}

func TestDecodeLengthBeyondInput(t *testing.T) {
	data := encode(t, sample())
	// Inflate the IHDR length field.
	corrupt := bytes.Clone(data)
	corrupt[len(Signature)] = 0x7f
	_, err := Decode(corrupt)
	var fe FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := encode(t, sample())
	for _, n := range []int{0, 4, len(Signature), len(Signature) + 3, len(data) - 1} {
		_, err := Decode(data[:n])
		var fe FormatError
		if !errors.As(err, &fe) {
			t.Errorf("prefix %d: expected FormatError, got %v", n, err)
		}
	}
}

func TestDecodeBadSignature(t *testing.T) {
	data := encode(t, sample())
	data[1] = 'J'
	_, err := Decode(data)
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestDecodeStopsAtZeroLengthChunk(t *testing.T) {
	img := New()
	img.Add(Header{Width: 1, Height: 1, BitDepth: 8, ColorType: Grayscale}.Chunk())
	img.Add(Chunk{Type: TypeTEXT})
	img.Add(Chunk{Type: TypeIDAT, Data: []byte{1, 2, 3}})
	img.Add(Chunk{Type: TypeIEND})

	got, err := Decode(encode(t, img))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got.Chunks()); n != 2 {
		t.Errorf("got %d chunks, want 2", n)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data := append(encode(t, sample()), "garbage"...)
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got.Chunks()); n != 4 {
		t.Errorf("got %d chunks, want 4", n)
	}
}

func TestHeaderCache(t *testing.T) {
	img := New()
	if _, ok := img.Header(); ok {
		t.Fatal("empty image reports a header")
	}
	img.Add(Header{Width: 10, Height: 4, BitDepth: 2, ColorType: GrayscaleAlpha, Interlace: 1}.Chunk())
	img.Add(Header{Width: 99, Height: 99, BitDepth: 8, ColorType: Truecolor}.Chunk())

	if img.Width() != 10 || img.Height() != 4 {
		t.Errorf("size: got %dx%d, want 10x4", img.Width(), img.Height())
	}
	if img.SampleBitCount() != 4 {
		t.Errorf("sample bit count: got %d, want 4", img.SampleBitCount())
	}
	if !img.Interlaced() {
		t.Error("expected interlaced header")
	}
}

func TestPalette(t *testing.T) {
	img := New()
	if _, ok := img.Palette(); ok {
		t.Fatal("unexpected palette")
	}
	img.Add(Header{Width: 1, Height: 1, BitDepth: 8, ColorType: Indexed}.Chunk())
	img.Add(Chunk{Type: TypePLTE, Data: []byte{1, 2, 3}})
	img.Add(Chunk{Type: TypePLTE, Data: []byte{4, 5, 6}})
	p, ok := img.Palette()
	if !ok || !bytes.Equal(p.Data, []byte{1, 2, 3}) {
		t.Errorf("got %v, want the first PLTE", p.Data)
	}
}

func TestChunkClasses(t *testing.T) {
	tests := []struct {
		typ      ChunkType
		name     string
		critical bool
		required bool
	}{
		{TypeIHDR, "IHDR", true, true},
		{TypePLTE, "PLTE", true, true},
		{TypeIDAT, "IDAT", true, true},
		{TypeIEND, "IEND", true, true},
		{TypeTRNS, "tRNS", false, true},
		{TypeGAMA, "gAMA", false, true},
		{TypeCHRM, "cHRM", false, true},
		{TypeSRGB, "sRGB", false, false},
		{TypeTEXT, "tEXt", false, false},
		{TypePHYS, "pHYs", false, false},
	}
	for _, tt := range tests {
		c := Chunk{Type: tt.typ}
		if tt.typ.String() != tt.name {
			t.Errorf("%08x: got name %q, want %q", uint32(tt.typ), tt.typ.String(), tt.name)
		}
		if c.IsCritical() != tt.critical {
			t.Errorf("%s: IsCritical = %v", tt.name, c.IsCritical())
		}
		if c.IsRequired() != tt.required {
			t.Errorf("%s: IsRequired = %v", tt.name, c.IsRequired())
		}
	}
}

func TestScanlineLength(t *testing.T) {
	tests := []struct{ width, sbc, want int }{
		{3, 1, 2},
		{8, 1, 2},
		{9, 1, 3},
		{10, 2, 4},
		{5, 24, 16},
		{2, 64, 17},
		{0, 8, 1},
	}
	for _, tt := range tests {
		if got := ScanlineLength(tt.width, tt.sbc); got != tt.want {
			t.Errorf("ScanlineLength(%d, %d) = %d, want %d", tt.width, tt.sbc, got, tt.want)
		}
	}
}

func TestDataLength(t *testing.T) {
	if n, ok := DataLength(5, 3, 24); !ok || n != 48 {
		t.Errorf("5x3 rgb: got %d, %v; want 48, true", n, ok)
	}
	if n, ok := DataLength(0, 4, 8); !ok || n != 4 {
		t.Errorf("width 0: got %d, %v; want 4, true", n, ok)
	}
	// Wraps a 64-bit int when multiplied naively.
	if _, ok := DataLength(math.MaxUint32, 1<<29, 64); ok {
		t.Error("expected overflow to be reported")
	}
	if _, ok := DataLength(-1, 1, 8); ok {
		t.Error("expected negative width to be rejected")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Width: 640, Height: 480, BitDepth: 16, ColorType: TruecolorAlpha, Interlace: 1}
	got, err := ParseHeader(h.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("header:\n%s", diff)
	}
	if _, err := ParseHeader(h.Bytes()[:12]); err == nil {
		t.Error("expected error for short IHDR")
	}
}

func TestWithInterlace(t *testing.T) {
	orig := Header{Width: 1, Height: 1, BitDepth: 8, ColorType: Grayscale, Interlace: 1}.Chunk()
	c := WithInterlace(orig, 0)
	if c.Data[12] != 0 || orig.Data[12] != 1 {
		t.Errorf("interlace bytes: clone %d, original %d", c.Data[12], orig.Data[12])
	}

	text := Chunk{Type: TypeTEXT, Data: []byte("0123456789abcdef")}
	if got := WithInterlace(text, 0); !bytes.Equal(got.Data, text.Data) {
		t.Error("non-IHDR chunk changed")
	}
}

func TestChunkString(t *testing.T) {
	s := Header{Width: 7, Height: 5, BitDepth: 8, ColorType: Indexed}.Chunk().String()
	for _, want := range []string{"[IHDR] length=13", "7x5", "color type:  3 (indexed)"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in:\n%s", want, s)
		}
	}
}

func TestWriteAndDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := sample().WriteFile(path); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Chunks()) != 4 {
		t.Errorf("got %d chunks, want 4", len(img.Chunks()))
	}
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
