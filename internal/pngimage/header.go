package pngimage

import (
	"fmt"
	"math"
	"math/bits"
)

// ColorType is the IHDR color type byte.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	Truecolor      ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	TruecolorAlpha ColorType = 6
)

// Channels returns the number of samples per pixel, or 0 for an unknown
// color type.
func (c ColorType) Channels() int {
	switch c {
	case Grayscale, Indexed:
		return 1
	case GrayscaleAlpha:
		return 2
	case Truecolor:
		return 3
	case TruecolorAlpha:
		return 4
	}
	return 0
}

// HasAlpha reports whether pixels carry an alpha sample.
func (c ColorType) HasAlpha() bool {
	return c == GrayscaleAlpha || c == TruecolorAlpha
}

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case Truecolor:
		return "truecolor"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case TruecolorAlpha:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// HeaderSize is the length of an IHDR payload.
const HeaderSize = 13

// Header holds the IHDR fields.
//
//	width u32 @0, height u32 @4, bitDepth u8 @8, colorType u8 @9,
//	compression u8 @10, filter u8 @11, interlace u8 @12
type Header struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   ColorType
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// ParseHeader decodes an IHDR payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, FormatError(fmt.Sprintf("IHDR too short: %d bytes", len(data)))
	}
	return Header{
		Width:       readUint32(data[0:4]),
		Height:      readUint32(data[4:8]),
		BitDepth:    data[8],
		ColorType:   ColorType(data[9]),
		Compression: data[10],
		Filter:      data[11],
		Interlace:   data[12],
	}, nil
}

// Bytes encodes h as an IHDR payload.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	putUint32(b[0:4], h.Width)
	putUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = byte(h.ColorType)
	b[10] = h.Compression
	b[11] = h.Filter
	b[12] = h.Interlace
	return b
}

// Chunk returns h wrapped in an IHDR chunk.
func (h Header) Chunk() Chunk {
	return Chunk{Type: TypeIHDR, Data: h.Bytes()}
}

// Interlaced reports whether the image uses Adam7.
func (h Header) Interlaced() bool { return h.Interlace == 1 }

// SampleBitCount is the number of bits per pixel (channels × bit depth).
func (h Header) SampleBitCount() int {
	return h.ColorType.Channels() * int(h.BitDepth)
}

// ScanlineLength is the length of one non-interlaced scanline, including the
// leading filter-type byte.
func (h Header) ScanlineLength() int {
	return ScanlineLength(int(h.Width), h.SampleBitCount())
}

// ScanlineLength returns 1 + ceil(width × sampleBitCount / 8).
func ScanlineLength(width, sampleBitCount int) int {
	return 1 + (width*sampleBitCount+7)/8
}

// DataLength is the size of the filtered stream of a non-interlaced image:
// height scanlines of ScanlineLength(width, sampleBitCount) bytes each. ok is
// false for negative inputs or when the size does not fit in an int.
func DataLength(width, height, sampleBitCount int) (n int, ok bool) {
	if width < 0 || height < 0 || sampleBitCount < 0 {
		return 0, false
	}
	hi, nbits := bits.Mul64(uint64(width), uint64(sampleBitCount))
	if hi != 0 {
		return 0, false
	}
	rowLen := 1 + nbits/8
	if nbits%8 != 0 {
		rowLen++
	}
	hi, lo := bits.Mul64(uint64(height), rowLen)
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// WithInterlace returns a copy of an IHDR chunk with its interlace method
// byte replaced. Chunks of other types are returned cloned and unchanged.
func WithInterlace(c Chunk, interlace uint8) Chunk {
	out := c.Clone()
	if c.Type == TypeIHDR && len(out.Data) >= HeaderSize {
		out.Data[12] = interlace
	}
	return out
}
