package pngimage

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// ChunkType is the 4-byte chunk type code, read as a big-endian uint32.
type ChunkType uint32

// Critical chunks.
const (
	TypeIHDR ChunkType = 0x49484452
	TypePLTE ChunkType = 0x504C5445
	TypeIDAT ChunkType = 0x49444154
	TypeIEND ChunkType = 0x49454E44
)

// Ancillary chunks.
const (
	TypeTRNS ChunkType = 0x74524E53
	TypeCHRM ChunkType = 0x6348524D
	TypeGAMA ChunkType = 0x67414D41
	TypeICCP ChunkType = 0x69434350
	TypeSBIT ChunkType = 0x73424954
	TypeSRGB ChunkType = 0x73524742
	TypeTEXT ChunkType = 0x74455874
	TypeZTXT ChunkType = 0x7A545874
	TypeITXT ChunkType = 0x69545874
	TypeBKGD ChunkType = 0x624B4744
	TypeHIST ChunkType = 0x68495354
	TypePHYS ChunkType = 0x70485973
	TypeSPLT ChunkType = 0x73504C54
	TypeTIME ChunkType = 0x74494D45
)

// String returns the four-letter ASCII name, e.g. "IHDR".
func (t ChunkType) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// Chunk is one framed unit of a PNG stream. The length and CRC are derived
// from Data when the chunk is encoded.
type Chunk struct {
	Type ChunkType
	Data []byte
}

// IsCritical reports whether the chunk is IHDR, PLTE, IDAT or IEND.
func (c Chunk) IsCritical() bool {
	switch c.Type {
	case TypeIHDR, TypePLTE, TypeIDAT, TypeIEND:
		return true
	}
	return false
}

// IsRequired reports whether the chunk must survive optimization: the
// critical chunks plus tRNS, gAMA and cHRM.
func (c Chunk) IsRequired() bool {
	switch c.Type {
	case TypeTRNS, TypeGAMA, TypeCHRM:
		return true
	}
	return c.IsCritical()
}

// CRC computes the CRC-32 (IEEE) over type||data.
func (c Chunk) CRC() uint32 {
	var typ [4]byte
	putUint32(typ[:], uint32(c.Type))
	crc := crc32.NewIEEE()
	crc.Write(typ[:])
	crc.Write(c.Data)
	return crc.Sum32()
}

// Clone returns a copy of the chunk that shares no memory with c.
func (c Chunk) Clone() Chunk {
	data := make([]byte, len(c.Data))
	copy(data, c.Data)
	return Chunk{Type: c.Type, Data: data}
}

// String renders a short human-readable summary of the chunk.
func (c Chunk) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] length=%d crc=%08x", c.Type, len(c.Data), c.CRC())
	switch c.Type {
	case TypeIHDR:
		h, err := ParseHeader(c.Data)
		if err != nil {
			fmt.Fprintf(&b, " (%v)", err)
			break
		}
		fmt.Fprintf(&b, "\n  size:        %dx%d", h.Width, h.Height)
		fmt.Fprintf(&b, "\n  bit depth:   %d", h.BitDepth)
		fmt.Fprintf(&b, "\n  color type:  %d (%s)", h.ColorType, h.ColorType)
		fmt.Fprintf(&b, "\n  compression: %d", h.Compression)
		fmt.Fprintf(&b, "\n  filter:      %d", h.Filter)
		fmt.Fprintf(&b, "\n  interlace:   %d", h.Interlace)
	case TypeTEXT:
		fmt.Fprintf(&b, "\n  text: %q", c.Data)
	}
	return b.String()
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
