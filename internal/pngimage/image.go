// Package pngimage models a PNG file as an ordered list of chunks and
// handles the framing format: signature, length, type, payload and CRC.
package pngimage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Signature is the fixed 8-byte PNG file header.
const Signature = "\x89PNG\r\n\x1a\n"

// FormatError reports that the input is not a valid PNG stream.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// Image is an ordered sequence of chunks. Header fields are cached from the
// first IHDR chunk added; the palette from the first PLTE chunk.
type Image struct {
	chunks    []Chunk
	header    Header
	hasHeader bool
	palette   int
}

// New returns an empty image.
func New() *Image {
	return &Image{palette: -1}
}

// Add appends c, updating the cached header or palette reference when c is
// the first IHDR or PLTE chunk.
func (img *Image) Add(c Chunk) {
	switch c.Type {
	case TypeIHDR:
		if !img.hasHeader {
			if h, err := ParseHeader(c.Data); err == nil {
				img.header = h
				img.hasHeader = true
			}
		}
	case TypePLTE:
		if img.palette < 0 {
			img.palette = len(img.chunks)
		}
	}
	img.chunks = append(img.chunks, c)
}

// Chunks returns the chunks in stream order. The slice must not be modified.
func (img *Image) Chunks() []Chunk { return img.chunks }

// Header returns the cached IHDR fields and whether an IHDR was seen.
func (img *Image) Header() (Header, bool) { return img.header, img.hasHeader }

// Width returns the image width in pixels.
func (img *Image) Width() int { return int(img.header.Width) }

// Height returns the image height in pixels.
func (img *Image) Height() int { return int(img.header.Height) }

// SampleBitCount returns channels × bit depth from the cached header.
func (img *Image) SampleBitCount() int { return img.header.SampleBitCount() }

// Interlaced reports whether the cached header declares Adam7 interlacing.
func (img *Image) Interlaced() bool { return img.header.Interlaced() }

// Palette returns the PLTE chunk, if any.
func (img *Image) Palette() (Chunk, bool) {
	if img.palette < 0 {
		return Chunk{}, false
	}
	return img.chunks[img.palette], true
}

// Decode parses a complete PNG stream held in memory.
func Decode(data []byte) (*Image, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeFile reads and parses the PNG file at path.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := DecodeReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// DecodeReader parses a PNG stream. Reading stops after the IEND chunk or
// after any zero-length chunk; trailing bytes are not consumed.
func DecodeReader(r io.Reader) (*Image, error) {
	var sig [len(Signature)]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, FormatError("missing signature")
	}
	if string(sig[:]) != Signature {
		return nil, FormatError("bad signature")
	}

	img := New()
	var head [8]byte
	for {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, shortRead("chunk header", err)
		}
		length := readUint32(head[0:4])
		typ := ChunkType(readUint32(head[4:8]))

		// Copy incrementally so a bogus length cannot force a huge allocation.
		var payload bytes.Buffer
		if n, err := io.CopyN(&payload, r, int64(length)); err != nil {
			return nil, FormatError(fmt.Sprintf("%s: expected %d bytes but got %d", typ, length, n))
		}

		var crc [4]byte
		if _, err := io.ReadFull(r, crc[:]); err != nil {
			return nil, shortRead(typ.String()+" crc", err)
		}

		c := Chunk{Type: typ, Data: payload.Bytes()}
		if want, got := readUint32(crc[:]), c.CRC(); want != got {
			return nil, FormatError(fmt.Sprintf("%s: crc mismatch: stored %08x, computed %08x", typ, want, got))
		}
		img.Add(c)

		if length == 0 || typ == TypeIEND {
			return img, nil
		}
	}
}

func shortRead(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatError("truncated " + what)
	}
	return fmt.Errorf("read %s: %w", what, err)
}

// WriteTo writes the signature and every chunk, recomputing each CRC.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	var n int64
	m, err := io.WriteString(w, Signature)
	n += int64(m)
	if err != nil {
		return n, err
	}
	var frame [8]byte
	for _, c := range img.chunks {
		if uint64(len(c.Data)) > math.MaxUint32 {
			return n, fmt.Errorf("%s: payload of %d bytes exceeds the chunk length field", c.Type, len(c.Data))
		}
		putUint32(frame[0:4], uint32(len(c.Data)))
		putUint32(frame[4:8], uint32(c.Type))
		m, err = w.Write(frame[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
		m, err = w.Write(c.Data)
		n += int64(m)
		if err != nil {
			return n, err
		}
		putUint32(frame[0:4], c.CRC())
		m, err = w.Write(frame[0:4])
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Bytes serializes the image.
func (img *Image) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := img.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the image to path.
func (img *Image) WriteFile(path string) error {
	data, err := img.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
