package pngproc

import (
	"fmt"

	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/pngimage"
)

// Cursor is an owned read position in a chunk sequence.
type Cursor struct {
	chunks []pngimage.Chunk
	pos    int
}

// NewCursor starts a cursor at the first chunk of img.
func NewCursor(img *pngimage.Image) *Cursor {
	return &Cursor{chunks: img.Chunks()}
}

// Peek returns the chunk under the cursor without consuming it.
func (c *Cursor) Peek() (pngimage.Chunk, bool) {
	if c.pos >= len(c.chunks) {
		return pngimage.Chunk{}, false
	}
	return c.chunks[c.pos], true
}

// Next consumes and returns the chunk under the cursor.
func (c *Cursor) Next() (pngimage.Chunk, bool) {
	ch, ok := c.Peek()
	if ok {
		c.pos++
	}
	return ch, ok
}

// HeadChunks consumes every chunk before the first IDAT and returns clones
// of the required ones accepted by keep (nil keeps all). The IHDR clone has
// its interlace method reset to 0.
func HeadChunks(cur *Cursor, keep func(pngimage.Chunk) bool) []pngimage.Chunk {
	var head []pngimage.Chunk
	for {
		ch, ok := cur.Peek()
		if !ok || ch.Type == pngimage.TypeIDAT {
			return head
		}
		cur.Next()
		if !ch.IsRequired() || (keep != nil && !keep(ch)) {
			continue
		}
		head = append(head, pngimage.WithInterlace(ch, 0))
	}
}

// ImageData consumes the run of consecutive IDAT chunks under the cursor
// and inflates their concatenated payloads.
func ImageData(cur *Cursor) ([]byte, error) {
	var compressed []byte
	for {
		ch, ok := cur.Peek()
		if !ok || ch.Type != pngimage.TypeIDAT {
			break
		}
		cur.Next()
		compressed = append(compressed, ch.Data...)
	}
	data, err := deflate.Inflate(compressed)
	if err != nil {
		return nil, pngimage.FormatError(fmt.Sprintf("inflate image data: %v", err))
	}
	return data, nil
}

// TailChunks consumes the rest of the sequence and returns clones of its
// critical chunks other than IDAT.
func TailChunks(cur *Cursor) []pngimage.Chunk {
	var tail []pngimage.Chunk
	for {
		ch, ok := cur.Next()
		if !ok {
			return tail
		}
		if ch.IsCritical() && ch.Type != pngimage.TypeIDAT {
			tail = append(tail, ch.Clone())
		}
	}
}

// EnsureTrailer appends an empty IEND chunk unless img already ends with one.
func EnsureTrailer(img *pngimage.Image) {
	chunks := img.Chunks()
	if len(chunks) > 0 && chunks[len(chunks)-1].Type == pngimage.TypeIEND {
		return
	}
	img.Add(pngimage.Chunk{Type: pngimage.TypeIEND, Data: []byte{}})
}
