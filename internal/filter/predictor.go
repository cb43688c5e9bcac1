package filter

import "fmt"

// Defilter reverses the filter named by row[0] in place and resets row[0]
// to None. prev is the previous reconstructed scanline, tag byte included,
// or nil for the first row of an image or pass.
func Defilter(row, prev []byte, sampleBitCount int) error {
	if err := checkRow(row, prev); err != nil {
		return err
	}
	t := Type(row[0])
	if !t.Valid() {
		return fmt.Errorf("unknown filter type %d", row[0])
	}

	bpp := BytesPerPixel(sampleBitCount)
	cur := row[1:]
	var up []byte
	if prev != nil {
		up = prev[1:]
	}

	switch t {
	case Sub:
		for x := bpp; x < len(cur); x++ {
			cur[x] += cur[x-bpp]
		}
	case Up:
		if up != nil {
			for x := range cur {
				cur[x] += up[x]
			}
		}
	case Average:
		for x := range cur {
			var a, b int
			if x >= bpp {
				a = int(cur[x-bpp])
			}
			if up != nil {
				b = int(up[x])
			}
			cur[x] += uint8((a + b) / 2)
		}
	case Paeth:
		for x := range cur {
			var a, b, c uint8
			if x >= bpp {
				a = cur[x-bpp]
			}
			if up != nil {
				b = up[x]
				if x >= bpp {
					c = up[x-bpp]
				}
			}
			cur[x] += paeth(a, b, c)
		}
	}
	row[0] = byte(None)
	return nil
}

// FilterRow writes row filtered with t into dst, which must be as long as
// row. row and prev are raw scanlines; their tag bytes are ignored.
func FilterRow(dst, row, prev []byte, t Type, bpp int) {
	dst[0] = byte(t)
	cur, out := row[1:], dst[1:]
	var up []byte
	if prev != nil {
		up = prev[1:]
	}

	switch t {
	case Sub:
		for x := range cur {
			var a uint8
			if x >= bpp {
				a = cur[x-bpp]
			}
			out[x] = cur[x] - a
		}
	case Up:
		for x := range cur {
			var b uint8
			if up != nil {
				b = up[x]
			}
			out[x] = cur[x] - b
		}
	case Average:
		for x := range cur {
			var a, b int
			if x >= bpp {
				a = int(cur[x-bpp])
			}
			if up != nil {
				b = int(up[x])
			}
			out[x] = cur[x] - uint8((a+b)/2)
		}
	case Paeth:
		for x := range cur {
			var a, b, c uint8
			if x >= bpp {
				a = cur[x-bpp]
			}
			if up != nil {
				b = up[x]
				if x >= bpp {
					c = up[x-bpp]
				}
			}
			out[x] = cur[x] - paeth(a, b, c)
		}
	default:
		copy(out, cur)
	}
}

// paeth returns whichever of a (left), b (above) and c (upper left) is
// closest to a+b-c, preferring a, then b.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

// Cost sums the filtered bytes of a scanline read as signed 8-bit values,
// in absolute value. The tag byte is excluded.
func Cost(filtered []byte) int {
	sum := 0
	for _, d := range filtered[1:] {
		sum += abs8(d)
	}
	return sum
}

// The absolute value of a byte interpreted as a signed int8.
func abs8(d uint8) int {
	if d < 128 {
		return int(d)
	}
	return 256 - int(d)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
