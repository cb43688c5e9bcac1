// Package filter implements the five PNG scanline predictors and an
// adaptive per-row selection heuristic.
//
// A scanline is a filter-type byte followed by the sample bytes. Raw
// (defiltered) scanlines produced here always carry type None in byte 0.
package filter

import (
	"fmt"
	"os"
)

// Type is a PNG filter type.
type Type uint8

const (
	None Type = iota
	Sub
	Up
	Average
	Paeth
)

// Standard lists the five filter types in tie-break priority order.
var Standard = [...]Type{None, Sub, Up, Average, Paeth}

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Sub:
		return "sub"
	case Up:
		return "up"
	case Average:
		return "average"
	case Paeth:
		return "paeth"
	}
	return fmt.Sprintf("filter(%d)", uint8(t))
}

// Valid reports whether t is one of the five standard filter types.
func (t Type) Valid() bool { return t <= Paeth }

// BytesPerPixel is the predictor lookback distance: ceil(sampleBitCount/8),
// at least 1.
func BytesPerPixel(sampleBitCount int) int {
	if bpp := (sampleBitCount + 7) / 8; bpp > 1 {
		return bpp
	}
	return 1
}

// RowError describes a scanline that could not be processed. It never
// aborts the surrounding pass; the row is left as it was.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Engine applies filters to whole scanline sets. The zero value is ready to
// use and reports row errors on stderr.
type Engine struct {
	// Logf receives non-fatal row errors. Nil means stderr.
	Logf func(format string, args ...any)
}

func (e Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "[featherpng] "+format+"\n", args...)
}

// Defilter reconstructs rows in place. Each row is decoded against the
// previous reconstructed row; the first row has no predecessor.
func (e Engine) Defilter(rows [][]byte, sampleBitCount int) {
	var prev []byte
	for i, row := range rows {
		if err := Defilter(row, prev, sampleBitCount); err != nil {
			e.logf("defilter: %v", &RowError{Row: i, Err: err})
			if len(row) > 0 {
				row[0] = byte(None)
			}
		}
		prev = row
	}
}

// Apply returns a filtered copy of raw rows using t on every row. The input
// rows are not modified.
func (e Engine) Apply(t Type, rows [][]byte, sampleBitCount int) [][]byte {
	bpp := BytesPerPixel(sampleBitCount)
	out := make([][]byte, len(rows))
	var prev []byte
	for i, row := range rows {
		dst := make([]byte, len(row))
		if err := checkRow(row, prev); err != nil {
			e.logf("filter %s: %v", t, &RowError{Row: i, Err: err})
			copy(dst, row)
		} else {
			FilterRow(dst, row, prev, t, bpp)
		}
		out[i] = dst
		prev = row
	}
	return out
}

// Adaptive returns a filtered copy of raw rows, choosing for each row the
// type with the lowest Cost. Ties go to the earlier type in Standard.
func (e Engine) Adaptive(rows [][]byte, sampleBitCount int) [][]byte {
	bpp := BytesPerPixel(sampleBitCount)
	out := make([][]byte, len(rows))
	var prev []byte
	for i, row := range rows {
		if err := checkRow(row, prev); err != nil {
			e.logf("filter adaptive: %v", &RowError{Row: i, Err: err})
			out[i] = append([]byte(nil), row...)
			prev = row
			continue
		}
		best, cand := make([]byte, len(row)), make([]byte, len(row))
		bestCost := -1
		for _, t := range Standard {
			FilterRow(cand, row, prev, t, bpp)
			if c := Cost(cand); bestCost < 0 || c < bestCost {
				best, cand = cand, best
				bestCost = c
			}
		}
		out[i] = best
		prev = row
	}
	return out
}

func checkRow(row, prev []byte) error {
	if len(row) == 0 {
		return fmt.Errorf("empty scanline")
	}
	if prev != nil && len(prev) != len(row) {
		return fmt.Errorf("length %d does not match previous row length %d", len(row), len(prev))
	}
	return nil
}

// Clone deep-copies a scanline set.
func Clone(rows [][]byte) [][]byte {
	out := make([][]byte, len(rows))
	for i, row := range rows {
		out[i] = append([]byte(nil), row...)
	}
	return out
}

// Join concatenates scanlines into one buffer.
func Join(rows [][]byte) []byte {
	n := 0
	for _, row := range rows {
		n += len(row)
	}
	out := make([]byte, 0, n)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
