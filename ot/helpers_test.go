package ot

import "encoding/binary"

// --- Synthetic table builders ----------------------------------------------

func putU16(b []byte, at int, v uint16) {
	binary.BigEndian.PutUint16(b[at:], v)
}

func u16s(vals ...uint16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		putU16(b, i*2, v)
	}
	return b
}

// coverageFmt1 builds a format 1 coverage table. glyphs must be sorted.
func coverageFmt1(glyphs ...uint16) []byte {
	return append(u16s(1, uint16(len(glyphs))), u16s(glyphs...)...)
}

type rangeRec struct {
	start, end, index uint16
}

// coverageFmt2 builds a format 2 coverage table. ranges must be sorted.
func coverageFmt2(ranges ...rangeRec) []byte {
	b := u16s(2, uint16(len(ranges)))
	for _, r := range ranges {
		b = append(b, u16s(r.start, r.end, r.index)...)
	}
	return b
}

// classDefFmt2 builds a format 2 class definition. ranges carry the class in field index.
func classDefFmt2(ranges ...rangeRec) []byte {
	b := u16s(2, uint16(len(ranges)))
	for _, r := range ranges {
		b = append(b, u16s(r.start, r.end, r.index)...)
	}
	return b
}
