package ot

import "iter"

// --- Coverage --------------------------------------------------------------

// Coverage is a view of a coverage table.
//
// Each subtable (except an Extension LookupType subtable) in a lookup references a Coverage table,
// which specifies all the glyphs affected by a substitution or positioning operation
// described in the subtable.
//
// Coverage Format 1 consists of a format code and a list of glyph indices:
//
//	uint16 | coverageFormat | Format identifier, format = 1
//	uint16 | glyphCount     | Number of glyphs in the glyph array
//	uint16 | glyphArray[glyphCount] | Array of glyph IDs, in numerical order
//
// Format 2 consists of a format code and a list of glyph ranges:
//
//	uint16 | coverageFormat | Format identifier, format = 2
//	uint16 | rangeCount     | Number of RangeRecords
//	RangeRecord | rangeRecords[rangeCount] | Array of glyph ranges, ordered by startGlyphID
//
// with RangeRecord = { startGlyphID, endGlyphID, startCoverageIndex }.
type Coverage struct {
	table  FontTable
	offset int
}

// NewCoverage returns a coverage view at a byte offset into a table.
func NewCoverage(table FontTable, offset int) Coverage {
	return Coverage{table: table, offset: offset}
}

// IsNull is true for a coverage view without data.
func (c Coverage) IsNull() bool {
	return c.offset == nullOffset || !c.table.IsPresent()
}

// Offset returns the absolute offset of the coverage table within its font table.
func (c Coverage) Offset() int {
	return c.offset
}

// GetGlyphIndex returns the coverage index of glyph g, or -1 if g is not covered.
func (c Coverage) GetGlyphIndex(g GlyphIndex) int {
	if c.IsNull() {
		return -1
	}
	switch c.table.GetUShort(c.offset) {
	case 1:
		count := int(c.table.GetUShort(c.offset + 2))
		lo, hi := 0, count-1
		for lo <= hi {
			mid := (lo + hi) / 2
			glyph := c.table.GetGlyph(c.offset + 4 + mid*2)
			switch {
			case g < glyph:
				hi = mid - 1
			case g > glyph:
				lo = mid + 1
			default:
				return mid
			}
		}
	case 2:
		count := int(c.table.GetUShort(c.offset + 2))
		lo, hi := 0, count-1
		for lo <= hi {
			mid := (lo + hi) / 2
			rec := c.offset + 4 + mid*6
			start, end := c.table.GetGlyph(rec), c.table.GetGlyph(rec+2)
			switch {
			case g < start:
				hi = mid - 1
			case g > end:
				lo = mid + 1
			default:
				return int(g-start) + int(c.table.GetUShort(rec+4))
			}
		}
	}
	return -1
}

// Contains is a shortcut for GetGlyphIndex(g) >= 0.
func (c Coverage) Contains(g GlyphIndex) bool {
	return c.GetGlyphIndex(g) >= 0
}

// Glyphs enumerates all glyphs covered, in ascending order for well-formed tables.
func (c Coverage) Glyphs() iter.Seq[GlyphIndex] {
	return func(yield func(GlyphIndex) bool) {
		if c.IsNull() {
			return
		}
		switch c.table.GetUShort(c.offset) {
		case 1:
			count := int(c.table.GetUShort(c.offset + 2))
			for i := 0; i < count; i++ {
				if !yield(c.table.GetGlyph(c.offset + 4 + i*2)) {
					return
				}
			}
		case 2:
			count := int(c.table.GetUShort(c.offset + 2))
			for i := 0; i < count; i++ {
				rec := c.offset + 4 + i*6
				start, end := int(c.table.GetUShort(rec)), int(c.table.GetUShort(rec+2))
				for g := start; g <= end; g++ {
					if !yield(GlyphIndex(g)) {
						return
					}
				}
			}
		}
	}
}

// IsAnyGlyphCovered checks whether any glyph in the range [minGlyph…maxGlyph], which is
// also flagged in bits, is covered. Unknown coverage formats are reported as covered,
// as callers use this to rule out lookups and must not discard usable ones.
func (c Coverage) IsAnyGlyphCovered(bits GlyphBits, minGlyph, maxGlyph GlyphIndex) bool {
	if c.IsNull() {
		return false
	}
	switch c.table.GetUShort(c.offset) {
	case 1:
		count := int(c.table.GetUShort(c.offset + 2))
		for i := 0; i < count; i++ {
			g := c.table.GetGlyph(c.offset + 4 + i*2)
			if g > maxGlyph {
				break
			}
			if g >= minGlyph && bits.IsSet(g) {
				return true
			}
		}
		return false
	case 2:
		count := int(c.table.GetUShort(c.offset + 2))
		for i := 0; i < count; i++ {
			rec := c.offset + 4 + i*6
			start, end := c.table.GetGlyph(rec), c.table.GetGlyph(rec+2)
			if start > maxGlyph {
				break
			}
			if end < minGlyph {
				continue
			}
			if bits.AnyInRange(max(start, minGlyph), min(end, maxGlyph)) {
				return true
			}
		}
		return false
	}
	return true
}

// --- Glyph bits ------------------------------------------------------------

// GlyphBits is a set of glyph IDs, stored as a bitset.
type GlyphBits []uint32

// NewGlyphBits creates an empty set able to hold glyphs up to glyphCount-1.
func NewGlyphBits(glyphCount int) GlyphBits {
	return make(GlyphBits, (glyphCount+31)/32)
}

// Set adds glyph g to the set. Glyphs beyond the capacity of the set are ignored.
func (b GlyphBits) Set(g GlyphIndex) {
	if int(g)/32 < len(b) {
		b[g/32] |= 1 << (g % 32)
	}
}

// IsSet checks if glyph g is in the set.
func (b GlyphBits) IsSet(g GlyphIndex) bool {
	if int(g)/32 >= len(b) {
		return false
	}
	return b[g/32]&(1<<(g%32)) != 0
}

// AnyInRange checks if any glyph in [from…to] is in the set.
func (b GlyphBits) AnyInRange(from, to GlyphIndex) bool {
	for g := int(from); g <= int(to); g++ {
		if g%32 == 0 && g+31 <= int(to) {
			if g/32 >= len(b) {
				return false
			}
			if b[g/32] != 0 {
				return true
			}
			g += 31
			continue
		}
		if b.IsSet(GlyphIndex(g)) {
			return true
		}
	}
	return false
}
