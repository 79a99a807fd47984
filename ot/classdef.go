package ot

// ClassDef is a view of a class definition table.
//
// Glyphs may be assigned to classes, for use in context-based substitution and positioning.
// All glyphs not assigned to a class fall into class 0.
//
// Format 1:
//
//	uint16 | classFormat | Format identifier, format = 1
//	uint16 | startGlyphID | First glyph ID of the classValueArray
//	uint16 | glyphCount   | Size of the classValueArray
//	uint16 | classValueArray[glyphCount] | Array of Class Values, one per glyph ID
//
// Format 2:
//
//	uint16 | classFormat | Format identifier, format = 2
//	uint16 | classRangeCount | Number of ClassRangeRecords
//	ClassRangeRecord | classRangeRecords[classRangeCount] | ordered by startGlyphID
//
// with ClassRangeRecord = { startGlyphID, endGlyphID, class }.
type ClassDef struct {
	table  FontTable
	offset int
}

// NewClassDef returns a class definition view at a byte offset into a table.
func NewClassDef(table FontTable, offset int) ClassDef {
	return ClassDef{table: table, offset: offset}
}

// IsNull is true for a class definition without data.
func (cd ClassDef) IsNull() bool {
	return cd.offset == nullOffset || !cd.table.IsPresent()
}

// GetClass returns the class of glyph g, 0 if g is not assigned to a class.
func (cd ClassDef) GetClass(g GlyphIndex) uint16 {
	if cd.IsNull() {
		return 0
	}
	switch cd.table.GetUShort(cd.offset) {
	case 1:
		start := cd.table.GetGlyph(cd.offset + 2)
		count := int(cd.table.GetUShort(cd.offset + 4))
		if g < start || int(g-start) >= count {
			return 0
		}
		return cd.table.GetUShort(cd.offset + 6 + int(g-start)*2)
	case 2:
		count := int(cd.table.GetUShort(cd.offset + 2))
		lo, hi := 0, count-1
		for lo <= hi {
			mid := (lo + hi) / 2
			rec := cd.offset + 4 + mid*6
			start, end := cd.table.GetGlyph(rec), cd.table.GetGlyph(rec+2)
			switch {
			case g < start:
				hi = mid - 1
			case g > end:
				lo = mid + 1
			default:
				return cd.table.GetUShort(rec + 4)
			}
		}
	}
	return 0
}
