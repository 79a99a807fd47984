package ot

// GlyphClassDefEnum lists the glyph classes of a GDEF glyph class definition.
type GlyphClassDefEnum uint16

const (
	UnclassifiedGlyph GlyphClassDefEnum = iota // not assigned to a class
	BaseGlyph                                  // single character, spacing glyph
	LigatureGlyph                              // multiple character, spacing glyph
	MarkGlyph                                  // non-spacing combining glyph
	ComponentGlyph                             // part of single character, spacing glyph
)

// GDEFTable is a view of the Glyph Definition (GDEF) table, providing various glyph
// properties used in OpenType Layout processing.
//
//	uint16   | majorVersion             | Major version of the GDEF table, = 1
//	uint16   | minorVersion             | Minor version of the GDEF table, = 0, 2 or 3
//	Offset16 | glyphClassDefOffset      | Offset to class definition table for glyph type, from beginning of GDEF header (may be NULL)
//	Offset16 | attachListOffset         | Offset to attachment point list table (may be NULL)
//	Offset16 | ligCaretListOffset       | Offset to ligature caret list table (may be NULL)
//	Offset16 | markAttachClassDefOffset | Offset to class definition table for mark attachment type (may be NULL)
//	Offset16 | markGlyphSetsDefOffset   | Offset to the table of mark glyph set definitions (version ≥ 1.2, may be NULL)
//
// A GDEFTable for a font without GDEF is valid and classifies every glyph as
// unclassified.
type GDEFTable struct {
	table FontTable
}

// NewGDEFTable wraps a GDEF font table, which may be absent.
func NewGDEFTable(table FontTable) GDEFTable {
	return GDEFTable{table: table}
}

// IsNull is true if the font has no GDEF table.
func (gdef GDEFTable) IsNull() bool {
	return !gdef.table.IsPresent()
}

func (gdef GDEFTable) classDef(at int) ClassDef {
	if gdef.IsNull() {
		return ClassDef{offset: nullOffset}
	}
	return ClassDef{table: gdef.table, offset: link16(gdef.table, 0, at)}
}

// GlyphClass returns the GDEF glyph class of glyph g.
func (gdef GDEFTable) GlyphClass(g GlyphIndex) GlyphClassDefEnum {
	return GlyphClassDefEnum(gdef.classDef(4).GetClass(g))
}

// MarkAttachClass returns the mark attachment class of glyph g.
func (gdef GDEFTable) MarkAttachClass(g GlyphIndex) uint16 {
	return gdef.classDef(10).GetClass(g)
}

// IsMarkGlyphInSet checks if glyph g is a member of the mark glyph set with index set.
// Fonts with GDEF versions below 1.2 do not have mark glyph sets and no glyph is a member.
//
//	uint16   | format              | Format identifier == 1
//	uint16   | markGlyphSetCount   | Number of mark glyph sets defined
//	Offset32 | coverageOffsets[markGlyphSetCount] | Array of offsets to mark glyph set coverage tables, from the start of the MarkGlyphSets table
func (gdef GDEFTable) IsMarkGlyphInSet(set int, g GlyphIndex) bool {
	if gdef.IsNull() || gdef.table.GetUShort(2) < 2 {
		return false
	}
	sets := link16(gdef.table, 0, 12)
	if sets == nullOffset || gdef.table.GetUShort(sets) != 1 {
		return false
	}
	if set < 0 || set >= int(gdef.table.GetUShort(sets+2)) {
		return false
	}
	cov := Coverage{table: gdef.table, offset: link32(gdef.table, sets, sets+4+set*4)}
	return cov.Contains(g)
}
