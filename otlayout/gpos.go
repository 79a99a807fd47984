package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// GPOS Lookup Type 1, Format 1: Single Adjustment (single value for all covered glyphs).
//
//	uint16      | posFormat      | Format identifier: format = 1
//	Offset16    | coverageOffset | Offset to Coverage table, from beginning of SinglePos subtable
//	uint16      | valueFormat    | Defines the types of data in the ValueRecord
//	ValueRecord | valueRecord    | Defines positioning value(s), applied to all glyphs in the Coverage table
func gposLookupType1Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	if ctx.coverageIndex(st, st+2, first) < 0 {
		return first + 1, false
	}
	format := ot.ValueFormat(ctx.table.GetUShort(st + 4))
	vr := ot.ReadValueRecord(ctx.table, st+6, format, st)
	tracer().Debugf("GPOS 1|1: adjust glyph %d at %d", ctx.glyphs.Glyph(first), first)
	ctx.applyValueRecord(vr, first)
	return first + 1, true
}

// GPOS Lookup Type 1, Format 2: Single Adjustment (one value per covered glyph).
//
//	uint16      | posFormat      | Format identifier: format = 2
//	Offset16    | coverageOffset | Offset to Coverage table, from beginning of SinglePos subtable
//	uint16      | valueFormat    | Defines the types of data in the ValueRecords
//	uint16      | valueCount     | Number of ValueRecords, must equal glyphCount in the Coverage table
//	ValueRecord | valueRecords[valueCount] | Array of ValueRecords, positioning values applied to glyphs
func gposLookupType1Fmt2(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	format := ot.ValueFormat(ctx.table.GetUShort(st + 4))
	if inx >= int(ctx.table.GetUShort(st+6)) {
		ot.RaiseFormatError(ctx.table.Tag(), "SinglePos", st, "coverage index exceeds value records")
	}
	vr := ot.ReadValueRecord(ctx.table, st+8+inx*ot.ValueRecordSize(format), format, st)
	tracer().Debugf("GPOS 1|2: adjust glyph %d at %d", ctx.glyphs.Glyph(first), first)
	ctx.applyValueRecord(vr, first)
	return first + 1, true
}

// GPOS Lookup Type 2: Pair Adjustment Positioning
//
// A pair adjustment positioning subtable (PairPos) is used to adjust the placement or advances
// of two glyphs in relation to one another, for instance, to specify kerning data for pairs of
// glyphs. The second glyph is the next glyph not ignored by the lookup. If the subtable has
// no value record for the second glyph, the second glyph may start the next pair.

// GPOS Lookup Type 2, Format 1: Pair Adjustment (glyph pair).
//
//	uint16   | posFormat      | Format identifier: format = 1
//	Offset16 | coverageOffset | Offset to Coverage table, from beginning of PairPos subtable
//	uint16   | valueFormat1   | Defines the types of data in valueRecord1, for the first glyph in the pair (may be zero)
//	uint16   | valueFormat2   | Defines the types of data in valueRecord2, for the second glyph in the pair (may be zero)
//	uint16   | pairSetCount   | Number of PairSet tables
//	Offset16 | pairSetOffsets[pairSetCount] | Array of offsets to PairSet tables, ordered by Coverage Index
//
// PairSets hold PairValueRecords { secondGlyph, valueRecord1, valueRecord2 }, ordered by
// secondGlyph.
func gposLookupType2Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	second := ctx.nextGlyph(first+1, afterLast)
	if second >= afterLast {
		return first + 1, false
	}
	format1 := ot.ValueFormat(ctx.table.GetUShort(st + 4))
	format2 := ot.ValueFormat(ctx.table.GetUShort(st + 6))
	set := ctx.ruleSet(st, st+8, inx)
	if set == ot.NullOffset {
		return first + 1, false
	}
	size1, size2 := ot.ValueRecordSize(format1), ot.ValueRecordSize(format2)
	recSize := 2 + size1 + size2
	g := ctx.glyphs.Glyph(second)
	lo, hi := 0, int(ctx.table.GetUShort(set))-1
	for lo <= hi {
		mid := (lo + hi) / 2
		rec := set + 2 + mid*recSize
		switch secondGlyph := ctx.table.GetGlyph(rec); {
		case g < secondGlyph:
			hi = mid - 1
		case g > secondGlyph:
			lo = mid + 1
		default:
			vr1 := ot.ReadValueRecord(ctx.table, rec+2, format1, st)
			vr2 := ot.ReadValueRecord(ctx.table, rec+2+size1, format2, st)
			tracer().Debugf("GPOS 2|1: adjust pair %d %d", ctx.glyphs.Glyph(first), g)
			return ctx.applyPair(first, second, vr1, vr2, format2), true
		}
	}
	return first + 1, false
}

// GPOS Lookup Type 2, Format 2: Pair Adjustment (class-based).
//
//	uint16   | posFormat      | Format identifier: format = 2
//	Offset16 | coverageOffset | Offset to Coverage table, from beginning of PairPos subtable
//	uint16   | valueFormat1   | ValueRecord definition, for the first glyph of the pair (may be zero)
//	uint16   | valueFormat2   | ValueRecord definition, for the second glyph of the pair (may be zero)
//	Offset16 | classDef1Offset | Offset to ClassDef table, from beginning of PairPos subtable, for the first glyph of the pair
//	Offset16 | classDef2Offset | Offset to ClassDef table, from beginning of PairPos subtable, for the second glyph of the pair
//	uint16   | class1Count    | Number of classes in classDef1 table, includes Class 0
//	uint16   | class2Count    | Number of classes in classDef2 table, includes Class 0
//	Class1Record | class1Records[class1Count] | Array of Class1 records, ordered by classes in classDef1
//
// with Class1Record = Class2Record[class2Count] and Class2Record = { valueRecord1, valueRecord2 }.
func gposLookupType2Fmt2(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	if ctx.coverageIndex(st, st+2, first) < 0 {
		return first + 1, false
	}
	second := ctx.nextGlyph(first+1, afterLast)
	if second >= afterLast {
		return first + 1, false
	}
	format1 := ot.ValueFormat(ctx.table.GetUShort(st + 4))
	format2 := ot.ValueFormat(ctx.table.GetUShort(st + 6))
	cd1 := ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+8))
	cd2 := ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+10))
	class1Count, class2Count := int(ctx.table.GetUShort(st+12)), int(ctx.table.GetUShort(st+14))
	class1 := int(cd1.GetClass(ctx.glyphs.Glyph(first)))
	class2 := int(cd2.GetClass(ctx.glyphs.Glyph(second)))
	if class1 >= class1Count || class2 >= class2Count {
		return first + 1, false
	}
	size1, size2 := ot.ValueRecordSize(format1), ot.ValueRecordSize(format2)
	rec := st + 16 + (class1*class2Count+class2)*(size1+size2)
	vr1 := ot.ReadValueRecord(ctx.table, rec, format1, st)
	vr2 := ot.ReadValueRecord(ctx.table, rec+size1, format2, st)
	tracer().Debugf("GPOS 2|2: adjust pair of classes %d %d", class1, class2)
	return ctx.applyPair(first, second, vr1, vr2, format2), true
}

func (ctx *applyCtx) applyPair(first, second int, vr1, vr2 ot.ValueRecord, format2 ot.ValueFormat) int {
	ctx.applyValueRecord(vr1, first)
	if format2 == 0 {
		return second
	}
	ctx.applyValueRecord(vr2, second)
	return second + 1
}

// GPOS Lookup Type 3, Format 1: Cursive Attachment.
//
//	uint16   | posFormat      | Format identifier: format = 1
//	Offset16 | coverageOffset | Offset to Coverage table, from beginning of CursivePos subtable
//	uint16   | entryExitCount | Number of EntryExit records
//	EntryExitRecord | entryExitRecord[entryExitCount] | Array of EntryExit records, in Coverage index order
//
// with EntryExitRecord = { Offset16 entryAnchorOffset, Offset16 exitAnchorOffset }, both from
// the beginning of the CursivePos subtable (may be NULL).
//
// The exit anchor of the glyph at first is connected to the entry anchor of the next
// glyph. The distance along the flow goes into the advance of the glyphs. Across the flow,
// the later glyph is moved, unless the lookup flag RIGHT_TO_LEFT is set. Then the earlier
// glyph is moved, together with all glyphs connected to it before.
func gposLookupType3Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	count := int(ctx.table.GetUShort(st + 4))
	if inx >= count {
		ot.RaiseFormatError(ctx.table.Tag(), "CursivePos", st, "coverage index exceeds entry/exit records")
	}
	exit := ot.AnchorAt(ctx.table, st, st+6+inx*4+2)
	if exit.IsNull() {
		return first + 1, false
	}
	next := ctx.nextGlyph(first+1, afterLast)
	if next >= afterLast {
		return first + 1, false
	}
	nextInx := ctx.coverageIndex(st, st+2, next)
	if nextInx < 0 || nextInx >= count {
		return first + 1, false
	}
	entry := ot.AnchorAt(ctx.table, st, st+6+nextInx*4)
	if entry.IsNull() {
		return first + 1, false
	}
	tracer().Debugf("GPOS 3|1: connect glyphs at %d and %d", first, next)
	if ctx.flag&ot.LOOKUP_FLAG_RIGHT_TO_LEFT == 0 {
		ctx.alignAnchors(first, next, exit, entry, true)
	} else {
		before := ctx.crossFlowOffset(first)
		ctx.alignAnchors(next, first, entry, exit, true)
		if delta := ctx.crossFlowOffset(first) - before; delta != 0 {
			for k := ctx.prevGlyph(first - 1); k >= 0; k = ctx.prevGlyph(k - 1) {
				if ctx.glyphs.Flags(k)&GlyphCursiveConnected == 0 {
					break
				}
				ctx.moveCrossFlow(k, delta)
				ctx.positioned(k)
			}
		}
	}
	ctx.glyphs.SetFlags(first, ctx.glyphs.Flags(first)|GlyphCursiveConnected)
	return next, true
}

// crossFlowOffset returns the offset of a glyph across the flow direction.
func (ctx *applyCtx) crossFlowOffset(pos int) int {
	if ctx.metrics.Direction.IsHorizontal() {
		return ctx.offsets[pos].DY
	}
	return ctx.offsets[pos].DX
}

func (ctx *applyCtx) moveCrossFlow(pos, delta int) {
	if ctx.metrics.Direction.IsHorizontal() {
		ctx.offsets[pos].DY += delta
	} else {
		ctx.offsets[pos].DX += delta
	}
}

// GPOS Lookup Type 4, Format 1: MarkToBase Attachment.
//
//	uint16   | posFormat          | Format identifier: format = 1
//	Offset16 | markCoverageOffset | Offset to markCoverage table, from beginning of MarkBasePos subtable
//	Offset16 | baseCoverageOffset | Offset to baseCoverage table, from beginning of MarkBasePos subtable
//	uint16   | markClassCount     | Number of classes defined for marks
//	Offset16 | markArrayOffset    | Offset to MarkArray table, from beginning of MarkBasePos subtable
//	Offset16 | baseArrayOffset    | Offset to BaseArray table, from beginning of MarkBasePos subtable
//
// The base is the closest preceding glyph which is not a mark.
func gposLookupType4Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	markInx := ctx.coverageIndex(st, st+2, first)
	if markInx < 0 {
		return first + 1, false
	}
	base := ctx.precedingBase(first)
	if base < 0 {
		return first + 1, false
	}
	baseInx := ctx.coverageIndex(st, st+4, base)
	if baseInx < 0 {
		return first + 1, false
	}
	classCount := int(ctx.table.GetUShort(st + 6))
	class, markAnchor := ctx.markRecord(ctx.table.Link16(st, st+8), markInx)
	baseAnchor := ctx.anchorMatrix(ctx.table.Link16(st, st+10), baseInx, class, classCount)
	if markAnchor.IsNull() || baseAnchor.IsNull() {
		return first + 1, false
	}
	tracer().Debugf("GPOS 4|1: attach mark at %d to base at %d", first, base)
	ctx.alignAnchors(base, first, baseAnchor, markAnchor, false)
	return first + 1, true
}

// GPOS Lookup Type 5, Format 1: MarkToLigature Attachment.
//
//	uint16   | posFormat              | Format identifier: format = 1
//	Offset16 | markCoverageOffset     | Offset to markCoverage table, from beginning of MarkLigPos subtable
//	Offset16 | ligatureCoverageOffset | Offset to ligatureCoverage table, from beginning of MarkLigPos subtable
//	uint16   | markClassCount         | Number of defined mark classes
//	Offset16 | markArrayOffset        | Offset to MarkArray table, from beginning of MarkLigPos subtable
//	Offset16 | ligatureArrayOffset    | Offset to LigatureArray table, from beginning of MarkLigPos subtable
//
// The LigatureArray holds an Offset16 to a LigatureAttach table per ligature, which has a
// row of anchors per ligature component. The component a mark attaches to is derived
// from the character map, see ligatureComponent.
func gposLookupType5Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	markInx := ctx.coverageIndex(st, st+2, first)
	if markInx < 0 {
		return first + 1, false
	}
	lig := ctx.precedingBase(first)
	if lig < 0 {
		return first + 1, false
	}
	ligInx := ctx.coverageIndex(st, st+4, lig)
	if ligInx < 0 {
		return first + 1, false
	}
	classCount := int(ctx.table.GetUShort(st + 6))
	class, markAnchor := ctx.markRecord(ctx.table.Link16(st, st+8), markInx)
	ligArray := ctx.table.Link16(st, st+10)
	if ligArray == ot.NullOffset {
		return first + 1, false
	}
	attach := ctx.ruleSet(ligArray, ligArray, ligInx)
	if attach == ot.NullOffset {
		return first + 1, false
	}
	compCount := int(ctx.table.GetUShort(attach))
	if compCount == 0 {
		return first + 1, false
	}
	comp := ctx.ligatureComponent(lig, first, compCount)
	ligAnchor := ctx.anchorMatrix(attach, comp, class, classCount)
	if markAnchor.IsNull() || ligAnchor.IsNull() {
		return first + 1, false
	}
	tracer().Debugf("GPOS 5|1: attach mark at %d to component %d of ligature at %d", first, comp, lig)
	ctx.alignAnchors(lig, first, ligAnchor, markAnchor, false)
	return first + 1, true
}

// ligatureComponent returns the component of the ligature at lig that the mark at mark
// belongs to. Components are counted by the characters mapped to the ligature which
// precede the mark's first character. Marks skipped while forming the ligature thus
// belong to the component before them.
func (ctx *applyCtx) ligatureComponent(lig, mark, compCount int) int {
	if ctx.charmap == nil {
		return compCount - 1
	}
	markChar := min(int(ctx.glyphs.FirstChars.At(mark)), ctx.charmap.Length())
	n := 0
	for c := 0; c < markChar; c++ {
		if int(ctx.charmap.At(c)) == lig {
			n++
		}
	}
	return max(0, min(n-1, compCount-1))
}

// GPOS Lookup Type 6, Format 1: MarkToMark Attachment.
//
//	uint16   | posFormat           | Format identifier: format = 1
//	Offset16 | mark1CoverageOffset | Offset to Combining Mark Coverage table, from beginning of MarkMarkPos subtable
//	Offset16 | mark2CoverageOffset | Offset to Base Mark Coverage table, from beginning of MarkMarkPos subtable
//	uint16   | markClassCount      | Number of Combining Mark classes defined
//	Offset16 | mark1ArrayOffset    | Offset to MarkArray table for mark1, from beginning of MarkMarkPos subtable
//	Offset16 | mark2ArrayOffset    | Offset to Mark2Array table for mark2, from beginning of MarkMarkPos subtable
//
// The mark attaches to the previous glyph not ignored by the lookup, which has to be a
// mark itself.
func gposLookupType6Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	mark1Inx := ctx.coverageIndex(st, st+2, first)
	if mark1Inx < 0 {
		return first + 1, false
	}
	prev := ctx.prevGlyph(first - 1)
	if prev < 0 || ctx.glyphs.Flags(prev).Class() != GlyphMark {
		return first + 1, false
	}
	mark2Inx := ctx.coverageIndex(st, st+4, prev)
	if mark2Inx < 0 {
		return first + 1, false
	}
	classCount := int(ctx.table.GetUShort(st + 6))
	class, mark1Anchor := ctx.markRecord(ctx.table.Link16(st, st+8), mark1Inx)
	mark2Anchor := ctx.anchorMatrix(ctx.table.Link16(st, st+10), mark2Inx, class, classCount)
	if mark1Anchor.IsNull() || mark2Anchor.IsNull() {
		return first + 1, false
	}
	tracer().Debugf("GPOS 6|1: attach mark at %d to mark at %d", first, prev)
	ctx.alignAnchors(prev, first, mark2Anchor, mark1Anchor, false)
	return first + 1, true
}
