package ot

import "math/bits"

// --- Device tables ---------------------------------------------------------

// DeviceTable is a view of a device table, which holds resolution-dependent
// corrections of design-unit values:
//
//	uint16 | startSize   | Smallest size to correct, in ppem
//	uint16 | endSize     | Largest size to correct, in ppem
//	uint16 | deltaFormat | Format of deltaValue array data: 0x0001, 0x0002, or 0x0003
//	uint16 | deltaValue[ ] | Array of compressed data
//
// Delta formats 1, 2 and 3 pack signed 2-, 4- and 8-bit values into uint16 words,
// most significant bits first. Format 0x8000 denotes a VariationIndex table, which
// carries no deltas for static fonts.
type DeviceTable struct {
	table  FontTable
	offset int
}

// NewDeviceTable returns a device table view at a byte offset into a table.
func NewDeviceTable(table FontTable, offset int) DeviceTable {
	return DeviceTable{table: table, offset: offset}
}

// IsNull is true for a missing device table.
func (dt DeviceTable) IsNull() bool {
	return dt.offset == nullOffset || !dt.table.IsPresent()
}

// Value returns the pixel adjustment for a size of ppem pixels per em.
func (dt DeviceTable) Value(ppem uint16) int {
	if dt.IsNull() {
		return 0
	}
	start, end := dt.table.GetUShort(dt.offset), dt.table.GetUShort(dt.offset+2)
	format := dt.table.GetUShort(dt.offset + 4)
	if format < 1 || format > 3 || ppem < start || ppem > end {
		return 0
	}
	bitsPerValue := 1 << format // 2, 4, 8
	perWord := 16 / bitsPerValue
	inx := int(ppem - start)
	word := dt.table.GetUShort(dt.offset + 6 + (inx/perWord)*2)
	shift := 16 - bitsPerValue*(inx%perWord+1)
	v := int(word>>shift) & (1<<bitsPerValue - 1)
	if v >= 1<<(bitsPerValue-1) { // sign extension
		v -= 1 << bitsPerValue
	}
	return v
}

// --- Value records ---------------------------------------------------------

// ValueFormat is a bitmask that describes which fields are present in a ValueRecord.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#value-record
type ValueFormat uint16

const (
	ValueFormatXPlacement ValueFormat = 0x0001 // Includes horizontal adjustment for placement
	ValueFormatYPlacement ValueFormat = 0x0002 // Includes vertical adjustment for placement
	ValueFormatXAdvance   ValueFormat = 0x0004 // Includes horizontal adjustment for advance
	ValueFormatYAdvance   ValueFormat = 0x0008 // Includes vertical adjustment for advance
	ValueFormatXPlaDevice ValueFormat = 0x0010 // Includes Device table for horizontal placement
	ValueFormatYPlaDevice ValueFormat = 0x0020 // Includes Device table for vertical placement
	ValueFormatXAdvDevice ValueFormat = 0x0040 // Includes Device table for horizontal advance
	ValueFormatYAdvDevice ValueFormat = 0x0080 // Includes Device table for vertical advance
	// Bits 0x0F00 are reserved for future use
)

// ValueRecordSize returns the size in bytes of a value record of a given format.
func ValueRecordSize(format ValueFormat) int {
	return 2 * bits.OnesCount16(uint16(format&0x00FF))
}

// ValueRecord represents a positioning adjustment for a glyph.
// The fields present depend on the ValueFormat bitmask, absent fields are zero.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#value-record
type ValueRecord struct {
	XPlacement int16       // Horizontal adjustment for placement, in design units
	YPlacement int16       // Vertical adjustment for placement, in design units
	XAdvance   int16       // Horizontal adjustment for advance, in design units
	YAdvance   int16       // Vertical adjustment for advance, in design units
	XPlaDevice DeviceTable // Device table for horizontal placement (may be null)
	YPlaDevice DeviceTable // Device table for vertical placement (may be null)
	XAdvDevice DeviceTable // Device table for horizontal advance (may be null)
	YAdvDevice DeviceTable // Device table for vertical advance (may be null)
}

// ReadValueRecord reads a value record of a given format at a byte offset.
// Device table offsets are resolved relative to parent, the positioning subtable
// containing the record.
func ReadValueRecord(table FontTable, offset int, format ValueFormat, parent int) ValueRecord {
	vr := ValueRecord{
		XPlaDevice: DeviceTable{offset: nullOffset},
		YPlaDevice: DeviceTable{offset: nullOffset},
		XAdvDevice: DeviceTable{offset: nullOffset},
		YAdvDevice: DeviceTable{offset: nullOffset},
	}
	pos := offset
	next := func() int {
		p := pos
		pos += 2
		return p
	}
	if format&ValueFormatXPlacement != 0 {
		vr.XPlacement = table.GetShort(next())
	}
	if format&ValueFormatYPlacement != 0 {
		vr.YPlacement = table.GetShort(next())
	}
	if format&ValueFormatXAdvance != 0 {
		vr.XAdvance = table.GetShort(next())
	}
	if format&ValueFormatYAdvance != 0 {
		vr.YAdvance = table.GetShort(next())
	}
	if format&ValueFormatXPlaDevice != 0 {
		vr.XPlaDevice = DeviceTable{table: table, offset: link16(table, parent, next())}
	}
	if format&ValueFormatYPlaDevice != 0 {
		vr.YPlaDevice = DeviceTable{table: table, offset: link16(table, parent, next())}
	}
	if format&ValueFormatXAdvDevice != 0 {
		vr.XAdvDevice = DeviceTable{table: table, offset: link16(table, parent, next())}
	}
	if format&ValueFormatYAdvDevice != 0 {
		vr.YAdvDevice = DeviceTable{table: table, offset: link16(table, parent, next())}
	}
	assertEqualInt("value record size", pos-offset, ValueRecordSize(format))
	return vr
}

// --- Anchors ---------------------------------------------------------------

// Anchor is a view of an anchor table. Anchors come in three formats:
//
//	Format 1: uint16 anchorFormat, int16 xCoordinate, int16 yCoordinate
//	Format 2: Format 1 + uint16 anchorPoint (index to glyph contour point)
//	Format 3: Format 1 + Offset16 xDeviceOffset, Offset16 yDeviceOffset (from beginning of Anchor table)
type Anchor struct {
	table  FontTable
	offset int
}

// NewAnchor returns an anchor view at a byte offset into a table.
func NewAnchor(table FontTable, offset int) Anchor {
	return Anchor{table: table, offset: offset}
}

// AnchorAt follows the Offset16 stored at byte position at, relative to base,
// to an anchor table. A NULL offset results in a null anchor.
func AnchorAt(table FontTable, base, at int) Anchor {
	return Anchor{table: table, offset: link16(table, base, at)}
}

// IsNull is true for a missing anchor.
func (a Anchor) IsNull() bool {
	return a.offset == nullOffset || !a.table.IsPresent()
}

// Format returns the anchor format (1, 2 or 3).
func (a Anchor) Format() uint16 {
	return a.table.GetUShort(a.offset)
}

// Coords returns the design-unit coordinates of the anchor.
func (a Anchor) Coords() (x, y int16) {
	return a.table.GetShort(a.offset + 2), a.table.GetShort(a.offset + 4)
}

// ContourPoint returns the contour point index of a format 2 anchor.
func (a Anchor) ContourPoint() (uint16, bool) {
	if a.Format() != 2 {
		return 0, false
	}
	return a.table.GetUShort(a.offset + 6), true
}

// Devices returns the device tables of a format 3 anchor. For other formats,
// null device tables are returned.
func (a Anchor) Devices() (x, y DeviceTable) {
	if a.Format() != 3 {
		return DeviceTable{offset: nullOffset}, DeviceTable{offset: nullOffset}
	}
	x = DeviceTable{table: a.table, offset: link16(a.table, a.offset, a.offset+6)}
	y = DeviceTable{table: a.table, offset: link16(a.table, a.offset, a.offset+8)}
	return
}
