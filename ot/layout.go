package ot

import "strconv"

// LayoutTable is a view of the header of a GSUB or a GPOS table.
//
// OpenType Layout tables GSUB and GPOS share the same top-level structure:
//
//	uint16   | majorVersion      | Major version of the table
//	uint16   | minorVersion      | Minor version of the table
//	Offset16 | scriptListOffset  | Offset to ScriptList table, from beginning of table
//	Offset16 | featureListOffset | Offset to FeatureList table, from beginning of table
//	Offset16 | lookupListOffset  | Offset to LookupList table, from beginning of table
//
// Version 1.1 appends an Offset32 to a FeatureVariations table, which we do not use.
type LayoutTable struct {
	table FontTable
}

// NewLayoutTable wraps a GSUB or GPOS font table.
func NewLayoutTable(table FontTable) LayoutTable {
	return LayoutTable{table: table}
}

// IsNull is true if the font does not contain the table.
func (lt LayoutTable) IsNull() bool {
	return !lt.table.IsPresent()
}

// Table returns the underlying font table.
func (lt LayoutTable) Table() FontTable {
	return lt.table
}

// ScriptList returns the script list of the table.
func (lt LayoutTable) ScriptList() ScriptList {
	if lt.IsNull() {
		return ScriptList{offset: nullOffset}
	}
	return ScriptList{table: lt.table, offset: lt.link(4)}
}

// FeatureList returns the feature list of the table.
func (lt LayoutTable) FeatureList() FeatureList {
	if lt.IsNull() {
		return FeatureList{offset: nullOffset}
	}
	return FeatureList{table: lt.table, offset: lt.link(6)}
}

// LookupList returns the lookup list of the table.
func (lt LayoutTable) LookupList() LookupList {
	if lt.IsNull() {
		return LookupList{offset: nullOffset}
	}
	return LookupList{table: lt.table, offset: lt.link(8)}
}

func (lt LayoutTable) link(at int) int {
	if off := lt.table.GetUShort(at); off != 0 {
		return int(off)
	}
	return nullOffset
}

// link16 follows an Offset16 stored at byte position at, relative to base.
// A zero offset is a NULL link.
func link16(t FontTable, base, at int) int {
	if off := t.GetUShort(at); off != 0 {
		return base + int(off)
	}
	return nullOffset
}

// link32 follows an Offset32 stored at byte position at, relative to base.
func link32(t FontTable, base, at int) int {
	if off := t.GetUInt(at); off != 0 {
		return base + int(off)
	}
	return nullOffset
}

// --- Script list -----------------------------------------------------------

// ScriptList is a view of a layout table's script list:
//
//	uint16       | scriptCount                | Number of ScriptRecords
//	ScriptRecord | scriptRecords[scriptCount] | Array of ScriptRecords, listed alphabetically by script tag
//
// with ScriptRecord = { Tag scriptTag, Offset16 scriptOffset }.
type ScriptList struct {
	table  FontTable
	offset int
}

// IsNull is true for a missing script list.
func (sl ScriptList) IsNull() bool {
	return sl.offset == nullOffset
}

// Count returns the number of scripts.
func (sl ScriptList) Count() int {
	if sl.IsNull() {
		return 0
	}
	return int(sl.table.GetUShort(sl.offset))
}

// TagAt returns the tag of the i-th script.
func (sl ScriptList) TagAt(i int) Tag {
	return sl.table.GetTag(sl.offset + 2 + i*6)
}

// ScriptAt returns the i-th script.
func (sl ScriptList) ScriptAt(i int) Script {
	return Script{table: sl.table, offset: link16(sl.table, sl.offset, sl.offset+2+i*6+4)}
}

// FindScript returns the script for a tag, or a null script.
func (sl ScriptList) FindScript(tag Tag) Script {
	for i := 0; i < sl.Count(); i++ {
		if sl.TagAt(i) == tag {
			return sl.ScriptAt(i)
		}
	}
	return Script{offset: nullOffset}
}

// Script is a view of a script table:
//
//	Offset16      | defaultLangSysOffset         | Offset to default LangSys table, from beginning of Script table, may be NULL
//	uint16        | langSysCount                 | Number of LangSysRecords for this script, excluding the default LangSys
//	LangSysRecord | langSysRecords[langSysCount] | Array of LangSysRecords, listed alphabetically by LangSys tag
type Script struct {
	table  FontTable
	offset int
}

// IsNull is true for a script not found.
func (s Script) IsNull() bool {
	return s.offset == nullOffset
}

// DefaultLangSys returns the default language system, which may be null.
func (s Script) DefaultLangSys() LangSys {
	if s.IsNull() {
		return LangSys{offset: nullOffset}
	}
	return LangSys{table: s.table, offset: link16(s.table, s.offset, s.offset)}
}

// LangSysCount returns the number of language systems, excluding the default one.
func (s Script) LangSysCount() int {
	if s.IsNull() {
		return 0
	}
	return int(s.table.GetUShort(s.offset + 2))
}

// LangSysTagAt returns the tag of the i-th language system.
func (s Script) LangSysTagAt(i int) Tag {
	return s.table.GetTag(s.offset + 4 + i*6)
}

// LangSysAt returns the i-th language system.
func (s Script) LangSysAt(i int) LangSys {
	return LangSys{table: s.table, offset: link16(s.table, s.offset, s.offset+4+i*6+4)}
}

// FindLangSys returns the language system for a tag, or a null language system.
// Tag 'dflt' selects the default language system, if present. Some fonts
// mistakenly carry an explicit 'dflt' record, which will be found as well.
func (s Script) FindLangSys(tag Tag) LangSys {
	if s.IsNull() {
		return LangSys{offset: nullOffset}
	}
	if tag == Dflt {
		if dflt := s.DefaultLangSys(); !dflt.IsNull() {
			return dflt
		}
	}
	for i := 0; i < s.LangSysCount(); i++ {
		if s.LangSysTagAt(i) == tag {
			return s.LangSysAt(i)
		}
	}
	return LangSys{offset: nullOffset}
}

// LangSys is a view of a language system table:
//
//	Offset16 | lookupOrderOffset    | = NULL (reserved for an offset to a reordering table)
//	uint16   | requiredFeatureIndex | Index of a feature required for this language system; if no required features = 0xFFFF
//	uint16   | featureIndexCount    | Number of feature index values for this language system, excludes the required feature
//	uint16   | featureIndices[featureIndexCount] | Array of indices into the FeatureList, in arbitrary order
type LangSys struct {
	table  FontTable
	offset int
}

// IsNull is true for a language system not found.
func (ls LangSys) IsNull() bool {
	return ls.offset == nullOffset
}

// RequiredFeatureIndex returns the index of the required feature, if any.
func (ls LangSys) RequiredFeatureIndex() (int, bool) {
	if ls.IsNull() {
		return 0, false
	}
	inx := ls.table.GetUShort(ls.offset + 2)
	return int(inx), inx != 0xFFFF
}

// FeatureCount returns the number of features, excluding the required feature.
func (ls LangSys) FeatureCount() int {
	if ls.IsNull() {
		return 0
	}
	return int(ls.table.GetUShort(ls.offset + 4))
}

// FeatureIndex returns the i-th index into the feature list.
func (ls LangSys) FeatureIndex(i int) int {
	return int(ls.table.GetUShort(ls.offset + 6 + i*2))
}

// --- Feature list ----------------------------------------------------------

// FeatureList is a view of a layout table's feature list:
//
//	uint16        | featureCount                 | Number of FeatureRecords in this table
//	FeatureRecord | featureRecords[featureCount] | Array of FeatureRecords, zero-based (first feature has FeatureIndex = 0), listed alphabetically by feature tag
type FeatureList struct {
	table  FontTable
	offset int
}

// IsNull is true for a missing feature list.
func (fl FeatureList) IsNull() bool {
	return fl.offset == nullOffset
}

// Count returns the number of features.
func (fl FeatureList) Count() int {
	if fl.IsNull() {
		return 0
	}
	return int(fl.table.GetUShort(fl.offset))
}

// TagAt returns the tag of the i-th feature.
func (fl FeatureList) TagAt(i int) Tag {
	return fl.table.GetTag(fl.offset + 2 + i*6)
}

// FeatureAt returns the i-th feature.
func (fl FeatureList) FeatureAt(i int) Feature {
	if fl.IsNull() || i < 0 || i >= fl.Count() {
		return Feature{offset: nullOffset}
	}
	return Feature{table: fl.table, offset: link16(fl.table, fl.offset, fl.offset+2+i*6+4)}
}

// FindFeature returns the feature for a tag among the features of a language system.
// The required feature of the language system is considered as well.
func (fl FeatureList) FindFeature(ls LangSys, tag Tag) Feature {
	if fl.IsNull() || ls.IsNull() {
		return Feature{offset: nullOffset}
	}
	if req, ok := ls.RequiredFeatureIndex(); ok && req < fl.Count() && fl.TagAt(req) == tag {
		return fl.FeatureAt(req)
	}
	for i := 0; i < ls.FeatureCount(); i++ {
		inx := ls.FeatureIndex(i)
		if inx < fl.Count() && fl.TagAt(inx) == tag {
			return fl.FeatureAt(inx)
		}
	}
	return Feature{offset: nullOffset}
}

// Feature is a view of a feature table:
//
//	Offset16 | featureParamsOffset | Offset from start of Feature table to FeatureParams table, if defined for the feature and present, else NULL
//	uint16   | lookupIndexCount    | Number of LookupList indices for this feature
//	uint16   | lookupListIndices[lookupIndexCount] | Array of indices into the LookupList, zero-based (first lookup is LookupListIndex = 0)
type Feature struct {
	table  FontTable
	offset int
}

// IsNull is true for a feature not found.
func (f Feature) IsNull() bool {
	return f.offset == nullOffset
}

// LookupCount returns the number of lookups of this feature.
func (f Feature) LookupCount() int {
	if f.IsNull() {
		return 0
	}
	return int(f.table.GetUShort(f.offset + 2))
}

// LookupIndex returns the i-th index into the lookup list.
func (f Feature) LookupIndex(i int) int {
	return int(f.table.GetUShort(f.offset + 4 + i*2))
}

// --- Lookup list -----------------------------------------------------------

// LookupList is a view of a layout table's lookup list:
//
//	uint16   | lookupCount            | Number of lookups in this table
//	Offset16 | lookups[lookupCount]   | Array of offsets to Lookup tables, from beginning of LookupList, zero based (first lookup is Lookup index = 0)
type LookupList struct {
	table  FontTable
	offset int
}

// IsNull is true for a missing lookup list.
func (ll LookupList) IsNull() bool {
	return ll.offset == nullOffset
}

// Count returns the number of lookups.
func (ll LookupList) Count() int {
	if ll.IsNull() {
		return 0
	}
	return int(ll.table.GetUShort(ll.offset))
}

// Lookup returns the i-th lookup, or a null lookup if i is out of range.
func (ll LookupList) Lookup(i int) Lookup {
	if i < 0 || i >= ll.Count() {
		return Lookup{offset: nullOffset}
	}
	return Lookup{table: ll.table, offset: link16(ll.table, ll.offset, ll.offset+2+i*2)}
}

// LayoutTableLookupFlag is a flag type for layout tables (GPOS and GSUB).
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const ( // LookupFlag bit enumeration
	// Note that the RIGHT_TO_LEFT flag is used only for GPOS type 3 lookups and is ignored
	// otherwise. It is not used by client software in determining text direction.
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, indicates that the lookup table structure is followed by a MarkFilteringSet field.
	LOOKUP_FLAG_reserved                  LayoutTableLookupFlag = 0x00E0 // For future use (Set to zero)
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified.
)

// LayoutTableLookupType is a type identifier for layout lookup records (GPOS and GSUB).
// Enum values are different for GPOS and GSUB.
type LayoutTableLookupType uint16

// GSUB Lookup Type Enumeration
const (
	GSubLookupTypeSingle             LayoutTableLookupType = 1 // Replace one glyph with one glyph
	GSubLookupTypeMultiple           LayoutTableLookupType = 2 // Replace one glyph with more than one glyph
	GSubLookupTypeAlternate          LayoutTableLookupType = 3 // Replace one glyph with one of many glyphs
	GSubLookupTypeLigature           LayoutTableLookupType = 4 // Replace multiple glyphs with one glyph
	GSubLookupTypeContext            LayoutTableLookupType = 5 // Replace one or more glyphs in context
	GSubLookupTypeChainingContext    LayoutTableLookupType = 6 // Replace one or more glyphs in chained context
	GSubLookupTypeExtensionSubs      LayoutTableLookupType = 7 // Extension mechanism for other substitutions
	GSubLookupTypeReverseChaining    LayoutTableLookupType = 8 // Applied in reverse order, replace single glyph in chaining context
	gsubLookupTypeMax                                      = GSubLookupTypeReverseChaining
)

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
	gposLookupTypeMax                                     = GPosLookupTypeExtensionPos
)

const gsubLookupTypeNames = "Single|Multiple|Alternate|Ligature|Context|Chained|Ext|Reverse"

var gsubLookupTypeInx = [...]int{0, 7, 16, 26, 35, 43, 51, 55, 63}

// GSubString interprets a layout table lookup type as a GSUB table type.
func (lt LayoutTableLookupType) GSubString() string {
	if lt >= 1 && lt <= gsubLookupTypeMax {
		return gsubLookupTypeNames[gsubLookupTypeInx[lt-1] : gsubLookupTypeInx[lt]-1]
	}
	return strconv.Itoa(int(lt))
}

const gposLookupTypeNames = "Single|Pair|Cursive|MarkToBase|MarkToLigature|MarkToMark|ContextPos|Chained|Ext"

var gposLookupTypeInx = [...]int{0, 7, 12, 20, 31, 46, 57, 68, 76, 80}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= 1 && lt <= gposLookupTypeMax {
		return gposLookupTypeNames[gposLookupTypeInx[lt-1] : gposLookupTypeInx[lt]-1]
	}
	return strconv.Itoa(int(lt))
}

// Lookup is a view of a lookup table:
//
//	uint16   | lookupType                | Different enumerations for GSUB and GPOS
//	uint16   | lookupFlag                | Lookup qualifiers
//	uint16   | subTableCount             | Number of subtables for this lookup
//	Offset16 | subtableOffsets[subTableCount] | Array of offsets to lookup subtables, from beginning of Lookup table
//	uint16   | markFilteringSet          | Index (base 0) into GDEF mark glyph sets structure. This field is only present if the USE_MARK_FILTERING_SET lookup flag is set.
type Lookup struct {
	table  FontTable
	offset int
}

// IsNull is true for a lookup not found.
func (l Lookup) IsNull() bool {
	return l.offset == nullOffset
}

// Offset returns the absolute offset of the lookup within its font table.
func (l Lookup) Offset() int {
	return l.offset
}

// Type returns the lookup type, as declared in the lookup header. For extension lookups
// use ResolveSubtable to find the type of the effective subtables.
func (l Lookup) Type() LayoutTableLookupType {
	return LayoutTableLookupType(l.table.GetUShort(l.offset))
}

// Flag returns the lookup flags.
func (l Lookup) Flag() LayoutTableLookupFlag {
	return LayoutTableLookupFlag(l.table.GetUShort(l.offset + 2))
}

// SubtableCount returns the number of subtables.
func (l Lookup) SubtableCount() int {
	if l.IsNull() {
		return 0
	}
	return int(l.table.GetUShort(l.offset + 4))
}

// SubtableOffset returns the absolute offset of the i-th subtable.
func (l Lookup) SubtableOffset(i int) int {
	return link16(l.table, l.offset, l.offset+6+i*2)
}

// MarkFilteringSet returns the index of the GDEF mark glyph set to use, if the lookup flag
// USE_MARK_FILTERING_SET is set.
func (l Lookup) MarkFilteringSet() (int, bool) {
	if l.Flag()&LOOKUP_FLAG_USE_MARK_FILTERING_SET == 0 {
		return 0, false
	}
	return int(l.table.GetUShort(l.offset + 6 + l.SubtableCount()*2)), true
}

// ResolveSubtable returns the effective lookup type and subtable offset of the i-th subtable,
// following extension subtables (GSUB type 7, GPOS type 9) one level deeper.
//
//	uint16   | substFormat         | Format identifier. Set to 1.
//	uint16   | extensionLookupType | Lookup type of subtable referenced by extensionOffset
//	Offset32 | extensionOffset     | Offset to the extension subtable, relative to the start of the Extension subtable
func (l Lookup) ResolveSubtable(i int, extensionType LayoutTableLookupType) (LayoutTableLookupType, int) {
	lt, offset := l.Type(), l.SubtableOffset(i)
	if lt != extensionType || offset == nullOffset {
		return lt, offset
	}
	if l.table.GetUShort(offset) != 1 {
		RaiseFormatError(l.table.Tag(), "Extension", offset, "unknown extension subtable format")
	}
	lt = LayoutTableLookupType(l.table.GetUShort(offset + 2))
	if lt == extensionType {
		RaiseFormatError(l.table.Tag(), "Extension", offset, "extension subtable refers to extension")
	}
	return lt, link32(l.table, offset, offset+4)
}
