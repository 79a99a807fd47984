package otlayout

import (
	"encoding/binary"
	"fmt"

	"github.com/npillmayer/glyphshaper/ot"
)

// --- Synthetic font tables -------------------------------------------------

// link is a sub-structure referenced by an Offset16, relative to the start of the
// structure containing the offset. A nil link is a NULL offset.
type link []byte

// link32 is a sub-structure referenced by an Offset32.
type link32 []byte

// structure assembles a binary structure from its fields: int values are written as
// uint16 words, strings as tags, []byte verbatim. Linked sub-structures are appended
// after the fields, in order of appearance.
func structure(fields ...any) []byte {
	type patch struct {
		at   int
		wide bool
		data []byte
	}
	var head []byte
	var patches []patch
	for _, f := range fields {
		switch v := f.(type) {
		case int:
			head = binary.BigEndian.AppendUint16(head, uint16(v))
		case string:
			head = append(head, ([]byte(v + "    "))[:4]...)
		case []byte:
			head = append(head, v...)
		case link:
			patches = append(patches, patch{at: len(head), data: v})
			head = append(head, 0, 0)
		case link32:
			patches = append(patches, patch{at: len(head), wide: true, data: v})
			head = append(head, 0, 0, 0, 0)
		default:
			panic(fmt.Sprintf("cannot assemble field of type %T", f))
		}
	}
	out := head
	for _, p := range patches {
		if p.data == nil {
			continue
		}
		if p.wide {
			binary.BigEndian.PutUint32(out[p.at:], uint32(len(out)))
		} else {
			binary.BigEndian.PutUint16(out[p.at:], uint16(len(out)))
		}
		out = append(out, p.data...)
	}
	return out
}

func ints(vals ...int) []any {
	r := make([]any, len(vals))
	for i, v := range vals {
		r[i] = v
	}
	return r
}

func fields(head []any, tail ...any) []any {
	return append(head, tail...)
}

// coverage builds a format 1 coverage table. glyphs must be sorted.
func coverage(glyphs ...int) []byte {
	return structure(fields(ints(1, len(glyphs)), ints(glyphs...)...)...)
}

// coverageRange builds a format 2 coverage table with a single range.
func coverageRange(start, end int) []byte {
	return structure(2, 1, start, end, 0)
}

type classRange struct {
	start, end, class int
}

// classDef builds a format 2 class definition. ranges must be sorted.
func classDef(ranges ...classRange) []byte {
	f := ints(2, len(ranges))
	for _, r := range ranges {
		f = append(f, r.start, r.end, r.class)
	}
	return structure(f...)
}

func anchor(x, y int) []byte {
	return structure(1, x, y)
}

func pointAnchor(x, y, point int) []byte {
	return structure(2, x, y, point)
}

// extension wraps a subtable into an extension subtable of a lookup type.
func extension(lookupType ot.LayoutTableLookupType, subtable []byte) []byte {
	return structure(1, int(lookupType), link32(subtable))
}

type testLookup struct {
	typ       ot.LayoutTableLookupType
	flag      ot.LayoutTableLookupFlag
	markSet   int // used with LOOKUP_FLAG_USE_MARK_FILTERING_SET
	subtables [][]byte
}

type testFeature struct {
	tag     string
	lookups []int
}

type testScript struct {
	tag      string
	features []int // nil for all features
}

// testLayout describes a GSUB or GPOS table. Every script has a default language
// system and a language system 'TRK ', both with the same features.
type testLayout struct {
	scripts  []testScript // default is 'latn' with all features
	features []testFeature
	required string // tag of the required feature, if any
	lookups  []testLookup
}

func (l testLayout) bytes() []byte {
	scripts := l.scripts
	if len(scripts) == 0 {
		scripts = []testScript{{tag: "latn"}}
	}
	req := 0xFFFF
	all := make([]int, len(l.features))
	for i, f := range l.features {
		all[i] = i
		if f.tag == l.required {
			req = i
		}
	}
	langSys := func(features []int) link {
		if features == nil {
			features = all
		}
		return structure(fields(ints(0, req, len(features)), ints(features...)...)...)
	}
	scriptList := ints(len(scripts))
	for _, s := range scripts {
		script := structure(langSys(s.features), 1, "TRK ", langSys(s.features))
		scriptList = append(scriptList, s.tag, link(script))
	}
	featureList := ints(len(l.features))
	for _, f := range l.features {
		feature := structure(fields(ints(0, len(f.lookups)), ints(f.lookups...)...)...)
		featureList = append(featureList, f.tag, link(feature))
	}
	lookupList := ints(len(l.lookups))
	for _, lk := range l.lookups {
		lookup := ints(int(lk.typ), int(lk.flag), len(lk.subtables))
		for _, st := range lk.subtables {
			lookup = append(lookup, link(st))
		}
		if lk.flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
			lookup = append(lookup, lk.markSet)
		}
		lookupList = append(lookupList, link(structure(lookup...)))
	}
	return structure(1, 0,
		link(structure(scriptList...)),
		link(structure(featureList...)),
		link(structure(lookupList...)))
}

// gdef builds a GDEF table (version 1.2) from glyph classes, mark attachment classes
// and mark glyph sets. Empty arguments result in NULL offsets.
func gdef(classes []classRange, attachClasses []classRange, markSets ...[]int) []byte {
	var classDefs, attachDefs, sets link
	if len(classes) > 0 {
		classDefs = classDef(classes...)
	}
	if len(attachClasses) > 0 {
		attachDefs = classDef(attachClasses...)
	}
	if len(markSets) > 0 {
		f := ints(1, len(markSets))
		for _, set := range markSets {
			f = append(f, link32(coverage(set...)))
		}
		sets = structure(f...)
	}
	return structure(1, 2, classDefs, 0, 0, attachDefs, sets)
}

// --- Test font -------------------------------------------------------------

type testFont struct {
	tables map[ot.Tag][]byte
	caches map[ot.Tag][]byte
	points map[ot.GlyphIndex][]LayoutOffset
}

var _ OpenTypeFont = (*testFont)(nil)

func newTestFont() *testFont {
	return &testFont{
		tables: make(map[ot.Tag][]byte),
		caches: make(map[ot.Tag][]byte),
		points: make(map[ot.GlyphIndex][]LayoutOffset),
	}
}

func (f *testFont) with(tag ot.Tag, data []byte) *testFont {
	f.tables[tag] = data
	return f
}

func (f *testFont) GetFontTable(tag ot.Tag) ot.FontTable {
	return ot.NewFontTable(tag, f.tables[tag])
}

func (f *testFont) GetGlyphPointCoord(glyph ot.GlyphIndex, pointIndex uint16) (LayoutOffset, bool) {
	if pts := f.points[glyph]; int(pointIndex) < len(pts) {
		return pts[pointIndex], true
	}
	return LayoutOffset{}, false
}

func (f *testFont) GetTableCache(tag ot.Tag) []byte {
	return f.caches[tag]
}

func (f *testFont) AllocateTableCache(tag ot.Tag, size int) []byte {
	b := make([]byte, size)
	f.caches[tag] = b
	return b
}

// --- Runs ------------------------------------------------------------------

func run(glyphs ...int) (*GlyphInfoList, *UshortList) {
	gids := make([]ot.GlyphIndex, len(glyphs))
	for i, g := range glyphs {
		gids[i] = ot.GlyphIndex(g)
	}
	return MakeGlyphRun(gids)
}

func glyphsOf(gl *GlyphInfoList) []int {
	r := make([]int, gl.Length())
	for i := range r {
		r[i] = int(gl.Glyph(i))
	}
	return r
}

func valuesOf(l *UshortList) []int {
	r := make([]int, l.Length())
	for i := range r {
		r[i] = int(l.At(i))
	}
	return r
}

// feature enables a feature for the whole of a run of n characters.
func feature(tag string, n int) Feature {
	return Feature{Tag: ot.T(tag), StartIndex: 0, Length: n, Parameter: 1}
}

// substitute runs the GSUB lookups of font for script 'latn' and language 'dflt'.
func substitute(font OpenTypeFont, features []Feature, gl *GlyphInfoList, cm *UshortList) error {
	return SubstituteGlyphs(font, nil, ot.T("latn"), ot.Dflt, features, cm, gl)
}

// newTestCtx prepares the application of single lookups of a layout table to a run.
func newTestCtx(font *testFont, tag ot.Tag, gl *GlyphInfoList, cm *UshortList) *applyCtx {
	table := font.GetFontTable(tag)
	return &applyCtx{
		font:    font,
		table:   table,
		lookups: ot.NewLayoutTable(table).LookupList(),
		gdef:    ot.NewGDEFTable(font.GetFontTable(ot.GDEF)),
		isGPos:  tag == ot.GPOS,
		ws:      NewLayoutWorkspace(),
		glyphs:  gl,
		charmap: cm,
	}
}
