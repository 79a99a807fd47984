package otlayout

import (
	"github.com/npillmayer/glyphshaper/ot"
)

// Feature is a layout feature requested for a range of characters.
//
// A feature is in effect for a glyph if the glyph's first character (see
// GlyphInfoList.FirstChars) lies in [StartIndex, StartIndex+Length). Parameter 0 turns
// the feature off; for alternate substitution the parameter selects the alternate
// (1 for the first), other lookup types only need it to be non-zero.
type Feature struct {
	Tag        ot.Tag
	StartIndex int
	Length     int
	Parameter  uint32
}

// ShaperFeaturesList collects the features for a shaping call, typically while a
// shaper walks the characters of a run.
type ShaperFeaturesList struct {
	features []Feature
}

// NewShaperFeaturesList creates an empty list with room for capacity features.
func NewShaperFeaturesList(capacity int) *ShaperFeaturesList {
	return &ShaperFeaturesList{features: make([]Feature, 0, capacity)}
}

// AddFeature appends a feature for the characters [start, start+length). If the
// previous feature has the same tag and parameter and ends at start, it is extended
// instead.
func (l *ShaperFeaturesList) AddFeature(tag ot.Tag, start, length int, param uint32) {
	if length <= 0 {
		return
	}
	if n := len(l.features); n > 0 {
		last := &l.features[n-1]
		if last.Tag == tag && last.Parameter == param && last.StartIndex+last.Length == start {
			last.Length += length
			return
		}
	}
	l.features = append(l.features, Feature{Tag: tag, StartIndex: start, Length: length, Parameter: param})
}

// Features returns the collected features. The slice is owned by the list.
func (l *ShaperFeaturesList) Features() []Feature {
	return l.features
}

// Count returns the number of features.
func (l *ShaperFeaturesList) Count() int {
	return len(l.features)
}

// Reset empties the list, keeping its storage.
func (l *ShaperFeaturesList) Reset() {
	l.features = l.features[:0]
}

// --- Feature application ---------------------------------------------------

// maxContextNesting limits the depth of lookups called from contextual lookups.
// Deeper calls are silently not applied.
const maxContextNesting = 16

// applyCtx is the state of a layout call while applying lookups of a layout table
// to a glyph run.
type applyCtx struct {
	font      OpenTypeFont
	table     ot.FontTable
	lookups   ot.LookupList
	gdef      ot.GDEFTable
	isGPos    bool
	ws        *LayoutWorkspace
	glyphs    *GlyphInfoList
	charmap   *UshortList
	metrics   LayoutMetrics
	advances  []int
	offsets   []LayoutOffset
	flag      ot.LayoutTableLookupFlag // flags of the lookup currently applied
	markSet   int                      // mark filtering set of the lookup currently applied
	parameter uint32                   // parameter of the feature which enabled the top-level lookup
	depth     int                      // nesting of contextual lookups
}

func (ctx *applyCtx) extensionType() ot.LayoutTableLookupType {
	if ctx.isGPos {
		return ot.GPosLookupTypeExtensionPos
	}
	return ot.GSubLookupTypeExtensionSubs
}

// setLookup makes lookup the current lookup and returns a function restoring
// the previous lookup state.
func (ctx *applyCtx) setLookup(lookup ot.Lookup) func() {
	flag, set := ctx.flag, ctx.markSet
	ctx.flag = lookup.Flag()
	ctx.markSet = -1
	if inx, ok := lookup.MarkFilteringSet(); ok {
		ctx.markSet = inx
	}
	return func() {
		ctx.flag, ctx.markSet = flag, set
	}
}

// skipGlyph is true if the current lookup ignores the glyph at pos, according to its
// lookup flags.
func (ctx *applyCtx) skipGlyph(pos int) bool {
	switch ctx.glyphs.Flags(pos).Class() {
	case GlyphBase:
		return ctx.flag&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0
	case GlyphLigature:
		return ctx.flag&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0
	case GlyphMark:
		if ctx.flag&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 {
			return true
		}
		g := ctx.glyphs.Glyph(pos)
		if ctx.flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
			return !ctx.gdef.IsMarkGlyphInSet(ctx.markSet, g)
		}
		if matype := markAttachmentType(ctx.flag); matype != 0 {
			return ctx.gdef.MarkAttachClass(g) != matype
		}
	}
	return false
}

func markAttachmentType(flag ot.LayoutTableLookupFlag) uint16 {
	return uint16(flag&ot.LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK) >> 8
}

// nextGlyph returns the first position ≥ pos not skipped by the current lookup,
// or afterLast.
func (ctx *applyCtx) nextGlyph(pos, afterLast int) int {
	for ; pos < afterLast; pos++ {
		if !ctx.skipGlyph(pos) {
			return pos
		}
	}
	return afterLast
}

// prevGlyph returns the last position ≤ pos not skipped by the current lookup, or -1.
func (ctx *applyCtx) prevGlyph(pos int) int {
	for ; pos >= 0; pos-- {
		if !ctx.skipGlyph(pos) {
			return pos
		}
	}
	return -1
}

// matchSequence matches n glyphs, searching from pos in direction dir (+1 or -1)
// and skipping glyphs ignored by the current lookup. match is called with the index
// of the sequence element and the position of the candidate glyph. It returns the
// position of the last glyph matched, which is pos-dir for an empty sequence.
func (ctx *applyCtx) matchSequence(pos, afterLast, n, dir int,
	match func(k, pos int) bool) (int, bool) {
	//
	last := pos - dir
	for k := 0; k < n; k++ {
		var p int
		if dir > 0 {
			if p = ctx.nextGlyph(last+1, afterLast); p >= afterLast {
				return last, false
			}
		} else {
			if p = ctx.prevGlyph(last - 1); p < 0 {
				return last, false
			}
		}
		if !match(k, p) {
			return last, false
		}
		last = p
	}
	return last, true
}

// --- Glyph classes ---------------------------------------------------------

// glyphClassFlags maps GDEF glyph classes to glyph flags.
var glyphClassFlags = [...]GlyphFlags{
	ot.UnclassifiedGlyph: GlyphUnassigned,
	ot.BaseGlyph:         GlyphBase,
	ot.LigatureGlyph:     GlyphLigature,
	ot.MarkGlyph:         GlyphMark,
	ot.ComponentGlyph:    GlyphComponent,
}

// updateGlyphClasses sets the class bits of the glyphs in [from, to) from GDEF.
func updateGlyphClasses(gdef ot.GDEFTable, glyphs *GlyphInfoList, from, to int) {
	for pos := from; pos < to; pos++ {
		class := GlyphUnassigned
		if c := gdef.GlyphClass(glyphs.Glyph(pos)); int(c) < len(glyphClassFlags) {
			class = glyphClassFlags[c]
		}
		glyphs.SetFlags(pos, glyphs.Flags(pos)&^GlyphClassMask|class)
	}
}

// substituted records a substitution of the glyph at pos and re-classifies it.
func (ctx *applyCtx) substituted(pos int) {
	ctx.glyphs.SetFlags(pos, ctx.glyphs.Flags(pos)|GlyphSubstituted)
	updateGlyphClasses(ctx.gdef, ctx.glyphs, pos, pos+1)
}
