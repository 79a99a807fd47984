package otquery

import (
	"github.com/npillmayer/glyphshaper/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, 'dflt' will be returned for the language. If the script has no support in the
// font, DFLT will be returned for the script. GSUB is checked first, then GPOS.
func FontSupportsScript(font TableSource, scr ot.Tag, lang ot.Tag) (script ot.Tag, langSys ot.Tag) {
	if font == nil {
		return 0, 0
	}
	script, langSys = ot.DFLT, ot.Dflt
	defer ot.CatchFormatError(nil)
	for _, tag := range []ot.Tag{ot.GSUB, ot.GPOS} {
		lt := ot.NewLayoutTable(font.GetFontTable(tag))
		sc := lt.ScriptList().FindScript(scr)
		if sc.IsNull() {
			continue
		}
		tracer().Debugf("script %s is contained in %s", scr, tag)
		script = scr
		if !sc.FindLangSys(lang).IsNull() {
			return scr, lang
		}
	}
	if script == ot.DFLT {
		tracer().Infof("cannot find script %s in font", scr)
	}
	return script, langSys
}

// LayoutTables lists the OpenType layout tables present in a font.
func LayoutTables(font TableSource) []string {
	var tables []string
	for _, tag := range []ot.Tag{ot.GDEF, ot.GSUB, ot.GPOS} {
		if font.GetFontTable(tag).IsPresent() {
			tables = append(tables, tag.String())
		}
	}
	return tables
}

// FontMetrics retrieves selected metrics of a font. Ascent, descent and line gap are
// taken from table 'hhea', with the typographic metrics of table 'OS/2' as a fallback.
func FontMetrics(font TableSource) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if hhea := font.GetFontTable(ot.T("hhea")); hhea.Len() >= hheaTableSize {
		metrics.Ascent = sfnt.Units(hhea.GetShort(4))
		metrics.Descent = sfnt.Units(hhea.GetShort(6))
		metrics.LineGap = sfnt.Units(hhea.GetShort(8))
		metrics.MaxAdvance = sfnt.Units(hhea.GetUShort(10))
	}
	os2 := font.GetFontTable(ot.T("OS/2"))
	if metrics.Ascent == 0 && metrics.Descent == 0 && os2.Len() >= os2TypoSize {
		tracer().Debugf("OS/2 typo metrics: %d / %d", os2.GetShort(68), os2.GetShort(70))
		metrics.Ascent = sfnt.Units(os2.GetShort(68))
		metrics.Descent = sfnt.Units(os2.GetShort(70))
		metrics.LineGap = sfnt.Units(os2.GetShort(72))
	}
	if os2.Len() >= os2HeightsSize && os2.GetUShort(0) >= 2 {
		metrics.XHeight = sfnt.Units(os2.GetShort(86))
		metrics.CapHeight = sfnt.Units(os2.GetShort(88))
	}
	if head, ok := HeadInfo(font); ok {
		metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	}
	return metrics
}

const (
	hheaTableSize  = 36
	os2TypoSize    = 74 // up to sTypoLineGap
	os2HeightsSize = 90 // up to sCapHeight
)

// --- Glyph Routines --------------------------------------------------------

// GlyphClass returns the GDEF glyph class of a glyph. Fonts without GDEF leave every
// glyph unclassified.
func GlyphClass(font TableSource, gid ot.GlyphIndex) (class ot.GlyphClassDefEnum) {
	defer ot.CatchFormatError(nil)
	return ot.NewGDEFTable(font.GetFontTable(ot.GDEF)).GlyphClass(gid)
}

// GlyphMetrics retrieves metrics for a given glyph. Glyphs outside of the font's
// tables have zero metrics.
func GlyphMetrics(font TableSource, gid ot.GlyphIndex) (metrics GlyphMetricsInfo) {
	defer ot.CatchFormatError(nil)
	metrics.Glyph = gid
	//
	// table hmtx: advance width and left side bearing
	hhea, hmtx := font.GetFontTable(ot.T("hhea")), font.GetFontTable(ot.T("hmtx"))
	if hhea.Len() >= hheaTableSize && hmtx.IsPresent() {
		n := int(hhea.GetUShort(34)) // numberOfHMetrics
		if n == 0 {
			return
		}
		if int(gid) < n {
			metrics.Advance = sfnt.Units(hmtx.GetUShort(4 * int(gid)))
			metrics.LSB = sfnt.Units(hmtx.GetShort(4*int(gid) + 2))
		} else {
			metrics.Advance = sfnt.Units(hmtx.GetUShort(4 * (n - 1)))
			metrics.LSB = sfnt.Units(hmtx.GetShort(4*n + 2*(int(gid)-n)))
		}
	}
	//
	// table glyf: bounding box
	if loc, ok := glyphLocation(font, gid); ok {
		metrics.BBox = glyphBoundingBox(font.GetFontTable(ot.T("glyf")), loc)
	}
	// rsb = aw - (lsb + xMax - xMin)
	// Glyphs without contours have no xMin/xMax, and their LSB in 'hmtx' should be zero.
	if !metrics.BBox.IsEmpty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// glyphLocation returns the offset of a glyph's outline in table 'glyf'. Glyphs without
// outline, and fonts without TrueType outlines, return false.
func glyphLocation(font TableSource, gid ot.GlyphIndex) (int, bool) {
	head, ok := HeadInfo(font)
	loca := font.GetFontTable(ot.T("loca"))
	if !ok || !loca.IsPresent() || !font.GetFontTable(ot.T("glyf")).IsPresent() {
		return 0, false
	}
	var from, to int
	if head.IndexToLocFormat == 0 {
		from, to = 2*int(loca.GetUShort(2*int(gid))), 2*int(loca.GetUShort(2*int(gid)+2))
	} else {
		from, to = int(loca.GetUInt(4*int(gid))), int(loca.GetUInt(4*int(gid)+4))
	}
	return from, to > from
}
