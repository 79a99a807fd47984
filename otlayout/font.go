package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// OpenTypeFont is what the layout engine needs from a font.
//
// GetFontTable returns the binary data of a table, which is not present (see
// ot.FontTable.IsPresent) if the font does not contain it.
//
// GetGlyphPointCoord returns the design-unit coordinates of a contour point of a
// glyph. It is used to resolve anchors which are bound to contour points. Fonts
// without outline access return false, and the anchor's design coordinates are
// used instead.
//
// GetTableCache and AllocateTableCache let the engine store a lookup cache per
// layout table (see CreateLayoutCache). Fonts which do not want to keep caches
// return nil from both.
type OpenTypeFont interface {
	GetFontTable(tag ot.Tag) ot.FontTable
	GetGlyphPointCoord(glyph ot.GlyphIndex, pointIndex uint16) (LayoutOffset, bool)
	GetTableCache(tag ot.Tag) []byte
	AllocateTableCache(tag ot.Tag, size int) []byte
}
