package otquery

import (
	"github.com/npillmayer/glyphshaper/ot"
	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo holds the global metrics of a font, in design units.
type FontMetricsInfo struct {
	UnitsPerEm         sfnt.Units
	Ascent, Descent    sfnt.Units // Descent is negative
	LineGap            sfnt.Units
	MaxAdvance         sfnt.Units // from 'hhea'
	XHeight, CapHeight sfnt.Units // from 'OS/2' version 2 and later, zero otherwise
}

// GlyphMetricsInfo holds the horizontal metrics and outline bounds of a glyph.
type GlyphMetricsInfo struct {
	Glyph    ot.GlyphIndex
	Advance  sfnt.Units
	LSB, RSB sfnt.Units
	BBox     BoundingBox // empty for glyphs without contours
}

// BoundingBox is the bounding box of a glyph outline, as stored in the glyph's
// header in table 'glyf'.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// glyphBoundingBox reads the bounding box of the glyph header at loc.
//
//	int16 | numberOfContours | negative for composite glyphs
//	int16 | xMin, yMin, xMax, yMax
func glyphBoundingBox(glyf ot.FontTable, loc int) BoundingBox {
	return BoundingBox{
		MinX: sfnt.Units(glyf.GetShort(loc + 2)),
		MinY: sfnt.Units(glyf.GetShort(loc + 4)),
		MaxX: sfnt.Units(glyf.GetShort(loc + 6)),
		MaxY: sfnt.Units(glyf.GetShort(loc + 8)),
	}
}

// IsEmpty is true for boxes without area.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.Dx() == 0 || bbox.Dy() == 0
}

// Dx is the width of the box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy is the height of the box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}
