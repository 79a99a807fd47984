/*
Package glyphshaper is for typeface and font handling, with a focus on OpenType
layout: glyph substitution and glyph positioning.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

▪︎ A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

▪︎ A "typecase" is a scaled font, i.e. a font in a certain size for
a certain script and language. The name is reminiscend on the wooden
boxes of typesetters in the era of metal type.
An example is "Helvetica regular 11pt, Latin, en_US".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

The layout engine itself lives in package otlayout, binary table access in package
ot. A ScalableFont connects both to a font file.

# Status

Does not yet contain methods for font collections (*.ttc), e.g.,
/System/Library/Fonts/Helvetica.ttc on Mac OS.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphshaper

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/font"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}

// ScalableFont is an internal representation of an outline-font of type
// TTF of OTF.
//
// ScalableFont implements otlayout.OpenTypeFont. Font tables are read on first
// use and kept, as are layout caches. Both are guarded by a mutex, so a font may
// serve concurrent layout calls.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container, used for names

	loader   *opentype.Loader // raw table access
	outlines *font.SFNT       // cmap, metrics and glyph outlines
	mx       sync.Mutex
	tables   map[ot.Tag]ot.FontTable
	caches   map[ot.Tag][]byte
}

var _ otlayout.OpenTypeFont = (*ScalableFont)(nil)

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{
		Binary: fbytes,
		tables: make(map[ot.Tag]ot.FontTable),
		caches: make(map[ot.Tag][]byte),
	}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, err
	}
	if f.loader, err = opentype.NewLoader(bytes.NewReader(f.Binary)); err != nil {
		return nil, fmt.Errorf("reading font tables: %w", err)
	}
	if f.outlines, err = font.ParseSFNT(f.Binary, 0); err != nil {
		return nil, fmt.Errorf("reading font outlines: %w", err)
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	}
	return f, nil
}

// GetFontTable returns a font table. A table missing in the font results in a
// table which is not present (see ot.FontTable.IsPresent).
func (f *ScalableFont) GetFontTable(tag ot.Tag) ot.FontTable {
	f.mx.Lock()
	defer f.mx.Unlock()
	if t, ok := f.tables[tag]; ok {
		return t
	}
	var data []byte
	if f.loader.HasTable(opentype.Tag(tag)) {
		var err error
		if data, err = f.loader.RawTable(opentype.Tag(tag)); err != nil {
			tracer().Errorf("cannot read table %s of font %s: %v", tag, f.Fontname, err)
			data = nil
		}
	}
	t := ot.NewFontTable(tag, data)
	f.tables[tag] = t
	return t
}

// GetGlyphPointCoord returns the coordinates of a point of a glyph outline, in
// design units. Only TrueType outlines have numbered points.
func (f *ScalableFont) GetGlyphPointCoord(glyph ot.GlyphIndex, pointIndex uint16) (otlayout.LayoutOffset, bool) {
	if f.outlines.Glyf == nil {
		return otlayout.LayoutOffset{}, false
	}
	contour, err := f.outlines.Glyf.Contour(uint16(glyph))
	if err != nil || int(pointIndex) >= len(contour.XCoordinates) {
		return otlayout.LayoutOffset{}, false
	}
	return otlayout.LayoutOffset{
		DX: int(contour.XCoordinates[pointIndex]),
		DY: int(contour.YCoordinates[pointIndex]),
	}, true
}

// GetTableCache returns the layout cache stored for a table, or nil.
func (f *ScalableFont) GetTableCache(tag ot.Tag) []byte {
	f.mx.Lock()
	defer f.mx.Unlock()
	return f.caches[tag]
}

// AllocateTableCache allocates storage for the layout cache of a table, replacing
// a previous one.
func (f *ScalableFont) AllocateTableCache(tag ot.Tag, size int) []byte {
	f.mx.Lock()
	defer f.mx.Unlock()
	b := make([]byte, size)
	f.caches[tag] = b
	return b
}

// --- Glyphs and metrics ----------------------------------------------------

// UnitsPerEm returns the size of the em square in design units.
func (f *ScalableFont) UnitsPerEm() uint16 {
	return f.outlines.Head.UnitsPerEm
}

// NumGlyphs returns the number of glyphs in the font.
func (f *ScalableFont) NumGlyphs() int {
	return int(f.outlines.NumGlyphs())
}

// GlyphIndex maps a character to a glyph, using the font's cmap table.
// Characters not in the font map to glyph 0 (.notdef).
func (f *ScalableFont) GlyphIndex(r rune) ot.GlyphIndex {
	return ot.GlyphIndex(f.outlines.GlyphIndex(r))
}

// GlyphAdvance returns the horizontal advance of a glyph in design units.
func (f *ScalableFont) GlyphAdvance(g ot.GlyphIndex) int {
	return int(f.outlines.GlyphAdvance(uint16(g)))
}

// GlyphVerticalAdvance returns the vertical advance of a glyph in design units.
func (f *ScalableFont) GlyphVerticalAdvance(g ot.GlyphIndex) int {
	return int(f.outlines.GlyphVerticalAdvance(uint16(g)))
}

// GlyphRun maps the characters of a text 1:1 to glyphs and returns a glyph buffer
// together with its character map, ready for otlayout.SubstituteGlyphs. Glyphs missing
// in the font are flagged with otlayout.GlyphMissing.
func (f *ScalableFont) GlyphRun(text string) (*otlayout.GlyphInfoList, *otlayout.UshortList) {
	var glyphs []ot.GlyphIndex
	for _, r := range text {
		glyphs = append(glyphs, f.GlyphIndex(r))
	}
	gl, charmap := otlayout.MakeGlyphRun(glyphs)
	for i, g := range glyphs {
		if g == 0 {
			gl.SetFlags(i, gl.Flags(i)|otlayout.GlyphMissing)
		}
	}
	return gl, charmap
}

// LayoutMetrics returns the metrics for laying out glyphs of this font at a size of
// ppem pixels per em.
func (f *ScalableFont) LayoutMetrics(dir otlayout.TextFlowDirection, ppem uint16) otlayout.LayoutMetrics {
	return otlayout.NewLayoutMetrics(dir, f.UnitsPerEm(), ppem)
}

// Advances returns the default advances of a run of glyphs, scaled to pixels. These
// are the starting values for otlayout.PositionGlyphs.
func (f *ScalableFont) Advances(glyphs *otlayout.GlyphInfoList, metrics otlayout.LayoutMetrics) []int {
	advances := make([]int, glyphs.Length())
	for i := range advances {
		g := glyphs.Glyph(i)
		if metrics.Direction.IsHorizontal() {
			advances[i] = metrics.DesignToPixelsX(f.GlyphAdvance(g))
		} else {
			advances[i] = metrics.DesignToPixelsY(f.GlyphVerticalAdvance(g))
		}
	}
	return advances
}
