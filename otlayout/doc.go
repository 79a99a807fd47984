/*
Package otlayout applies OpenType layout features to runs of glyphs.

Given a font, a script and language system, and a list of features with the
character ranges they apply to, otlayout will

▪︎ substitute glyphs, using the lookups of the font's GSUB table (SubstituteGlyphs),

▪︎ position glyphs, using the lookups of the font's GPOS table (PositionGlyphs).

Clients hand in plain buffers: a GlyphInfoList with glyph IDs and their relation
to the characters of the run, a character map from character index to glyph
position, and for positioning, advances and offsets per glyph. otlayout does not
depend on any glyph-run or typeface object model; fonts are accessed through the
small interface OpenTypeFont.

	ws := otlayout.NewLayoutWorkspace()
	err := otlayout.SubstituteGlyphs(font, ws, ot.T("latn"), ot.Dflt, features, charmap, glyphs)
	if otlayout.ResultOf(err) != otlayout.Success {
	    ...
	}

A shaping call is single-threaded and synchronous. Fonts and their tables may be
shared between concurrent calls, buffers and workspaces may not.

# Lookup cache

Fonts with many lookups may be prepared with CreateLayoutCache. The cache maps
each glyph to the lookups which may start a match at this glyph and lets the
engine skip lookups not applicable to a run. The cache is stored in the font's
table cache and is used transparently.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlayout

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// errFontFormat produces user level errors for font parsing.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

func assertThat(condition bool, msg string) {
	if !condition {
		panic("assertion failed: " + msg)
	}
}

// tracer writes to trace with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}
