/*
Package otquery answers questions about a font which are not part of OpenType
layout: names, global metrics, glyph metrics and the writing systems a font
supports. Queries work on raw font tables, as provided by any type implementing
TableSource, e.g. glyphshaper.ScalableFont.

Queries never fail hard. Missing or truncated tables result in zero values,
flagged by a boolean return value where a caller may want to know.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

// TableSource provides font tables by tag. A table missing in the font is
// returned as a table which is not present.
type TableSource interface {
	GetFontTable(tag ot.Tag) ot.FontTable
}
