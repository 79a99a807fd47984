/*
Package ot provides read access to the OpenType layout tables GSUB, GPOS and GDEF.

Intended audience for this package are text shapers, i.e. the sister package
`otlayout`, which applies features and lookups to a buffer of glyphs.

Package `ot` will not copy any table data out of a font's binary. Every structure
of the layout tables is represented as a lightweight view: a font table plus an
offset into it. Views are values, cheap to create and safe to share between
goroutines, as font tables are immutable.

	gsub := ot.NewLayoutTable(ot.NewFontTable(ot.T("GSUB"), data))
	script := gsub.ScriptList().FindScript(ot.T("latn"))
	if script.IsNull() {
	    ...
	}
	lang := script.FindLangSys(ot.T("dflt"))

Navigation never fails: if a script, language system, feature or lookup cannot be
found, a null view is returned, which clients are expected to check with `IsNull`.

# Offsets

Offsets in OpenType layout tables are always relative to the start of the
immediately enclosing table, not to the table root. Views accumulate offsets
while descending, so a view's offset is always absolute with respect to its
font table.

# Format Errors

Reading beyond the end of a table is a format error. Reads on the hot path of
glyph shaping do not return errors, but raise a `FontError` by panicking. Entry
points of a shaping call recover it with

	defer ot.CatchFormatError(&err)

and return it to the client. Functions with a `Read` prefix return errors
explicitly and may be used anywhere.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

func assertEqualInt(name string, a, b int) {
	if a != b {
		panic(fmt.Sprintf("assertion [%s] failed: %d != %d", name, a, b))
	}
}
