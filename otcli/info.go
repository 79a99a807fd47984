package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otquery"
	"github.com/pterm/pterm"
)

// fontOp prints general information about the font loaded.
func fontOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	names := otquery.NameInfo(intp.font)
	metrics := otquery.FontMetrics(intp.font)
	data := [][]string{
		{"Property", "Value"},
		{"Family", names["family"]},
		{"Subfamily", names["subfamily"]},
		{"Version", names["version"]},
		{"Glyphs", strconv.Itoa(intp.font.NumGlyphs())},
		{"Units per em", strconv.Itoa(int(metrics.UnitsPerEm))},
		{"Ascent / Descent", fmt.Sprintf("%d / %d", metrics.Ascent, metrics.Descent)},
		{"Line gap", strconv.Itoa(int(metrics.LineGap))},
		{"x-height / Cap height", fmt.Sprintf("%d / %d", metrics.XHeight, metrics.CapHeight)},
		{"Layout tables", strings.Join(otquery.LayoutTables(intp.font), " ")},
	}
	if script, lang := otquery.FontSupportsScript(intp.font, intp.script, intp.lang); intp.script != 0 {
		data = append(data, []string{"Writing system", script.String() + "/" + lang.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// glyphOp prints the metrics of a glyph, given either as a character or as
// a glyph index, e.g. "glyph:A" or "glyph:36:gid".
func glyphOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("glyph needs a character or a glyph index"), false
	}
	var gid ot.GlyphIndex
	if op.format == "gid" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 || n >= intp.font.NumGlyphs() {
			return fmt.Errorf("not a glyph index: %v", arg), false
		}
		gid = ot.GlyphIndex(n)
	} else {
		gid = intp.font.GlyphIndex([]rune(arg)[0])
	}
	m := otquery.GlyphMetrics(intp.font, gid)
	data := [][]string{
		{"Glyph", "Class", "Advance", "LSB", "RSB", "Height", "BBox"},
		{
			strconv.Itoa(int(m.Glyph)),
			strconv.Itoa(int(otquery.GlyphClass(intp.font, gid))),
			strconv.Itoa(int(m.Advance)),
			strconv.Itoa(int(m.LSB)),
			strconv.Itoa(int(m.RSB)),
			strconv.Itoa(int(m.BBox.Dy())),
			fmt.Sprintf("(%d,%d)-(%d,%d)", m.BBox.MinX, m.BBox.MinY, m.BBox.MaxX, m.BBox.MaxY),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}
