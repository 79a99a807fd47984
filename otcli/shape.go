package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/pterm/pterm"
)

// shapeOp substitutes and positions the glyphs of a text, with the features
// set by flag -features enabled for the whole text.
func shapeOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	if op.noArg() {
		return errors.New("nothing to shape"), false
	}
	text := []rune(op.arg)
	script := intp.scriptFor(op.arg)
	features := otlayout.NewShaperFeaturesList(len(intp.features))
	for _, tag := range intp.features {
		features.AddFeature(tag, 0, len(text), 1)
	}
	gl, charmap := intp.font.GlyphRun(op.arg)
	tracer().Infof("shaping %d characters with script %s, language %s", len(text), script, intp.lang)
	err := otlayout.SubstituteGlyphs(intp.font, intp.ws, script, intp.lang, features.Features(), charmap, gl)
	if !reportLayout("GSUB", err) {
		return err, false
	}
	metrics := intp.font.LayoutMetrics(otlayout.LTR, intp.ppem)
	advances := intp.font.Advances(gl, metrics)
	offsets := make([]otlayout.LayoutOffset, gl.Length())
	err = otlayout.PositionGlyphs(intp.font, intp.ws, script, intp.lang, metrics, features.Features(),
		charmap, gl, advances, offsets)
	if !reportLayout("GPOS", err) {
		return err, false
	}
	printShaped(text, gl, advances, offsets)
	return nil, false
}

// reportLayout tells if shaping may go on after a layout call. A font not supporting
// the writing system leaves the run as it is.
func reportLayout(table string, err error) bool {
	switch otlayout.ResultOf(err) {
	case otlayout.Success:
		return true
	case otlayout.BadFontTable:
		return false
	}
	pterm.Warning.Printf("%s: %v\n", table, err)
	return true
}

func cacheOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	size := 0
	if arg, ok := op.hasArg(); ok {
		if size, err = strconv.Atoi(arg); err != nil {
			return fmt.Errorf("cache size not numeric: %v", arg), false
		}
	}
	return intp.createCache(size), false
}

func (intp *Intp) createCache(size int) error {
	if err := otlayout.CreateLayoutCache(intp.font, size); err != nil {
		return err
	}
	for _, tag := range []ot.Tag{ot.GSUB, ot.GPOS} {
		if c := intp.font.GetTableCache(tag); c != nil {
			pterm.Printf("%s cache has %d bytes\n", tag, len(c))
		} else {
			pterm.Printf("%s has no cache\n", tag)
		}
	}
	return nil
}

// complexOp lists the writing systems of the font which need layout processing for
// the characters of a text, or for all glyphs without a text.
func complexOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	n := intp.font.NumGlyphs()
	bits := ot.NewGlyphBits(n)
	minGlyph, maxGlyph := ot.GlyphIndex(0xFFFF), ot.GlyphIndex(0)
	mark := func(g ot.GlyphIndex) {
		bits.Set(g)
		minGlyph, maxGlyph = min(minGlyph, g), max(maxGlyph, g)
	}
	if text, ok := op.hasArg(); ok {
		for _, r := range text {
			mark(intp.font.GlyphIndex(r))
		}
	} else {
		for g := range n {
			mark(ot.GlyphIndex(g))
		}
	}
	var list []otlayout.WritingSystem
	if list, err = otlayout.GetComplexLanguageList(intp.font, nil, bits, minGlyph, maxGlyph); err != nil {
		return
	}
	if len(list) == 0 {
		pterm.Println("no complex writing systems")
		return
	}
	data := [][]string{
		{"Script", "LangSys", "Tables"},
	}
	for _, ws := range list {
		data = append(data, []string{
			ws.ScriptTag.String(),
			ws.LangSysTag.String(),
			formatTagInfo(otlayout.FindLangSys(intp.font, ws.ScriptTag, ws.LangSysTag)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}
