package otlayout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/npillmayer/glyphshaper/ot"
)

// TagInfoFlags tell in which layout tables a script or language system is found.
type TagInfoFlags uint8

const (
	TagInfoNone         TagInfoFlags = 0
	TagInfoSubstitution TagInfoFlags = 1 // found in GSUB
	TagInfoPositioning  TagInfoFlags = 2 // found in GPOS
)

// WritingSystem is a pair of script and language system tags.
type WritingSystem struct {
	ScriptTag  ot.Tag
	LangSysTag ot.Tag
}

func (ws WritingSystem) String() string {
	return ws.ScriptTag.String() + "/" + ws.LangSysTag.String()
}

// FindScript checks which layout tables of a font support a script.
func FindScript(font OpenTypeFont, script ot.Tag) (flags TagInfoFlags) {
	defer ot.CatchFormatError(nil)
	for _, t := range layoutTables {
		lt := ot.NewLayoutTable(font.GetFontTable(t.tag))
		if !lt.IsNull() && !lt.ScriptList().FindScript(script).IsNull() {
			flags |= t.flag
		}
	}
	return flags
}

// FindLangSys checks which layout tables of a font support a language system of a
// script. The default language system is tagged 'dflt'.
func FindLangSys(font OpenTypeFont, script, langSys ot.Tag) (flags TagInfoFlags) {
	defer ot.CatchFormatError(nil)
	for _, t := range layoutTables {
		lt := ot.NewLayoutTable(font.GetFontTable(t.tag))
		if lt.IsNull() {
			continue
		}
		if sc := lt.ScriptList().FindScript(script); !sc.IsNull() && !sc.FindLangSys(langSys).IsNull() {
			flags |= t.flag
		}
	}
	return flags
}

var layoutTables = [...]struct {
	tag  ot.Tag
	flag TagInfoFlags
}{
	{ot.GSUB, TagInfoSubstitution},
	{ot.GPOS, TagInfoPositioning},
}

// SubstituteGlyphs applies the GSUB lookups of a script and language system to a run of
// glyphs. The lookups applied are those of the language system's required feature and
// those of the features requested, each one restricted to the glyphs whose first
// character lies in the feature's range.
//
// glyphs and charmap are changed in place. charmap maps each character of the run to the
// position of the glyph representing it. Characters whose glyphs have all been deleted
// map to the following glyph, or to the preceding one at the end of the run. If every
// glyph is deleted, characters map to position 0, which equals the empty run's length.
//
// A font without GSUB table results in ErrTableNotFound, a malformed table in an error
// wrapping ErrBadFontTable; in both cases the run may have been partially processed.
func SubstituteGlyphs(font OpenTypeFont, ws *LayoutWorkspace, script, langSys ot.Tag,
	features []Feature, charmap *UshortList, glyphs *GlyphInfoList) (err error) {
	//
	table := font.GetFontTable(ot.GSUB)
	if !table.IsPresent() {
		return ErrTableNotFound
	}
	if ws == nil {
		ws = NewLayoutWorkspace()
	}
	defer func() {
		ot.CatchFormatError(&err)
		if errors.Is(err, ot.ErrFontFormat) {
			err = badFontTable(err)
		}
	}()
	ctx := &applyCtx{
		font:    font,
		table:   table,
		gdef:    ot.NewGDEFTable(font.GetFontTable(ot.GDEF)),
		ws:      ws,
		glyphs:  glyphs,
		charmap: charmap,
	}
	return ctx.run(script, langSys, features)
}

// PositionGlyphs applies the GPOS lookups of a script and language system to a run of
// glyphs, selected as for SubstituteGlyphs. advances and offsets hold a value per glyph,
// in pixels, and are adjusted in place. Initially, offsets are usually zero and advances
// are the glyphs' default advances, scaled to pixels.
func PositionGlyphs(font OpenTypeFont, ws *LayoutWorkspace, script, langSys ot.Tag,
	metrics LayoutMetrics, features []Feature, charmap *UshortList, glyphs *GlyphInfoList,
	advances []int, offsets []LayoutOffset) (err error) {
	//
	if len(advances) != glyphs.Length() || len(offsets) != glyphs.Length() {
		return fmt.Errorf("otlayout: %d advances and %d offsets for %d glyphs",
			len(advances), len(offsets), glyphs.Length())
	}
	table := font.GetFontTable(ot.GPOS)
	if !table.IsPresent() {
		return ErrTableNotFound
	}
	if ws == nil {
		ws = NewLayoutWorkspace()
	}
	defer func() {
		ot.CatchFormatError(&err)
		if errors.Is(err, ot.ErrFontFormat) {
			err = badFontTable(err)
		}
	}()
	ctx := &applyCtx{
		font:     font,
		table:    table,
		gdef:     ot.NewGDEFTable(font.GetFontTable(ot.GDEF)),
		isGPos:   true,
		ws:       ws,
		glyphs:   glyphs,
		charmap:  charmap,
		metrics:  metrics,
		advances: advances,
		offsets:  offsets,
	}
	return ctx.run(script, langSys, features)
}

// run applies the enabled lookups in ascending lookup order.
func (ctx *applyCtx) run(script, langSys ot.Tag, features []Feature) error {
	lt := ot.NewLayoutTable(ctx.table)
	sc := lt.ScriptList().FindScript(script)
	if sc.IsNull() {
		return fmt.Errorf("%w: %s in %s", ErrScriptNotFound, script, ctx.table.Tag())
	}
	ls := sc.FindLangSys(langSys)
	if ls.IsNull() {
		return fmt.Errorf("%w: %s/%s in %s", ErrLangSysNotFound, script, langSys, ctx.table.Tag())
	}
	ctx.lookups = lt.LookupList()
	ctx.ws.compile(lt.FeatureList(), ls, features, ctx.charmap.Length())
	updateGlyphClasses(ctx.gdef, ctx.glyphs, 0, ctx.glyphs.Length())
	cache := readLayoutCache(ctx.font.GetTableCache(ctx.table.Tag()))
	ctx.ws.resetPointers(ctx.glyphs.Length())
	for inx, refs := range ctx.ws.enabledLookups {
		lookup := ctx.lookups.Lookup(inx)
		if lookup.IsNull() {
			continue
		}
		ctx.applyTopLevel(lookup, inx, refs, features, cache)
	}
	return nil
}

// applyTopLevel applies a lookup to every glyph of the run it is enabled for, starting
// at the first glyph. Reverse chaining lookups start at the last glyph.
func (ctx *applyCtx) applyTopLevel(lookup ot.Lookup, inx int, refs []lookupRef,
	features []Feature, cache *layoutCache) {
	//
	defer ctx.setLookup(lookup)()
	lt := lookup.Type()
	if lt == ctx.extensionType() && lookup.SubtableCount() > 0 {
		lt, _ = lookup.ResolveSubtable(0, ctx.extensionType())
	}
	tracer().Debugf("apply lookup #%d of type %d", inx, lt)
	eligible := func(pos int) bool {
		param, ok := parameterAt(refs, features, int(ctx.glyphs.FirstChars.At(pos)))
		if !ok || ctx.skipGlyph(pos) {
			return false
		}
		if cache.covers(inx) && !ctx.ws.glyphHasLookup(cache, ctx.glyphs, pos, inx) {
			return false
		}
		ctx.parameter = param
		return true
	}
	if !ctx.isGPos && lt == ot.GSubLookupTypeReverseChaining {
		for pos := ctx.glyphs.Length() - 1; pos >= 0; pos-- {
			if eligible(pos) {
				ctx.applyLookup(lookup, pos, ctx.glyphs.Length())
			}
		}
		return
	}
	if ctx.isGPos && lt == ot.GPosLookupTypeCursive {
		for pos := 0; pos < ctx.glyphs.Length(); pos++ {
			ctx.glyphs.SetFlags(pos, ctx.glyphs.Flags(pos)&^GlyphCursiveConnected)
		}
	}
	for pos := 0; pos < ctx.glyphs.Length(); {
		if !eligible(pos) {
			pos++
			continue
		}
		length := ctx.glyphs.Length()
		next, ok := ctx.applyLookup(lookup, pos, length)
		if ok {
			ctx.ws.OnGlyphsChanged(pos, next, ctx.glyphs.Length()-length)
		}
		pos = next
	}
}

// CreateLayoutCache builds lookup caches for the GSUB and GPOS tables of a font and
// stores them with the font (see OpenTypeFont.AllocateTableCache). maxCacheSize limits
// the size of each cache in bytes; values ≤ 0 select DefaultCacheSize. Tables for which
// no cache fits are processed without cache.
func CreateLayoutCache(font OpenTypeFont, maxCacheSize int) (err error) {
	if maxCacheSize <= 0 || maxCacheSize > DefaultCacheSize {
		maxCacheSize = DefaultCacheSize
	}
	defer func() {
		ot.CatchFormatError(&err)
		if err != nil {
			err = badFontTable(err)
		}
	}()
	for _, t := range layoutTables {
		table := font.GetFontTable(t.tag)
		if !table.IsPresent() {
			continue
		}
		blob := buildLayoutCache(ot.NewLayoutTable(table), t.tag == ot.GPOS, maxCacheSize)
		if blob == nil {
			continue
		}
		buf := font.AllocateTableCache(t.tag, len(blob))
		if len(buf) < len(blob) {
			tracer().Infof("font did not provide a table cache for %s", t.tag)
			continue
		}
		copy(buf, blob)
	}
	return nil
}

// GetComplexLanguageList lists the writing systems of a font which need layout
// processing for a set of glyphs. A writing system (script and language system) is
// listed if one of its features, restricted to featureTags if not empty, has a lookup
// which may apply to one of the glyphs in [minGlyph…maxGlyph] set in glyphBits.
// Lookups with subtables of unknown structure are assumed to apply.
func GetComplexLanguageList(font OpenTypeFont, featureTags []ot.Tag, glyphBits ot.GlyphBits,
	minGlyph, maxGlyph ot.GlyphIndex) (list []WritingSystem, err error) {
	//
	defer func() {
		ot.CatchFormatError(&err)
		if err != nil {
			list, err = nil, badFontTable(err)
		}
	}()
	for _, t := range layoutTables {
		table := font.GetFontTable(t.tag)
		if !table.IsPresent() {
			continue
		}
		lt := ot.NewLayoutTable(table)
		check := complexityCheck{
			table:    table,
			isGPos:   t.tag == ot.GPOS,
			features: lt.FeatureList(),
			lookups:  lt.LookupList(),
			tags:     featureTags,
			bits:     glyphBits,
			minGlyph: minGlyph,
			maxGlyph: maxGlyph,
		}
		sl := lt.ScriptList()
		for i := 0; i < sl.Count(); i++ {
			script := sl.ScriptAt(i)
			scriptTag := sl.TagAt(i)
			if ls := script.DefaultLangSys(); !ls.IsNull() {
				list = check.add(list, WritingSystem{scriptTag, ot.Dflt}, ls)
			}
			for j := 0; j < script.LangSysCount(); j++ {
				list = check.add(list, WritingSystem{scriptTag, script.LangSysTagAt(j)}, script.LangSysAt(j))
			}
		}
	}
	return list, nil
}

type complexityCheck struct {
	table              ot.FontTable
	isGPos             bool
	features           ot.FeatureList
	lookups            ot.LookupList
	tags               []ot.Tag
	bits               ot.GlyphBits
	minGlyph, maxGlyph ot.GlyphIndex
}

// add appends a writing system to the list if it is complex and not yet listed.
func (c complexityCheck) add(list []WritingSystem, ws WritingSystem, ls ot.LangSys) []WritingSystem {
	if slices.Contains(list, ws) || !c.isComplex(ls) {
		return list
	}
	return append(list, ws)
}

func (c complexityCheck) isComplex(ls ot.LangSys) bool {
	if req, ok := ls.RequiredFeatureIndex(); ok && c.featureApplies(req) {
		return true
	}
	for i := 0; i < ls.FeatureCount(); i++ {
		if c.featureApplies(ls.FeatureIndex(i)) {
			return true
		}
	}
	return false
}

func (c complexityCheck) featureApplies(inx int) bool {
	if inx >= c.features.Count() {
		return false
	}
	if len(c.tags) > 0 && !slices.Contains(c.tags, c.features.TagAt(inx)) {
		return false
	}
	f := c.features.FeatureAt(inx)
	for i := 0; i < f.LookupCount(); i++ {
		lookup := c.lookups.Lookup(f.LookupIndex(i))
		for j := 0; j < lookup.SubtableCount(); j++ {
			lt, st := lookup.ResolveSubtable(j, extensionTypeOf(c.isGPos))
			if st == ot.NullOffset {
				continue
			}
			cov, ok := primaryCoverage(c.table, c.isGPos, lt, st)
			if !ok || cov.IsAnyGlyphCovered(c.bits, c.minGlyph, c.maxGlyph) {
				return true
			}
		}
	}
	return false
}
