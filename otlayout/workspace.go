package otlayout

import (
	"slices"

	"github.com/npillmayer/glyphshaper/ot"
)

// LayoutWorkspace holds the scratch state of layout calls: the lookups enabled for a
// run and, for fonts with a layout cache, a cache pointer per glyph. A workspace may
// be reused for any number of calls, but not by concurrent ones.
type LayoutWorkspace struct {
	lookups    []lookupRef
	components []int       // positions of ligature components
	pointers   *UshortList // word offset into the cache list of the glyph, 0 if unset
	ptrGlyphs  *UshortList // glyph the pointer has been set for
}

// lookupRef records that a lookup is enabled by a feature. Feature -1 stands for the
// required feature of the language system.
type lookupRef struct {
	lookup  int
	feature int
}

// NewLayoutWorkspace creates an empty workspace.
func NewLayoutWorkspace() *LayoutWorkspace {
	return &LayoutWorkspace{
		pointers:  NewUshortList(0, growIncrement),
		ptrGlyphs: NewUshortList(0, growIncrement),
	}
}

// OnGlyphsChanged adjusts the cache pointers to a change of the glyph run: the glyphs
// in [first, afterChanged) have been edited, and the run has grown by delta glyphs within
// this span (or shrunk, for negative delta). Pointers of the edited span are rewound.
func (ws *LayoutWorkspace) OnGlyphsChanged(first, afterChanged, delta int) {
	if delta > 0 {
		ws.pointers.Insert(first, delta)
		ws.ptrGlyphs.Insert(first, delta)
	} else if delta < 0 {
		ws.pointers.Remove(first, -delta)
		ws.ptrGlyphs.Remove(first, -delta)
	}
	for pos := first; pos < min(afterChanged, ws.pointers.Length()); pos++ {
		ws.pointers.Set(pos, 0)
	}
}

// resetPointers prepares the cache pointers for a run of n glyphs.
func (ws *LayoutWorkspace) resetPointers(n int) {
	ws.pointers.SetLength(0)
	ws.pointers.SetLength(n)
	ws.ptrGlyphs.SetLength(0)
	ws.ptrGlyphs.SetLength(n)
}

// glyphHasLookup checks with the cache if the glyph at pos may start a match of lookup.
// Lookups have to be asked for in ascending order, as the pointer of a glyph only
// moves forward.
func (ws *LayoutWorkspace) glyphHasLookup(c *layoutCache, glyphs *GlyphInfoList, pos, lookup int) bool {
	g := glyphs.Glyphs.At(pos)
	ptr := int(ws.pointers.At(pos))
	if ptr == 0 || ws.ptrGlyphs.At(pos) != g {
		if ptr = c.listStart(ot.GlyphIndex(g)); ptr < 0 {
			return false
		}
		ws.ptrGlyphs.Set(pos, g)
	}
	for v := c.word(ptr); v != endOfList && int(v) < lookup; v = c.word(ptr) {
		ptr++
	}
	ws.pointers.Set(pos, uint16(ptr))
	return int(c.word(ptr)) == lookup
}

// compile collects the lookups enabled for a run of charCount characters: the lookups of
// the required feature and of every requested feature whose character range overlaps the
// run. Features with parameter 0 are off.
func (ws *LayoutWorkspace) compile(fl ot.FeatureList, ls ot.LangSys, features []Feature, charCount int) {
	ws.lookups = ws.lookups[:0]
	add := func(f ot.Feature, ref int) {
		for i := 0; i < f.LookupCount(); i++ {
			ws.lookups = append(ws.lookups, lookupRef{lookup: f.LookupIndex(i), feature: ref})
		}
	}
	if req, ok := ls.RequiredFeatureIndex(); ok {
		add(fl.FeatureAt(req), -1)
	}
	for i, feat := range features {
		if feat.Parameter == 0 || feat.Length <= 0 ||
			feat.StartIndex >= charCount || feat.StartIndex+feat.Length <= 0 {
			continue
		}
		f := fl.FindFeature(ls, feat.Tag)
		if f.IsNull() {
			tracer().Debugf("feature %s not supported by language system", feat.Tag)
			continue
		}
		add(f, i)
	}
	slices.SortStableFunc(ws.lookups, func(a, b lookupRef) int {
		return a.lookup - b.lookup
	})
}

// enabledLookups iterates over the compiled lookups in ascending order, yielding each
// lookup index with the references enabling it.
func (ws *LayoutWorkspace) enabledLookups(yield func(lookup int, refs []lookupRef) bool) {
	for i := 0; i < len(ws.lookups); {
		j := i + 1
		for j < len(ws.lookups) && ws.lookups[j].lookup == ws.lookups[i].lookup {
			j++
		}
		if !yield(ws.lookups[i].lookup, ws.lookups[i:j]) {
			return
		}
		i = j
	}
}

// parameterAt returns the parameter with which a lookup applies to a glyph whose first
// character is firstChar, or false if none of the enabling features covers it.
func parameterAt(refs []lookupRef, features []Feature, firstChar int) (uint32, bool) {
	for _, r := range refs {
		if r.feature < 0 {
			return 1, true
		}
		f := features[r.feature]
		if firstChar >= f.StartIndex && firstChar < f.StartIndex+f.Length {
			return f.Parameter, true
		}
	}
	return 0, false
}
