package otlayout

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cacheFont has lookups starting at {1,2}, {2,3} and {2}.
func cacheFont() *testFont {
	return gsubFont(oneFeature(0, 1, 2),
		testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(1, 1, 2)}},
		testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(1, 2, 3)}},
		testLookup{typ: ot.GSubLookupTypeLigature, subtables: [][]byte{
			ligatureSubst(2, ligature{glyph: 100, components: []int{3}})}},
	)
}

func words(blob []byte) []int {
	w := make([]int, len(blob)/2)
	for i := range w {
		w[i] = int(binary.BigEndian.Uint16(blob[2*i:]))
	}
	return w
}

func TestBuildLayoutCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	lt := ot.NewLayoutTable(cacheFont().GetFontTable(ot.GSUB))
	blob := buildLayoutCache(lt, false, DefaultCacheSize)
	expected := []int{
		1, 3, 3, // header
		1, 9, 2, 11, 3, 15, // glyph records
		0, endOfList,
		0, 1, 2, endOfList,
		1, endOfList,
	}
	if diff := cmp.Diff(expected, words(blob)); diff != "" {
		t.Errorf("cache blob differs (-want +got):\n%s", diff)
	}
	// lookups 1 and 2 have to be left out
	blob = buildLayoutCache(lt, false, 30)
	assert.Equal(t, []int{1, 2, 1, 1, 7, 2, 9, 0, endOfList, 0, endOfList}, words(blob))
	assert.Nil(t, buildLayoutCache(lt, false, 10))
}

func TestLayoutCacheStopsAtUnknownCoverage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	font := gsubFont(oneFeature(0, 1, 2),
		testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(1, 1, 2)}},
		testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{
			structure(1, link(structure(3, 0)), 1)}},
		testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(1, 5)}},
	)
	blob := buildLayoutCache(ot.NewLayoutTable(font.GetFontTable(ot.GSUB)), false, DefaultCacheSize)
	assert.Equal(t, []int{1, 2, 1, 1, 7, 2, 9, 0, endOfList, 0, endOfList}, words(blob))
}

func TestLayoutCacheForChainedPositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	font := gposFont(oneFeature(0), testLookup{
		typ: ot.GPosLookupTypeChainedContextPos,
		subtables: [][]byte{
			chainedFmt3Subtable([][]int{{1}}, [][]int{{2}}, nil),
		},
	})
	blob := buildLayoutCache(ot.NewLayoutTable(font.GetFontTable(ot.GPOS)), true, DefaultCacheSize)
	assert.Equal(t, []int{1, 1, 1, 2, 5, 0, endOfList}, words(blob))
}

func TestReadLayoutCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	assert.Nil(t, readLayoutCache(nil))
	assert.Nil(t, readLayoutCache([]byte{0, 2, 0, 0, 0, 0}), "wrong version")
	assert.Nil(t, readLayoutCache([]byte{0, 1, 0, 3, 0, 1}), "too short for records")
	//
	blob := buildLayoutCache(ot.NewLayoutTable(cacheFont().GetFontTable(ot.GSUB)), false, DefaultCacheSize)
	c := readLayoutCache(blob)
	require.NotNil(t, c)
	assert.True(t, c.covers(2))
	assert.False(t, c.covers(3))
	assert.Equal(t, 9, c.listStart(1))
	assert.Equal(t, 11, c.listStart(2))
	assert.Equal(t, -1, c.listStart(4))
	assert.Equal(t, uint16(endOfList), c.word(100))
	var none *layoutCache
	assert.False(t, none.covers(0))
}

func TestCachePointers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	blob := buildLayoutCache(ot.NewLayoutTable(cacheFont().GetFontTable(ot.GSUB)), false, DefaultCacheSize)
	c := readLayoutCache(blob)
	require.NotNil(t, c)
	gl, _ := run(2, 3, 4)
	ws := NewLayoutWorkspace()
	ws.resetPointers(gl.Length())
	for lookup, expected := range []bool{true, true, true} {
		assert.Equal(t, expected, ws.glyphHasLookup(c, gl, 0, lookup), "glyph 2, lookup %d", lookup)
	}
	for lookup, expected := range []bool{false, true, false} {
		assert.Equal(t, expected, ws.glyphHasLookup(c, gl, 1, lookup), "glyph 3, lookup %d", lookup)
	}
	assert.False(t, ws.glyphHasLookup(c, gl, 2, 0))
	// a changed glyph gets a fresh pointer
	gl.SetGlyph(1, 1)
	assert.False(t, ws.glyphHasLookup(c, gl, 1, 2))
	gl.SetGlyph(1, 2)
	assert.True(t, ws.glyphHasLookup(c, gl, 1, 2))
	//
	p := ws.pointers.At(1)
	require.NotZero(t, p)
	ws.OnGlyphsChanged(0, 2, 2) // two glyphs inserted before
	assert.Equal(t, 5, ws.pointers.Length())
	assert.Equal(t, p, ws.pointers.At(3))
	assert.Zero(t, ws.pointers.At(0))
	ws.OnGlyphsChanged(0, 1, -2)
	assert.Equal(t, 3, ws.pointers.Length())
	assert.Equal(t, p, ws.pointers.At(1))
}

func TestLayoutWithCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	// lookup 1 has to see the glyph produced by lookup 0 at position 0
	newFont := func() *testFont {
		return gsubFont(oneFeature(0, 1, 2),
			testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(1, 1)}},
			testLookup{typ: ot.GSubLookupTypeSingle, subtables: [][]byte{singleSubst(10, 2, 3)}},
			testLookup{typ: ot.GSubLookupTypeLigature, subtables: [][]byte{
				ligatureSubst(12, ligature{glyph: 100, components: []int{13}})}},
		)
	}
	plain, cached := newFont(), newFont()
	require.NoError(t, CreateLayoutCache(cached, 0))
	require.NotNil(t, cached.GetTableCache(ot.GSUB))
	assert.Nil(t, cached.GetTableCache(ot.GPOS))
	//
	ws := NewLayoutWorkspace()
	for _, input := range [][]int{{1, 2, 3}, {3, 1, 2, 3, 2}, {4, 4}} {
		gl1, cm1 := run(input...)
		gl2, cm2 := run(input...)
		require.NoError(t, substitute(plain, []Feature{feature("test", len(input))}, gl1, cm1))
		require.NoError(t, SubstituteGlyphs(cached, ws, ot.T("latn"), ot.Dflt,
			[]Feature{feature("test", len(input))}, cm2, gl2))
		if diff := cmp.Diff(snapshot(gl1, cm1), snapshot(gl2, cm2)); diff != "" {
			t.Errorf("cached layout of %v differs (-plain +cached):\n%s", input, diff)
		}
	}
	gl, cm := run(1, 2, 3)
	require.NoError(t, SubstituteGlyphs(cached, ws, ot.T("latn"), ot.Dflt,
		[]Feature{feature("test", 3)}, cm, gl))
	assert.Equal(t, []int{12, 100}, glyphsOf(gl))
}
