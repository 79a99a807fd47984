package glyphshaper

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func loadGoFont(t *testing.T) *ScalableFont {
	t.Helper()
	f, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		t.Fatalf("cannot parse Go Regular: %v", err)
	}
	t.Logf("loaded font = %s", f.Fontname)
	return f
}

func TestParseFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	f := loadGoFont(t)
	assert.Equal(t, "Go Regular", f.Fontname)
	assert.Equal(t, uint16(2048), f.UnitsPerEm())
	assert.Greater(t, f.NumGlyphs(), 100)
	//
	_, err := ParseOpenTypeFont([]byte("no font"))
	assert.Error(t, err)
	_, err = LoadOpenTypeFont("does-not-exist.ttf")
	assert.Error(t, err)
}

func TestFontTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	f := loadGoFont(t)
	head := f.GetFontTable(ot.T("head"))
	require.True(t, head.IsPresent())
	assert.Equal(t, 54, head.Len())
	assert.Equal(t, uint16(2048), head.GetUShort(18))
	assert.Equal(t, head, f.GetFontTable(ot.T("head")), "tables are memoized")
	assert.False(t, f.GetFontTable(ot.T("zzzz")).IsPresent())
	//
	assert.Nil(t, f.GetTableCache(ot.GSUB))
	b := f.AllocateTableCache(ot.GSUB, 8)
	assert.Len(t, b, 8)
	assert.Len(t, f.GetTableCache(ot.GSUB), 8)
}

func TestGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	f := loadGoFont(t)
	a := f.GlyphIndex('A')
	assert.NotZero(t, a)
	assert.Greater(t, f.GlyphAdvance(a), 0)
	p, ok := f.GetGlyphPointCoord(a, 0)
	assert.True(t, ok, "Go fonts have TrueType outlines")
	assert.LessOrEqual(t, p.DX, f.GlyphAdvance(a))
	_, ok = f.GetGlyphPointCoord(a, 10000)
	assert.False(t, ok)
	//
	gl, cm := f.GlyphRun("Ab\U0001F600")
	assert.Equal(t, 3, gl.Length())
	assert.Equal(t, 3, cm.Length())
	assert.Equal(t, a, gl.Glyph(0))
	assert.Zero(t, gl.Flags(0)&otlayout.GlyphMissing)
	assert.NotZero(t, gl.Flags(2)&otlayout.GlyphMissing)
	//
	metrics := f.LayoutMetrics(otlayout.LTR, 2048)
	advances := f.Advances(gl, metrics)
	assert.Equal(t, f.GlyphAdvance(a), advances[0])
}

// Layout of a real font must not fail, whichever layout tables it carries.
func TestLayoutWithFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	f := loadGoFont(t)
	require.NoError(t, otlayout.CreateLayoutCache(f, 0))
	text := "office AVATAR Wagon"
	gl, cm := f.GlyphRun(text)
	script := otlayout.SelectScript(f, language.Latin)
	features := otlayout.NewShaperFeaturesList(4)
	for _, tag := range []string{"ccmp", "liga", "kern", "mark"} {
		features.AddFeature(ot.T(tag), 0, len(text), 1)
	}
	err := otlayout.SubstituteGlyphs(f, nil, script, ot.Dflt, features.Features(), cm, gl)
	assert.NotEqual(t, otlayout.BadFontTable, otlayout.ResultOf(err), "%v", err)
	assert.Equal(t, gl.Length(), gl.FirstChars.Length())
	for i := 0; i < cm.Length(); i++ {
		assert.Less(t, int(cm.At(i)), gl.Length())
	}
	//
	metrics := f.LayoutMetrics(otlayout.LTR, 24)
	advances := f.Advances(gl, metrics)
	offsets := make([]otlayout.LayoutOffset, gl.Length())
	err = otlayout.PositionGlyphs(f, nil, script, ot.Dflt, metrics, features.Features(), cm, gl,
		advances, offsets)
	assert.NotEqual(t, otlayout.BadFontTable, otlayout.ResultOf(err), "%v", err)
}
