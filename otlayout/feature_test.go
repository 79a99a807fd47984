package otlayout

import (
	"testing"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaperFeaturesList(t *testing.T) {
	l := NewShaperFeaturesList(4)
	l.AddFeature(ot.T("liga"), 0, 2, 1)
	l.AddFeature(ot.T("liga"), 2, 3, 1) // extends the previous one
	l.AddFeature(ot.T("liga"), 6, 1, 1) // gap
	l.AddFeature(ot.T("aalt"), 7, 1, 2)
	l.AddFeature(ot.T("aalt"), 8, 1, 3) // different parameter
	l.AddFeature(ot.T("kern"), 9, 0, 1) // empty
	assert.Equal(t, []Feature{
		{Tag: ot.T("liga"), StartIndex: 0, Length: 5, Parameter: 1},
		{Tag: ot.T("liga"), StartIndex: 6, Length: 1, Parameter: 1},
		{Tag: ot.T("aalt"), StartIndex: 7, Length: 1, Parameter: 2},
		{Tag: ot.T("aalt"), StartIndex: 8, Length: 1, Parameter: 3},
	}, l.Features())
	l.Reset()
	assert.Zero(t, l.Count())
	l.AddFeature(ot.T("smcp"), 0, 1, 1)
	assert.Equal(t, 1, l.Count())
}

func TestCompileLookups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	layout := testLayout{
		features: []testFeature{
			{tag: "liga", lookups: []int{2, 0}},
			{tag: "kern", lookups: []int{1}},
			{tag: "rlig", lookups: []int{3}},
		},
		required: "rlig",
	}
	font := newTestFont().with(ot.GSUB, layout.bytes())
	lt := ot.NewLayoutTable(font.GetFontTable(ot.GSUB))
	ls := lt.ScriptList().FindScript(ot.T("latn")).FindLangSys(ot.Dflt)
	require.False(t, ls.IsNull())
	//
	ws := NewLayoutWorkspace()
	features := []Feature{
		{Tag: ot.T("liga"), StartIndex: 0, Length: 3, Parameter: 1},
		{Tag: ot.T("kern"), StartIndex: 0, Length: 3, Parameter: 0}, // off
		{Tag: ot.T("smcp"), StartIndex: 0, Length: 3, Parameter: 1}, // not in font
		{Tag: ot.T("liga"), StartIndex: 5, Length: 2, Parameter: 1}, // beyond the run
	}
	ws.compile(lt.FeatureList(), ls, features, 4)
	var lookups []int
	for inx, refs := range ws.enabledLookups {
		lookups = append(lookups, inx)
		require.Len(t, refs, 1)
	}
	assert.Equal(t, []int{0, 2, 3}, lookups)
	assert.Equal(t, []lookupRef{{0, 0}, {2, 0}, {3, -1}}, ws.lookups)
}

func TestParameterAt(t *testing.T) {
	features := []Feature{
		{Tag: ot.T("aalt"), StartIndex: 0, Length: 2, Parameter: 1},
		{Tag: ot.T("aalt"), StartIndex: 2, Length: 2, Parameter: 2},
	}
	refs := []lookupRef{{4, 0}, {4, 1}}
	for _, c := range []struct {
		firstChar int
		param     uint32
		ok        bool
	}{
		{0, 1, true}, {1, 1, true}, {3, 2, true}, {4, 0, false},
	} {
		param, ok := parameterAt(refs, features, c.firstChar)
		assert.Equal(t, c.ok, ok, "char %d", c.firstChar)
		assert.Equal(t, c.param, param, "char %d", c.firstChar)
	}
	param, ok := parameterAt([]lookupRef{{4, -1}}, nil, 100)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), param)
}
