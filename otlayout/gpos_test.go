package otlayout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// --- GPOS subtables --------------------------------------------------------

func singlePos(format ot.ValueFormat, values []int, glyphs ...int) []byte {
	f := fields(ints(1), link(coverage(glyphs...)), int(format))
	return structure(append(f, ints(values...)...)...)
}

type pairValue struct {
	second         int
	value1, value2 []int
}

// pairPos builds a PairPosFormat1 subtable for a single first glyph.
func pairPos(first int, format1, format2 ot.ValueFormat, pairs ...pairValue) []byte {
	set := ints(len(pairs))
	for _, p := range pairs {
		set = append(set, p.second)
		set = append(set, ints(p.value1...)...)
		set = append(set, ints(p.value2...)...)
	}
	return structure(1, link(coverage(first)), int(format1), int(format2), 1, link(structure(set...)))
}

type entryExit struct {
	entry, exit []byte // anchors, may be nil
}

func cursivePos(glyphs []int, records ...entryExit) []byte {
	f := fields(ints(1), link(coverage(glyphs...)), len(records))
	for _, r := range records {
		f = append(f, link(r.entry), link(r.exit))
	}
	return structure(f...)
}

type markRecord struct {
	class  int
	anchor []byte
}

func markArray(marks ...markRecord) []byte {
	f := ints(len(marks))
	for _, m := range marks {
		f = append(f, m.class, link(m.anchor))
	}
	return structure(f...)
}

// anchorRows builds a matrix of anchors, as used by BaseArray, Mark2Array and
// LigatureAttach tables.
func anchorRows(rows ...[][]byte) []byte {
	f := ints(len(rows))
	for _, row := range rows {
		for _, a := range row {
			f = append(f, link(a))
		}
	}
	return structure(f...)
}

// markAttachPos builds a MarkBasePos, MarkLigPos or MarkMarkPos subtable.
func markAttachPos(marks, bases []int, classCount int, markArr, baseArr []byte) []byte {
	return structure(1, link(coverage(marks...)), link(coverage(bases...)), classCount,
		link(markArr), link(baseArr))
}

func gposFont(features []testFeature, lookups ...testLookup) *testFont {
	return newTestFont().with(ot.GPOS, testLayout{features: features, lookups: lookups}.bytes())
}

// --- Test Suite Preparation ------------------------------------------------

type PositioningTestEnviron struct {
	suite.Suite
	metrics LayoutMetrics
}

// listen for 'go test' command --> run test methods
func TestPositioningFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	suite.Run(t, new(PositioningTestEnviron))
}

// run once, before test suite methods
func (env *PositioningTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("tyse.fonts").SetTraceLevel(tracing.LevelInfo)
}

// run before each test: design units equal pixels
func (env *PositioningTestEnviron) SetupTest() {
	env.metrics = NewLayoutMetrics(LTR, 1000, 1000)
}

// position applies the GPOS lookups of feature 'test' to a run of glyphs with
// the given advances.
func (env *PositioningTestEnviron) position(font OpenTypeFont, gl *GlyphInfoList, cm *UshortList,
	advances ...int) ([]int, []LayoutOffset) {
	//
	offsets := make([]LayoutOffset, len(advances))
	err := PositionGlyphs(font, nil, ot.T("latn"), ot.Dflt, env.metrics,
		[]Feature{feature("test", cm.Length())}, cm, gl, advances, offsets)
	env.Require().NoError(err)
	return advances, offsets
}

// --- Tests -----------------------------------------------------------------

func (env *PositioningTestEnviron) TestSinglePositioning() {
	vf := ot.ValueFormatXPlacement | ot.ValueFormatYPlacement | ot.ValueFormatXAdvance
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeSingle,
		subtables: [][]byte{singlePos(vf, []int{10, 20, 30}, 1)},
	})
	gl, cm := run(1, 2)
	advances, offsets := env.position(font, gl, cm, 500, 500)
	env.Equal([]int{530, 500}, advances)
	env.Equal([]LayoutOffset{{10, 20}, {0, 0}}, offsets)
	env.NotZero(gl.Flags(0) & GlyphPositioned)
	env.Zero(gl.Flags(1) & GlyphPositioned)
	//
	env.metrics = NewLayoutMetrics(LTR, 2000, 1000)
	gl, cm = run(1, 2)
	advances, offsets = env.position(font, gl, cm, 500, 500)
	env.Equal([]int{515, 500}, advances)
	env.Equal(LayoutOffset{5, 10}, offsets[0])
}

func (env *PositioningTestEnviron) TestSinglePositioningVertical() {
	vf := ot.ValueFormatXAdvance | ot.ValueFormatYAdvance
	values := structure(2, link(coverage(1, 2)), int(vf), 2, 11, 12, 21, 22)
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeSingle,
		subtables: [][]byte{values},
	})
	gl, cm := run(1, 2)
	advances, _ := env.position(font, gl, cm, 100, 100)
	env.Equal([]int{111, 121}, advances)
	//
	env.metrics.Direction = TTB
	gl, cm = run(1, 2)
	advances, _ = env.position(font, gl, cm, 100, 100)
	env.Equal([]int{112, 122}, advances)
}

func (env *PositioningTestEnviron) TestDeviceTable() {
	vf := ot.ValueFormatXPlacement | ot.ValueFormatXPlaDevice
	device := structure(12, 14, 2, 0x1F20) // +1, -1, +2 for 12…14 ppem
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeSingle,
		subtables: [][]byte{structure(1, link(coverage(1)), int(vf), 10, link(device))},
	})
	for _, c := range []struct {
		ppem uint16
		dx   int
	}{
		{12, 1}, {13, -1}, {14, 2}, {20, 0}, {100, 1},
	} {
		env.metrics = NewLayoutMetrics(LTR, 1000, c.ppem)
		gl, cm := run(1)
		_, offsets := env.position(font, gl, cm, 0)
		env.Equal(c.dx, offsets[0].DX, "ppem %d", c.ppem)
	}
}

func (env *PositioningTestEnviron) TestPairPositioning() {
	font := gposFont(oneFeature(0), testLookup{
		typ: ot.GPosLookupTypePair,
		subtables: [][]byte{pairPos(1, ot.ValueFormatXAdvance, 0,
			pairValue{second: 2, value1: []int{-80}},
			pairValue{second: 4, value1: []int{-20}},
		)},
	})
	gl, cm := run(1, 2, 1, 3, 1, 1, 4)
	advances, _ := env.position(font, gl, cm, 500, 500, 500, 500, 500, 500, 500)
	env.Equal([]int{420, 500, 500, 500, 500, 480, 500}, advances)
}

func (env *PositioningTestEnviron) TestPairPositioningSecondValue() {
	xadv, xpla := ot.ValueFormatXAdvance, ot.ValueFormatXPlacement
	font := gposFont(oneFeature(0), testLookup{
		typ: ot.GPosLookupTypePair,
		subtables: [][]byte{
			pairPos(1, xadv, xpla, pairValue{second: 2, value1: []int{-80}, value2: []int{5}}),
			pairPos(2, xadv, xpla, pairValue{second: 1, value1: []int{-40}, value2: []int{7}}),
		},
	})
	gl, cm := run(1, 2, 1)
	advances, offsets := env.position(font, gl, cm, 500, 500, 500)
	// the second glyph of a pair with a value record does not start the next pair
	env.Equal([]int{420, 500, 500}, advances)
	env.Equal([]LayoutOffset{{0, 0}, {5, 0}, {0, 0}}, offsets)
}

func (env *PositioningTestEnviron) TestPairPositioningByClass() {
	cd1 := classDef(classRange{1, 1, 1})
	cd2 := classDef(classRange{2, 2, 1})
	pair := structure(2, link(coverage(1)), int(ot.ValueFormatXAdvance), 0, link(cd1), link(cd2),
		2, 2, 0, 0, 0, -50)
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypePair,
		subtables: [][]byte{pair},
	})
	gl, cm := run(1, 2, 1, 3)
	advances, _ := env.position(font, gl, cm, 500, 500, 500, 500)
	env.Equal([]int{450, 500, 500, 500}, advances)
	env.NotZero(gl.Flags(2) & GlyphPositioned)
}

func (env *PositioningTestEnviron) TestMarkToBase() {
	classes := []classRange{{1, 1, 1}, {30, 31, 3}}
	sub := markAttachPos([]int{30, 31}, []int{1}, 1,
		markArray(markRecord{0, anchor(50, 0)}, markRecord{0, anchor(60, 0)}),
		anchorRows([][]byte{anchor(300, 600)}))
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeMarkToBase,
		subtables: [][]byte{sub},
	}).with(ot.GDEF, gdef(classes, nil))
	gl, cm := run(1, 30, 31)
	advances, offsets := env.position(font, gl, cm, 500, 0, 0)
	env.Equal([]int{500, 0, 0}, advances)
	env.Equal([]LayoutOffset{{0, 0}, {-250, 600}, {-260, 600}}, offsets)
	//
	gl, cm = run(30, 1) // mark without base
	_, offsets = env.position(font, gl, cm, 0, 500)
	env.Equal([]LayoutOffset{{0, 0}, {0, 0}}, offsets)
}

func (env *PositioningTestEnviron) TestMarkToBaseContourPoint() {
	classes := []classRange{{1, 1, 1}, {30, 30, 3}}
	sub := markAttachPos([]int{30}, []int{1}, 1,
		markArray(markRecord{0, anchor(50, 0)}),
		anchorRows([][]byte{pointAnchor(300, 600, 1)}))
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeMarkToBase,
		subtables: [][]byte{sub},
	}).with(ot.GDEF, gdef(classes, nil))
	gl, cm := run(1, 30)
	_, offsets := env.position(font, gl, cm, 500, 0)
	env.Equal(LayoutOffset{-250, 600}, offsets[1])
	//
	font.points[1] = []LayoutOffset{{0, 0}, {310, 610}}
	gl, cm = run(1, 30)
	_, offsets = env.position(font, gl, cm, 500, 0)
	env.Equal(LayoutOffset{-240, 610}, offsets[1])
}

func (env *PositioningTestEnviron) TestMarkToLigature() {
	classes := []classRange{{30, 30, 3}, {100, 100, 2}}
	ligAttach := anchorRows([][]byte{anchor(100, 500)}, [][]byte{anchor(400, 500)})
	sub := markAttachPos([]int{30}, []int{100}, 1,
		markArray(markRecord{0, anchor(0, 0)}),
		structure(1, link(ligAttach)))
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeMarkToLigature,
		subtables: [][]byte{sub},
	}).with(ot.GDEF, gdef(classes, nil))
	gl, _ := run(100, 30) // mark follows both components
	gl.FirstChars.Set(1, 2)
	_, offsets := env.position(font, gl, UshortListFrom([]uint16{0, 0, 1}), 800, 0)
	env.Equal(LayoutOffset{-400, 500}, offsets[1])
	//
	gl, _ = run(100, 30) // mark between the components
	_, offsets = env.position(font, gl, UshortListFrom([]uint16{0, 1, 0}), 800, 0)
	env.Equal(LayoutOffset{-700, 500}, offsets[1])
	//
	gl, cm := run(100, 30) // ligature of a single character
	_, offsets = env.position(font, gl, cm, 800, 0)
	env.Equal(LayoutOffset{-700, 500}, offsets[1])
}

// Marks skipped while forming a ligature attach to the component they follow.
func (env *PositioningTestEnviron) TestMarkToLigatureAfterSubstitution() {
	classes := []classRange{{10, 11, 1}, {30, 30, 3}, {100, 100, 2}}
	ligAttach := anchorRows([][]byte{anchor(100, 500)}, [][]byte{anchor(400, 500)})
	font := gposFont(oneFeature(0), testLookup{
		typ: ot.GPosLookupTypeMarkToLigature,
		subtables: [][]byte{markAttachPos([]int{30}, []int{100}, 1,
			markArray(markRecord{0, anchor(0, 0)}), structure(1, link(ligAttach)))},
	}).with(ot.GDEF, gdef(classes, nil))
	font.with(ot.GSUB, testLayout{features: oneFeature(0), lookups: []testLookup{{
		typ:       ot.GSubLookupTypeLigature,
		flag:      ot.LOOKUP_FLAG_IGNORE_MARKS,
		subtables: [][]byte{ligatureSubst(10, ligature{glyph: 100, components: []int{11}})},
	}}}.bytes())
	cases := []struct {
		input   []int
		charmap []int
		offset  LayoutOffset
	}{
		{[]int{10, 30, 11}, []int{0, 1, 0}, LayoutOffset{-700, 500}},
		{[]int{10, 11, 30}, []int{0, 0, 1}, LayoutOffset{-400, 500}},
	}
	for _, c := range cases {
		gl, cm := run(c.input...)
		env.Require().NoError(substitute(font, []Feature{feature("test", 3)}, gl, cm))
		env.Equal([]int{100, 30}, glyphsOf(gl), "input %v", c.input)
		env.Equal(c.charmap, valuesOf(cm), "input %v", c.input)
		_, offsets := env.position(font, gl, cm, 800, 0)
		env.Equal(c.offset, offsets[1], "input %v", c.input)
	}
}

func (env *PositioningTestEnviron) TestMarkToMark() {
	classes := []classRange{{1, 1, 1}, {30, 31, 3}}
	sub := markAttachPos([]int{31}, []int{30}, 1,
		markArray(markRecord{0, anchor(0, 0)}),
		anchorRows([][]byte{anchor(0, 200)}))
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeMarkToMark,
		subtables: [][]byte{sub},
	}).with(ot.GDEF, gdef(classes, nil))
	gl, cm := run(1, 30, 31)
	_, offsets := env.position(font, gl, cm, 500, 0, 0)
	env.Equal(LayoutOffset{0, 200}, offsets[2])
	//
	gl, cm = run(1, 31) // preceded by a base
	_, offsets = env.position(font, gl, cm, 500, 0)
	env.Equal(LayoutOffset{0, 0}, offsets[1])
}

func (env *PositioningTestEnviron) TestCursiveAttachment() {
	sub := cursivePos([]int{1}, entryExit{entry: anchor(0, 0), exit: anchor(500, 100)})
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeCursive,
		subtables: [][]byte{sub},
	})
	gl, cm := run(1, 1, 1)
	advances, offsets := env.position(font, gl, cm, 600, 600, 600)
	env.Equal([]int{500, 500, 600}, advances)
	env.Equal([]LayoutOffset{{0, 0}, {0, 100}, {0, 200}}, offsets)
	env.NotZero(gl.Flags(0) & GlyphCursiveConnected)
	env.NotZero(gl.Flags(1) & GlyphCursiveConnected)
	env.Zero(gl.Flags(2) & GlyphCursiveConnected)
}

func (env *PositioningTestEnviron) TestCursiveAttachmentRightToLeft() {
	sub := cursivePos([]int{1}, entryExit{entry: anchor(600, 0), exit: anchor(0, 100)})
	font := gposFont(oneFeature(0), testLookup{
		typ:       ot.GPosLookupTypeCursive,
		flag:      ot.LOOKUP_FLAG_RIGHT_TO_LEFT,
		subtables: [][]byte{sub},
	})
	env.metrics.Direction = RTL
	gl, cm := run(1, 1, 1)
	advances, offsets := env.position(font, gl, cm, 600, 600, 600)
	env.Equal([]int{600, 600, 600}, advances)
	env.Equal([]LayoutOffset{{0, -200}, {0, -100}, {0, 0}}, offsets)
}

func (env *PositioningTestEnviron) TestChainedContextPositioning() {
	font := gposFont(oneFeature(0),
		testLookup{typ: ot.GPosLookupTypeChainedContextPos, subtables: [][]byte{
			chainedFmt3Subtable([][]int{{1}}, [][]int{{2}}, nil, [2]int{0, 1}),
		}},
		testLookup{typ: ot.GPosLookupTypeSingle, subtables: [][]byte{
			singlePos(ot.ValueFormatXPlacement, []int{10}, 2),
		}},
	)
	gl, cm := run(1, 2, 3, 2)
	_, offsets := env.position(font, gl, cm, 500, 500, 500, 500)
	env.Equal([]LayoutOffset{{0, 0}, {10, 0}, {0, 0}, {0, 0}}, offsets)
}

func (env *PositioningTestEnviron) TestPositioningErrors() {
	gl, cm := run(1, 2)
	err := PositionGlyphs(newTestFont(), nil, ot.T("latn"), ot.Dflt, env.metrics, nil, cm, gl,
		make([]int, 2), make([]LayoutOffset, 2))
	env.ErrorIs(err, ErrTableNotFound)
	//
	font := gposFont(oneFeature())
	err = PositionGlyphs(font, nil, ot.T("latn"), ot.Dflt, env.metrics, nil, cm, gl,
		make([]int, 1), make([]LayoutOffset, 2))
	env.Error(err)
	err = PositionGlyphs(font, nil, ot.T("latn"), ot.Dflt, env.metrics, nil, cm, gl,
		make([]int, 2), make([]LayoutOffset, 2))
	env.NoError(err)
}

// Subtables which do not apply leave glyphs and positions untouched.
func TestFailedPositioningDoesNotChangeRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	classes := []classRange{{10, 12, 1}, {30, 30, 3}}
	cases := map[string]struct {
		input  []int
		lookup testLookup
	}{
		"single": {[]int{10, 11, 12}, testLookup{typ: ot.GPosLookupTypeSingle, subtables: [][]byte{
			singlePos(ot.ValueFormatXPlacement, []int{10}, 9)}}},
		"pair without second glyph": {[]int{10, 11, 12}, testLookup{typ: ot.GPosLookupTypePair,
			subtables: [][]byte{pairPos(10, ot.ValueFormatXAdvance, 0,
				pairValue{second: 99, value1: []int{-50}})}}},
		"cursive without entry": {[]int{10, 11, 12}, testLookup{typ: ot.GPosLookupTypeCursive,
			subtables: [][]byte{cursivePos([]int{10, 11},
				entryExit{exit: anchor(500, 0)}, entryExit{exit: anchor(500, 0)})}}},
		"mark without base": {[]int{30, 10, 12}, testLookup{typ: ot.GPosLookupTypeMarkToBase,
			subtables: [][]byte{markAttachPos([]int{30}, []int{10}, 1,
				markArray(markRecord{0, anchor(0, 0)}), anchorRows([][]byte{anchor(300, 600)}))}}},
		"chained without backtrack": {[]int{10, 11, 12}, testLookup{typ: ot.GPosLookupTypeChainedContextPos,
			subtables: [][]byte{chainedFmt3Subtable([][]int{{3}}, [][]int{{10}}, nil, [2]int{0, 1})}}},
	}
	for name, c := range cases {
		font := gposFont(oneFeature(0), c.lookup,
			testLookup{typ: ot.GPosLookupTypeSingle, subtables: [][]byte{
				singlePos(ot.ValueFormatXPlacement, []int{10}, 10)}},
		).with(ot.GDEF, gdef(classes, nil))
		gl, cm := run(c.input...)
		ctx := newTestCtx(font, ot.GPOS, gl, cm)
		ctx.metrics = NewLayoutMetrics(LTR, 1000, 1000)
		ctx.advances = []int{500, 500, 500}
		ctx.offsets = make([]LayoutOffset, 3)
		before := positionSnapshot(ctx)
		next, ok := ctx.applyLookup(ctx.lookups.Lookup(0), 0, gl.Length())
		assert.False(t, ok, name)
		assert.Equal(t, 1, next, name)
		if diff := cmp.Diff(before, positionSnapshot(ctx)); diff != "" {
			t.Errorf("%s changed the run (-before +after):\n%s", name, diff)
		}
	}
}

type positions struct {
	Run      runSnapshot
	Advances []int
	Offsets  []LayoutOffset
}

func positionSnapshot(ctx *applyCtx) positions {
	return positions{
		Run:      snapshot(ctx.glyphs, ctx.charmap),
		Advances: append([]int(nil), ctx.advances...),
		Offsets:  append([]LayoutOffset(nil), ctx.offsets...),
	}
}

// --- AlignAnchors ----------------------------------------------------------

func TestAlignAnchors(t *testing.T) {
	cases := []struct {
		name           string
		dir            TextFlowDirection
		static, mobile int
		sA, mA         LayoutOffset
		useAdvances    bool
		advances       []int
		offsets        []LayoutOffset
	}{
		{"LTR", LTR, 0, 1, LayoutOffset{400, 10}, LayoutOffset{0, 0}, false,
			[]int{500, 300}, []LayoutOffset{{0, 0}, {-100, 10}}},
		{"RTL", RTL, 0, 1, LayoutOffset{400, 0}, LayoutOffset{0, 0}, false,
			[]int{500, 300}, []LayoutOffset{{0, 0}, {700, 0}}},
		{"TTB", TTB, 0, 1, LayoutOffset{0, -100}, LayoutOffset{0, 0}, false,
			[]int{500, 300}, []LayoutOffset{{0, 0}, {0, 400}}},
		{"BTT", BTT, 0, 1, LayoutOffset{5, 100}, LayoutOffset{0, 0}, false,
			[]int{500, 300}, []LayoutOffset{{0, 0}, {5, -400}}},
		{"LTR backwards", LTR, 1, 0, LayoutOffset{0, 0}, LayoutOffset{400, 0}, false,
			[]int{500, 300}, []LayoutOffset{{100, 0}, {0, 0}}},
		{"LTR advances", LTR, 0, 1, LayoutOffset{500, 100}, LayoutOffset{0, 0}, true,
			[]int{600, 600}, []LayoutOffset{{0, 0}, {0, 100}}},
		{"RTL advances", RTL, 0, 1, LayoutOffset{0, 0}, LayoutOffset{500, 0}, true,
			[]int{600, 600}, []LayoutOffset{{0, 0}, {0, 0}}},
		{"TTB advances", TTB, 0, 1, LayoutOffset{20, -700}, LayoutOffset{0, 0}, true,
			[]int{600, 600}, []LayoutOffset{{0, 0}, {20, 0}}},
	}
	expectedAdvances := map[string][]int{
		"RTL advances": {600, 500},
		"LTR advances": {500, 600},
		"TTB advances": {700, 600},
	}
	for _, c := range cases {
		advances := []int{c.advances[0], c.advances[1]}
		offsets := make([]LayoutOffset, 2)
		AlignAnchors(NewLayoutMetrics(c.dir, 1000, 1000), advances, offsets,
			c.static, c.mobile, c.sA, c.mA, c.useAdvances)
		assert.Equal(t, c.offsets, offsets, c.name)
		if exp, ok := expectedAdvances[c.name]; ok {
			assert.Equal(t, exp, advances, c.name)
		} else {
			assert.Equal(t, c.advances, advances, "%s: advances must not change", c.name)
		}
	}
}
