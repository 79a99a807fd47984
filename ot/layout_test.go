package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagBytes(s string) []byte {
	return []byte((s + "    ")[:4])
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

// synthGSUB builds a tiny GSUB table with script 'latn' (default + 'TRK '),
// features 'liga' and 'ccmp', a single-substitution lookup with a mark filtering set
// and an extension lookup.
func synthGSUB() FontTable {
	data := cat(
		// header
		u16s(1, 0, 10, 44, 72),
		// script list @10
		u16s(1), tagBytes("latn"), u16s(8),
		// script @18
		u16s(10, 1), tagBytes("TRK"), u16s(18),
		// default LangSys @28
		u16s(0, 0xFFFF, 1, 0),
		// TRK LangSys @36, required feature 1
		u16s(0, 1, 1, 0),
		// feature list @44
		u16s(2), tagBytes("liga"), u16s(14), tagBytes("ccmp"), u16s(20),
		// liga @58
		u16s(0, 1, 0),
		// ccmp @64
		u16s(0, 2, 1, 0),
		// lookup list @72
		u16s(2, 6, 28),
		// lookup 0 @78
		u16s(1, 0x10, 1, 10, 3),
		// single subst @88
		u16s(1, 6, 1),
		// coverage @94
		u16s(1, 1, 5),
		// lookup 1 @100
		u16s(7, 0, 1, 8),
		// extension subtable @108
		u16s(1, 1, 0, 8),
		// single subst @116
		u16s(1, 6, 2),
		// coverage @122
		u16s(1, 1, 7),
	)
	return NewFontTable(GSUB, data)
}

func TestScriptNavigation(t *testing.T) {
	gsub := NewLayoutTable(synthGSUB())
	require.False(t, gsub.IsNull())
	sl := gsub.ScriptList()
	require.Equal(t, 1, sl.Count())
	assert.Equal(t, T("latn"), sl.TagAt(0))
	assert.True(t, sl.FindScript(T("arab")).IsNull())
	latn := sl.FindScript(T("latn"))
	require.False(t, latn.IsNull())
	//
	dflt := latn.FindLangSys(Dflt)
	require.False(t, dflt.IsNull())
	_, hasRequired := dflt.RequiredFeatureIndex()
	assert.False(t, hasRequired)
	trk := latn.FindLangSys(T("TRK"))
	require.False(t, trk.IsNull())
	req, hasRequired := trk.RequiredFeatureIndex()
	assert.True(t, hasRequired)
	assert.Equal(t, 1, req)
	assert.True(t, latn.FindLangSys(T("DEU")).IsNull())
}

func TestFeatureNavigation(t *testing.T) {
	gsub := NewLayoutTable(synthGSUB())
	fl := gsub.FeatureList()
	latn := gsub.ScriptList().FindScript(T("latn"))
	trk := latn.FindLangSys(T("TRK"))
	liga := fl.FindFeature(trk, T("liga"))
	require.False(t, liga.IsNull())
	assert.Equal(t, 1, liga.LookupCount())
	assert.Equal(t, 0, liga.LookupIndex(0))
	ccmp := fl.FindFeature(trk, T("ccmp")) // required feature
	require.False(t, ccmp.IsNull())
	assert.Equal(t, 2, ccmp.LookupCount())
	assert.Equal(t, 1, ccmp.LookupIndex(0))
	assert.True(t, fl.FindFeature(latn.FindLangSys(Dflt), T("ccmp")).IsNull())
	assert.True(t, fl.FeatureAt(7).IsNull())
}

func TestLookupNavigation(t *testing.T) {
	gsub := NewLayoutTable(synthGSUB())
	ll := gsub.LookupList()
	require.Equal(t, 2, ll.Count())
	l0 := ll.Lookup(0)
	assert.Equal(t, GSubLookupTypeSingle, l0.Type())
	assert.Equal(t, LOOKUP_FLAG_USE_MARK_FILTERING_SET, l0.Flag())
	set, ok := l0.MarkFilteringSet()
	assert.True(t, ok)
	assert.Equal(t, 3, set)
	assert.Equal(t, 88, l0.SubtableOffset(0))
	//
	l1 := ll.Lookup(1)
	assert.Equal(t, GSubLookupTypeExtensionSubs, l1.Type())
	lt, offset := l1.ResolveSubtable(0, GSubLookupTypeExtensionSubs)
	assert.Equal(t, GSubLookupTypeSingle, lt)
	assert.Equal(t, 116, offset)
	cov := NewCoverage(gsub.Table(), offset+int(gsub.Table().GetUShort(offset+2)))
	assert.True(t, cov.Contains(7))
	//
	assert.True(t, ll.Lookup(2).IsNull())
	assert.Equal(t, 0, ll.Lookup(-1).SubtableCount())
}

func TestMissingLayoutTable(t *testing.T) {
	gsub := NewLayoutTable(NewFontTable(GSUB, nil))
	assert.True(t, gsub.IsNull())
	assert.True(t, gsub.ScriptList().FindScript(T("latn")).IsNull())
	assert.Equal(t, 0, gsub.LookupList().Count())
	assert.True(t, gsub.ScriptList().FindScript(T("latn")).FindLangSys(Dflt).IsNull())
}

func TestLookupTypeNames(t *testing.T) {
	assert.Equal(t, "Ligature", GSubLookupTypeLigature.GSubString())
	assert.Equal(t, "Reverse", GSubLookupTypeReverseChaining.GSubString())
	assert.Equal(t, "MarkToBase", GPosLookupTypeMarkToBase.GPosString())
	assert.Equal(t, "Ext", GPosLookupTypeExtensionPos.GPosString())
	assert.Equal(t, "12", LayoutTableLookupType(12).GPosString())
}
