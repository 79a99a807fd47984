package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGDEFClasses(t *testing.T) {
	data := cat(
		u16s(1, 2, 14, 0, 0, 30, 40),
		classDefFmt2(rangeRec{10, 10, 1}, rangeRec{20, 22, 3}),
		classDefFmt2(rangeRec{21, 21, 2}),
		u16s(1, 1, 0, 8),
		coverageFmt1(22),
	)
	gdef := NewGDEFTable(NewFontTable(GDEF, data))
	assert.False(t, gdef.IsNull())
	assert.Equal(t, BaseGlyph, gdef.GlyphClass(10))
	assert.Equal(t, MarkGlyph, gdef.GlyphClass(21))
	assert.Equal(t, UnclassifiedGlyph, gdef.GlyphClass(11))
	assert.Equal(t, uint16(2), gdef.MarkAttachClass(21))
	assert.Equal(t, uint16(0), gdef.MarkAttachClass(22))
	assert.True(t, gdef.IsMarkGlyphInSet(0, 22))
	assert.False(t, gdef.IsMarkGlyphInSet(0, 21))
	assert.False(t, gdef.IsMarkGlyphInSet(1, 22))
}

func TestGDEFAbsent(t *testing.T) {
	gdef := NewGDEFTable(NewFontTable(GDEF, nil))
	assert.True(t, gdef.IsNull())
	assert.Equal(t, UnclassifiedGlyph, gdef.GlyphClass(10))
	assert.False(t, gdef.IsMarkGlyphInSet(0, 10))
}
