package otlayout

import (
	"testing"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/stretchr/testify/assert"
)

func TestUshortListInsertRemove(t *testing.T) {
	l := UshortListFrom([]uint16{1, 2, 3})
	l.Insert(1, 2)
	assert.Equal(t, []uint16{1, 0, 0, 2, 3}, l.Values())
	l.Set(1, 7)
	l.Remove(2, 2)
	assert.Equal(t, []uint16{1, 7, 3}, l.Values())
	l.Insert(3, 40) // grow beyond capacity
	assert.Equal(t, 43, l.Length())
	assert.Equal(t, uint16(3), l.At(2))
	assert.Zero(t, l.At(42))
	l.SetLength(1)
	l.SetLength(2)
	assert.Equal(t, []uint16{1, 0}, l.Values())
	l.Insert(0, 0)
	l.Remove(0, 0)
	assert.Equal(t, 2, l.Length())
}

func TestGlyphRun(t *testing.T) {
	gl, cm := MakeGlyphRun([]ot.GlyphIndex{5, 6, 7})
	assert.Equal(t, []ot.GlyphIndex{5, 6, 7}, gl.GlyphSlice())
	assert.Equal(t, []int{0, 1, 2}, valuesOf(gl.FirstChars))
	assert.Equal(t, []int{1, 1, 1}, valuesOf(gl.LigatureCounts))
	assert.Equal(t, []int{0, 1, 2}, valuesOf(cm))
	//
	gl.Insert(1, 1)
	gl.SetGlyph(1, 9)
	gl.SetFlags(1, GlyphMark|GlyphSubstituted)
	assert.Equal(t, 4, gl.Length())
	for _, a := range []*UshortList{gl.GlyphFlags, gl.FirstChars, gl.LigatureCounts} {
		assert.Equal(t, gl.Length(), a.Length())
	}
	assert.Equal(t, GlyphMark, gl.Flags(1).Class())
	gl.Remove(0, 2)
	assert.Equal(t, []ot.GlyphIndex{6, 7}, gl.GlyphSlice())
	assert.Equal(t, []int{1, 2}, valuesOf(gl.FirstChars))
}
