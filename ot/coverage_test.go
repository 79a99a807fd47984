package ot

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageFormat1(t *testing.T) {
	cov := NewCoverage(NewFontTable(GSUB, coverageFmt1(3, 5, 8, 100, 2000)), 0)
	cases := []struct {
		glyph GlyphIndex
		index int
	}{
		{3, 0}, {5, 1}, {8, 2}, {100, 3}, {2000, 4},
		{0, -1}, {4, -1}, {99, -1}, {2001, -1}, {0xFFFF, -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.index, cov.GetGlyphIndex(c.glyph), "glyph %d", c.glyph)
	}
}

func TestCoverageFormat2(t *testing.T) {
	cov := NewCoverage(NewFontTable(GSUB, coverageFmt2(
		rangeRec{10, 12, 0},
		rangeRec{20, 20, 3},
		rangeRec{30, 39, 4},
	)), 0)
	cases := []struct {
		glyph GlyphIndex
		index int
	}{
		{10, 0}, {11, 1}, {12, 2}, {20, 3}, {30, 4}, {39, 13},
		{9, -1}, {13, -1}, {19, -1}, {21, -1}, {29, -1}, {40, -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.index, cov.GetGlyphIndex(c.glyph), "glyph %d", c.glyph)
	}
}

func TestCoverageUnknownFormat(t *testing.T) {
	cov := NewCoverage(NewFontTable(GSUB, u16s(7, 1, 5)), 0)
	assert.Equal(t, -1, cov.GetGlyphIndex(5))
	assert.False(t, NewCoverage(NewFontTable(GSUB, nil), 0).Contains(5))
}

func TestCoverageFormat1Random(t *testing.T) {
	rnd := rand.New(rand.NewSource(4711))
	for round := 0; round < 50; round++ {
		set := map[uint16]bool{}
		for len(set) < 1+rnd.Intn(200) {
			set[uint16(rnd.Intn(5000))] = true
		}
		glyphs := make([]uint16, 0, len(set))
		for g := range set {
			glyphs = append(glyphs, g)
		}
		sort.Slice(glyphs, func(i, j int) bool { return glyphs[i] < glyphs[j] })
		cov := NewCoverage(NewFontTable(GSUB, coverageFmt1(glyphs...)), 0)
		for i, g := range glyphs {
			require.Equal(t, i, cov.GetGlyphIndex(GlyphIndex(g)), "member glyph %d", g)
		}
		for probe := 0; probe < 200; probe++ {
			g := uint16(rnd.Intn(5100))
			if !set[g] {
				require.Equal(t, -1, cov.GetGlyphIndex(GlyphIndex(g)), "non-member glyph %d", g)
			}
		}
	}
}

func TestCoverageFormat2Random(t *testing.T) {
	rnd := rand.New(rand.NewSource(815))
	for round := 0; round < 50; round++ {
		var ranges []rangeRec
		next, index := uint16(rnd.Intn(10)), uint16(0)
		for i := 0; i < 1+rnd.Intn(30); i++ {
			start := next + uint16(rnd.Intn(20))
			end := start + uint16(rnd.Intn(10))
			ranges = append(ranges, rangeRec{start, end, index})
			index += end - start + 1
			next = end + 1 + uint16(rnd.Intn(3))
		}
		cov := NewCoverage(NewFontTable(GSUB, coverageFmt2(ranges...)), 0)
		covered := map[GlyphIndex]int{}
		for _, r := range ranges {
			for g := r.start; g <= r.end; g++ {
				covered[GlyphIndex(g)] = int(g-r.start) + int(r.index)
			}
		}
		for g := GlyphIndex(0); g <= GlyphIndex(next)+5; g++ {
			want, ok := covered[g]
			if !ok {
				want = -1
			}
			require.Equal(t, want, cov.GetGlyphIndex(g), "glyph %d", g)
		}
	}
}

func TestCoverageGlyphs(t *testing.T) {
	cov := NewCoverage(NewFontTable(GSUB, coverageFmt2(rangeRec{4, 6, 0}, rangeRec{9, 9, 3})), 0)
	var glyphs []GlyphIndex
	for g := range cov.Glyphs() {
		glyphs = append(glyphs, g)
	}
	assert.Equal(t, []GlyphIndex{4, 5, 6, 9}, glyphs)
}

func TestIsAnyGlyphCovered(t *testing.T) {
	bits := NewGlyphBits(1000)
	bits.Set(70)
	bits.Set(500)
	f1 := NewCoverage(NewFontTable(GSUB, coverageFmt1(10, 70, 300)), 0)
	f2 := NewCoverage(NewFontTable(GSUB, coverageFmt2(rangeRec{400, 600, 0})), 0)
	assert.True(t, f1.IsAnyGlyphCovered(bits, 0, 999))
	assert.False(t, f1.IsAnyGlyphCovered(bits, 71, 999))
	assert.True(t, f2.IsAnyGlyphCovered(bits, 0, 999))
	assert.False(t, f2.IsAnyGlyphCovered(bits, 501, 999))
	assert.False(t, f2.IsAnyGlyphCovered(NewGlyphBits(1000), 0, 999))
}

func TestGlyphBitsRange(t *testing.T) {
	bits := NewGlyphBits(256)
	bits.Set(200)
	assert.True(t, bits.AnyInRange(0, 255))
	assert.True(t, bits.AnyInRange(200, 200))
	assert.False(t, bits.AnyInRange(0, 199))
	assert.False(t, bits.AnyInRange(201, 255))
	assert.False(t, bits.AnyInRange(300, 400))
}

func TestClassDef(t *testing.T) {
	fmt1 := NewClassDef(NewFontTable(GSUB, u16s(1, 10, 3, 2, 0, 5)), 0)
	assert.Equal(t, uint16(2), fmt1.GetClass(10))
	assert.Equal(t, uint16(0), fmt1.GetClass(11))
	assert.Equal(t, uint16(5), fmt1.GetClass(12))
	assert.Equal(t, uint16(0), fmt1.GetClass(13))
	assert.Equal(t, uint16(0), fmt1.GetClass(9))
	fmt2 := NewClassDef(NewFontTable(GSUB, classDefFmt2(rangeRec{5, 7, 1}, rangeRec{20, 29, 3})), 0)
	assert.Equal(t, uint16(1), fmt2.GetClass(5))
	assert.Equal(t, uint16(1), fmt2.GetClass(7))
	assert.Equal(t, uint16(0), fmt2.GetClass(8))
	assert.Equal(t, uint16(3), fmt2.GetClass(29))
	assert.Equal(t, uint16(0), fmt2.GetClass(30))
	assert.Equal(t, uint16(0), NewClassDef(NewFontTable(GSUB, u16s(3, 0)), 0).GetClass(1))
}
