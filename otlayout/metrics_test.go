package otlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/bidi"
)

func TestDesignToPixels(t *testing.T) {
	for _, c := range []struct {
		v        int
		designEm uint16
		ppem     uint16
		pixels   int
	}{
		{500, 1000, 12, 6},
		{1042, 1000, 12, 13}, // 12.504
		{1000, 2048, 16, 8},
		{-500, 1000, 12, -6},
		{1, 1000, 400, 0},
		{2, 1000, 400, 1}, // 0.8
		{77, 0, 12, 77},
	} {
		assert.Equal(t, c.pixels, designToPixels(c.v, c.designEm, c.ppem), "%d @ %d/%d", c.v, c.ppem, c.designEm)
	}
	m := LayoutMetrics{Direction: TTB, DesignEmHeight: 1000, PixelsEmWidth: 10, PixelsEmHeight: 20}
	assert.Equal(t, 5, m.DesignToPixelsX(500))
	assert.Equal(t, 10, m.DesignToPixelsY(500))
}

func TestDirections(t *testing.T) {
	assert.Equal(t, "RTL", RTL.String())
	assert.Equal(t, "TextFlowDirection(9)", TextFlowDirection(9).String())
	assert.True(t, LTR.IsHorizontal())
	assert.True(t, RTL.IsHorizontal())
	assert.False(t, TTB.IsHorizontal())
	assert.False(t, BTT.IsHorizontal())
	assert.Equal(t, RTL, DirectionFromBidi(bidi.RightToLeft))
	assert.Equal(t, LTR, DirectionFromBidi(bidi.LeftToRight))
	assert.Equal(t, LTR, DirectionFromBidi(bidi.Mixed))
}

func TestLayoutResults(t *testing.T) {
	assert.Equal(t, Success, ResultOf(nil))
	assert.Equal(t, "LangSysNotFound", LangSysNotFound.String())
	assert.Equal(t, "LayoutResult(42)", LayoutResult(42).String())
	assert.Nil(t, badFontTable(nil))
	err := badFontTable(errFontFormat("test"))
	assert.ErrorIs(t, err, ErrBadFontTable)
	assert.Equal(t, BadFontTable, ResultOf(err))
}
