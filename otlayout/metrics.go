package otlayout

import (
	"fmt"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// TextFlowDirection is the direction in which glyphs of a run follow each other.
type TextFlowDirection uint8

const (
	LTR TextFlowDirection = iota // left to right
	RTL                          // right to left
	TTB                          // top to bottom
	BTT                          // bottom to top
)

func (d TextFlowDirection) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case TTB:
		return "TTB"
	case BTT:
		return "BTT"
	}
	return fmt.Sprintf("TextFlowDirection(%d)", int(d))
}

// IsHorizontal is true for LTR and RTL.
func (d TextFlowDirection) IsHorizontal() bool {
	return d == LTR || d == RTL
}

// DirectionFromBidi converts the direction of a bidi paragraph or run.
// Mixed and neutral runs are treated as left to right.
func DirectionFromBidi(dir bidi.Direction) TextFlowDirection {
	if dir == bidi.RightToLeft {
		return RTL
	}
	return LTR
}

// LayoutOffset is a two-dimensional displacement. Depending on context, it is
// measured in design units or in pixels.
type LayoutOffset struct {
	DX, DY int
}

// LayoutMetrics holds what positioning needs to know about the rendering of a run:
// the flow direction, the font's design units per em, and the size of the em in pixels.
// Positioning results (advances and offsets) are in pixels.
type LayoutMetrics struct {
	Direction      TextFlowDirection
	DesignEmHeight uint16 // design units per em, from the font's head table
	PixelsEmWidth  uint16 // horizontal pixels per em
	PixelsEmHeight uint16 // vertical pixels per em
}

// NewLayoutMetrics creates metrics for a square em of ppem pixels.
func NewLayoutMetrics(dir TextFlowDirection, designEm, ppem uint16) LayoutMetrics {
	return LayoutMetrics{
		Direction:      dir,
		DesignEmHeight: designEm,
		PixelsEmWidth:  ppem,
		PixelsEmHeight: ppem,
	}
}

// DesignToPixelsX scales a horizontal design-unit value to pixels.
func (m LayoutMetrics) DesignToPixelsX(v int) int {
	return designToPixels(v, m.DesignEmHeight, m.PixelsEmWidth)
}

// DesignToPixelsY scales a vertical design-unit value to pixels.
func (m LayoutMetrics) DesignToPixelsY(v int) int {
	return designToPixels(v, m.DesignEmHeight, m.PixelsEmHeight)
}

// designToPixels scales in 52.12 fixed point and rounds to the nearest pixel.
func designToPixels(v int, designEm, ppem uint16) int {
	if designEm == 0 {
		return v
	}
	scaled := fixed.Int52_12(int64(v)*int64(ppem)<<12) / fixed.Int52_12(designEm)
	return scaled.Round()
}
