package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// --- Value records ---------------------------------------------------------

// applyValueRecord adds the adjustments of a value record to the glyph at pos.
// Placements go to the glyph's offset. Advance adjustments go to its advance, the x
// advance for horizontal runs and the y advance for vertical runs.
func (ctx *applyCtx) applyValueRecord(vr ot.ValueRecord, pos int) {
	m := ctx.metrics
	ctx.offsets[pos].DX += m.DesignToPixelsX(int(vr.XPlacement)) + vr.XPlaDevice.Value(m.PixelsEmWidth)
	ctx.offsets[pos].DY += m.DesignToPixelsY(int(vr.YPlacement)) + vr.YPlaDevice.Value(m.PixelsEmHeight)
	if m.Direction.IsHorizontal() {
		ctx.advances[pos] += m.DesignToPixelsX(int(vr.XAdvance)) + vr.XAdvDevice.Value(m.PixelsEmWidth)
	} else {
		ctx.advances[pos] += m.DesignToPixelsY(int(vr.YAdvance)) + vr.YAdvDevice.Value(m.PixelsEmHeight)
	}
	ctx.positioned(pos)
}

func (ctx *applyCtx) positioned(pos int) {
	ctx.glyphs.SetFlags(pos, ctx.glyphs.Flags(pos)|GlyphPositioned)
}

// --- Anchors ---------------------------------------------------------------

// anchorPosition returns the position of an anchor of a glyph in pixels, relative to
// the glyph's origin. Anchors bound to a contour point use the point's coordinates if
// the font is able to provide them.
func (ctx *applyCtx) anchorPosition(a ot.Anchor, g ot.GlyphIndex) LayoutOffset {
	x, y := a.Coords()
	design := LayoutOffset{DX: int(x), DY: int(y)}
	if point, ok := a.ContourPoint(); ok && ctx.font != nil {
		if p, ok := ctx.font.GetGlyphPointCoord(g, point); ok {
			design = p
		}
	}
	m := ctx.metrics
	xdev, ydev := a.Devices()
	return LayoutOffset{
		DX: m.DesignToPixelsX(design.DX) + xdev.Value(m.PixelsEmWidth),
		DY: m.DesignToPixelsY(design.DY) + ydev.Value(m.PixelsEmHeight),
	}
}

// AlignAnchors moves the glyph at position mobile such that its anchor mobileAnchor
// coincides with the anchor staticAnchor of the glyph at position static. Anchors are
// relative to the glyphs' origins, all values are in pixels and y grows upwards.
//
// The origins of glyphs follow each other in flow direction, separated by their
// advances. Offsets displace a glyph from its origin. AlignAnchors sets the offset of
// the mobile glyph. With useAdvances set, the displacement along the flow is folded
// into the advance separating the two glyphs instead, which moves all glyphs following
// it, as cursive attachment requires. The displacement across the flow is always
// applied to the offset.
func AlignAnchors(metrics LayoutMetrics, advances []int, offsets []LayoutOffset,
	static, mobile int, staticAnchor, mobileAnchor LayoutOffset, useAdvances bool) {
	//
	horizontal := metrics.Direction.IsHorizontal()
	// distance between the two origins along the flow axis, in font coordinates
	distance := 0
	lo, hi := min(static, mobile), max(static, mobile)
	switch metrics.Direction {
	case LTR, BTT:
		for k := lo; k < hi; k++ {
			distance += advances[k]
		}
	case RTL:
		for k := lo + 1; k <= hi; k++ {
			distance -= advances[k]
		}
	case TTB:
		for k := lo; k < hi; k++ {
			distance -= advances[k]
		}
	}
	sign := 1 // how the distance changes with the advance separating the glyphs
	if metrics.Direction == RTL || metrics.Direction == TTB {
		sign = -1
	}
	if mobile < static {
		distance, sign = -distance, -sign
	}
	separating := lo // the advance between lo and hi which counts
	if metrics.Direction == RTL {
		separating = hi
	}
	// placement of the mobile glyph which aligns the anchors
	dx := offsets[static].DX + staticAnchor.DX - mobileAnchor.DX
	dy := offsets[static].DY + staticAnchor.DY - mobileAnchor.DY
	if horizontal {
		dx -= distance
	} else {
		dy -= distance
	}
	switch {
	case !useAdvances:
		offsets[mobile] = LayoutOffset{DX: dx, DY: dy}
	case horizontal:
		advances[separating] += sign * (dx - offsets[mobile].DX)
		offsets[mobile].DY = dy
	default:
		advances[separating] += sign * (dy - offsets[mobile].DY)
		offsets[mobile].DX = dx
	}
}

// alignAnchors aligns two anchors of glyphs of the run and flags the mobile glyph
// as positioned.
func (ctx *applyCtx) alignAnchors(static, mobile int, staticAnchor, mobileAnchor ot.Anchor, useAdvances bool) {
	AlignAnchors(ctx.metrics, ctx.advances, ctx.offsets, static, mobile,
		ctx.anchorPosition(staticAnchor, ctx.glyphs.Glyph(static)),
		ctx.anchorPosition(mobileAnchor, ctx.glyphs.Glyph(mobile)),
		useAdvances)
	ctx.positioned(mobile)
}

// --- Mark attachment tables ------------------------------------------------

// markRecord reads the class and anchor of mark number inx of a MarkArray:
//
//	uint16     | markCount               | Number of MarkRecords
//	MarkRecord | markRecords[markCount]  | Array of MarkRecords, ordered by corresponding glyphs in the associated mark Coverage table
//
// with MarkRecord = { uint16 markClass, Offset16 markAnchorOffset (from beginning of MarkArray) }.
func (ctx *applyCtx) markRecord(markArray, inx int) (int, ot.Anchor) {
	if markArray == ot.NullOffset || inx >= int(ctx.table.GetUShort(markArray)) {
		ot.RaiseFormatError(ctx.table.Tag(), "MarkArray", markArray, "mark coverage index exceeds mark records")
	}
	rec := markArray + 2 + inx*4
	return int(ctx.table.GetUShort(rec)), ot.AnchorAt(ctx.table, markArray, rec+2)
}

// anchorMatrix reads the anchor for row inx and mark class of a BaseArray, Mark2Array
// or LigatureAttach table, which all are matrices of anchor offsets:
//
//	uint16 | rowCount | Number of records
//	Offset16 | anchorOffsets[rowCount][classCount] | Offsets from the beginning of the table
func (ctx *applyCtx) anchorMatrix(matrix, inx, class, classCount int) ot.Anchor {
	if matrix == ot.NullOffset || inx >= int(ctx.table.GetUShort(matrix)) || class >= classCount {
		ot.RaiseFormatError(ctx.table.Tag(), "AnchorArray", matrix, "anchor index out of range")
	}
	return ot.AnchorAt(ctx.table, matrix, matrix+2+(inx*classCount+class)*2)
}

// precedingBase finds the glyph a mark at pos attaches to: the closest preceding glyph
// which is not a mark. Returns -1 if there is none.
func (ctx *applyCtx) precedingBase(pos int) int {
	for pos--; pos >= 0; pos-- {
		if ctx.glyphs.Flags(pos).Class() != GlyphMark {
			return pos
		}
	}
	return -1
}
