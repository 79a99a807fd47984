package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceTableFormats(t *testing.T) {
	// format 1: 2-bit deltas for sizes 10..17: 1, -1, 0, -2, 1, 1, 1, 1
	f1 := NewDeviceTable(NewFontTable(GPOS, u16s(10, 17, 1, 0b0111_0010_0101_0101)), 0)
	want := []int{1, -1, 0, -2, 1, 1, 1, 1}
	for i, w := range want {
		assert.Equal(t, w, f1.Value(uint16(10+i)), "ppem %d", 10+i)
	}
	assert.Equal(t, 0, f1.Value(9))
	assert.Equal(t, 0, f1.Value(18))
	// format 2: 4-bit deltas for sizes 12..15: 7, -8, -1, 3
	f2 := NewDeviceTable(NewFontTable(GPOS, u16s(12, 15, 2, 0x78F3)), 0)
	assert.Equal(t, []int{7, -8, -1, 3}, []int{f2.Value(12), f2.Value(13), f2.Value(14), f2.Value(15)})
	// format 3: 8-bit deltas for sizes 20..22: -3, 100, 1
	f3 := NewDeviceTable(NewFontTable(GPOS, u16s(20, 22, 3, 0xFD64, 0x0100)), 0)
	assert.Equal(t, []int{-3, 100, 1}, []int{f3.Value(20), f3.Value(21), f3.Value(22)})
	// variation index tables carry no deltas
	vi := NewDeviceTable(NewFontTable(GPOS, u16s(0, 5, 0x8000)), 0)
	assert.Equal(t, 0, vi.Value(3))
}

func TestValueRecord(t *testing.T) {
	assert.Equal(t, 0, ValueRecordSize(0))
	assert.Equal(t, 8, ValueRecordSize(ValueFormatXPlacement|ValueFormatXAdvance|ValueFormatXPlaDevice|ValueFormatYAdvDevice))
	// parent subtable at 0, value record at 2, device table at 10
	data := cat(u16s(0xAAAA, 0xFFCE, 0x0014, 10, 0), u16s(8, 8, 3, 0x0500))
	table := NewFontTable(GPOS, data)
	vr := ReadValueRecord(table, 2, ValueFormatXPlacement|ValueFormatXAdvance|ValueFormatXPlaDevice|ValueFormatYPlaDevice, 0)
	assert.Equal(t, int16(-50), vr.XPlacement)
	assert.Equal(t, int16(20), vr.XAdvance)
	assert.Equal(t, int16(0), vr.YPlacement)
	assert.False(t, vr.XPlaDevice.IsNull())
	assert.True(t, vr.YPlaDevice.IsNull())
	assert.True(t, vr.XAdvDevice.IsNull())
	assert.Equal(t, 5, vr.XPlaDevice.Value(8))
}

func TestAnchorFormats(t *testing.T) {
	table := NewFontTable(GPOS, cat(
		// format 1 @0: (100, -100)
		u16s(1, 100, 0xFF9C),
		// format 2 @6
		u16s(2, 10, 20, 7),
		// format 3 @14, x device @24
		u16s(3, 5, 6, 10, 0),
		u16s(9, 9, 3, 0x0200),
	))
	a1 := NewAnchor(table, 0)
	x, y := a1.Coords()
	assert.Equal(t, int16(100), x)
	assert.Equal(t, int16(-100), y)
	_, ok := a1.ContourPoint()
	assert.False(t, ok)
	a2 := NewAnchor(table, 6)
	pt, ok := a2.ContourPoint()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), pt)
	a3 := NewAnchor(table, 14)
	xd, yd := a3.Devices()
	assert.Equal(t, 2, xd.Value(9))
	assert.True(t, yd.IsNull())
	assert.False(t, AnchorAt(table, 14, 20).IsNull())
	assert.True(t, AnchorAt(table, 14, 22).IsNull())
}
