package otquery

import (
	"github.com/npillmayer/glyphshaper/ot"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

const headTableSize = 54

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(font TableSource) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if font == nil {
		return info, false
	}
	t := font.GetFontTable(ot.T("head"))
	if t.Len() < headTableSize {
		return info, false
	}
	info.MajorVersion = t.GetUShort(0)
	info.MinorVersion = t.GetUShort(2)
	info.FontRevision = t.GetUInt(4)
	info.CheckSumAdjustment = t.GetUInt(8)
	info.MagicNumber = t.GetUInt(12)
	info.Flags = t.GetUShort(16)
	info.UnitsPerEm = t.GetUShort(18)
	info.Created = int64(uint64(t.GetUInt(20))<<32 | uint64(t.GetUInt(24)))
	info.Modified = int64(uint64(t.GetUInt(28))<<32 | uint64(t.GetUInt(32)))
	info.XMin = t.GetShort(36)
	info.YMin = t.GetShort(38)
	info.XMax = t.GetShort(40)
	info.YMax = t.GetShort(42)
	info.MacStyle = t.GetUShort(44)
	info.LowestRecPPEM = t.GetUShort(46)
	info.FontDirectionHint = t.GetShort(48)
	info.IndexToLocFormat = t.GetShort(50)
	info.GlyphDataFormat = t.GetShort(52)
	return info, true
}
