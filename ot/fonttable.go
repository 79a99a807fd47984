package ot

import (
	"errors"
	"fmt"
	"math"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

// NullOffset is the offset of views which do not point to any data, i.e. the
// result of following a NULL link or of a failed lookup.
const NullOffset = math.MaxInt

const nullOffset = NullOffset

// FontTable is the binary data of one OpenType table, e.g. GSUB.
// It is immutable and may be shared between concurrent shaping calls.
//
// All structures of a layout table are views into a FontTable, never copies.
type FontTable struct {
	tag  Tag
	data []byte
}

// NewFontTable wraps the binary data of a font table. data must not be modified
// afterwards. A nil or empty data slice results in a table which is not present.
func NewFontTable(tag Tag, data []byte) FontTable {
	return FontTable{tag: tag, data: data}
}

// IsPresent is false if the font does not contain this table.
func (t FontTable) IsPresent() bool {
	return len(t.data) > 0
}

// Len returns the size of the table in bytes.
func (t FontTable) Len() int {
	return len(t.data)
}

// Tag returns the table tag.
func (t FontTable) Tag() Tag {
	return t.tag
}

// Bytes returns the binary data of the table, which should be treated as read-only.
func (t FontTable) Bytes() []byte {
	return t.data
}

// view returns n bytes at the given offset.
func (t FontTable) view(offset, n int) ([]byte, error) {
	if offset < 0 || n <= 0 || offset > len(t.data)-n {
		return nil, errBufferBounds
	}
	return t.data[offset : offset+n], nil
}

// ReadUShort reads the uint16 at a byte offset.
func (t FontTable) ReadUShort(offset int) (uint16, error) {
	buf, err := t.view(offset, 2)
	if err != nil {
		return 0, t.boundsError(offset, 2)
	}
	return u16(buf), nil
}

// ReadUInt reads the uint32 at a byte offset.
func (t FontTable) ReadUInt(offset int) (uint32, error) {
	buf, err := t.view(offset, 4)
	if err != nil {
		return 0, t.boundsError(offset, 4)
	}
	return u32(buf), nil
}

func (t FontTable) boundsError(offset, width int) error {
	return FontError{
		Table:    t.tag,
		Section:  "read",
		Issue:    errBufferBounds.Error() + ": " + readDescription(offset, width, len(t.data)),
		Severity: SeverityCritical,
		Offset:   uint32(max(offset, 0)),
	}
}

// GetUShort reads the uint16 at a byte offset.
// Reading out of bounds raises a format error (see CatchFormatError).
func (t FontTable) GetUShort(offset int) uint16 {
	buf, err := t.view(offset, 2)
	if err != nil {
		t.raiseBounds(offset, 2)
	}
	return u16(buf)
}

// GetShort reads the int16 at a byte offset.
// Reading out of bounds raises a format error (see CatchFormatError).
func (t FontTable) GetShort(offset int) int16 {
	return int16(t.GetUShort(offset))
}

// GetUInt reads the uint32 at a byte offset.
// Reading out of bounds raises a format error (see CatchFormatError).
func (t FontTable) GetUInt(offset int) uint32 {
	buf, err := t.view(offset, 4)
	if err != nil {
		t.raiseBounds(offset, 4)
	}
	return u32(buf)
}

// GetTag reads the tag at a byte offset.
func (t FontTable) GetTag(offset int) Tag {
	return Tag(t.GetUInt(offset))
}

// GetGlyph reads a glyph ID at a byte offset.
func (t FontTable) GetGlyph(offset int) GlyphIndex {
	return GlyphIndex(t.GetUShort(offset))
}

func (t FontTable) raiseBounds(offset, width int) {
	RaiseFormatError(t.tag, "read", offset, errBufferBounds.Error()+": "+
		readDescription(offset, width, len(t.data)))
}

func readDescription(offset, width, size int) string {
	return fmt.Sprintf("reading %d bytes at %d of %d", width, offset, size)
}

// Link16 follows the Offset16 stored at byte position at, relative to base, and
// returns the absolute target offset. A zero offset is a NULL link and results in NullOffset.
func (t FontTable) Link16(base, at int) int {
	return link16(t, base, at)
}

// Link32 follows the Offset32 stored at byte position at, relative to base.
func (t FontTable) Link32(base, at int) int {
	return link32(t, base, at)
}
