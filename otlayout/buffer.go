package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// --- UshortList ------------------------------------------------------------

// growIncrement is the minimum number of slots added when a list has to grow.
const growIncrement = 16

// UshortList is a resizable array of uint16 values. It is the building block of
// GlyphInfoList and is used for character maps as well.
//
// Contract:
//   - Indices are zero-based in the range [0, Length()).
//   - Insert and Remove shift the tail of the list and keep its order.
//   - Out-of-range indices are programmer errors and may panic.
type UshortList struct {
	a []uint16
}

// NewUshortList creates a list with length zero-valued entries and room for
// capacity entries.
func NewUshortList(length, capacity int) *UshortList {
	return &UshortList{a: make([]uint16, length, max(length, capacity))}
}

// UshortListFrom creates a list holding a copy of values.
func UshortListFrom(values []uint16) *UshortList {
	l := NewUshortList(len(values), len(values))
	copy(l.a, values)
	return l
}

// Length returns the number of entries.
func (l *UshortList) Length() int {
	return len(l.a)
}

// At returns the entry at position i.
func (l *UshortList) At(i int) uint16 {
	return l.a[i]
}

// Set overwrites the entry at position i.
func (l *UshortList) Set(i int, v uint16) {
	l.a[i] = v
}

// Values returns the entries as a slice, which is valid until the next change of
// the list's length. Clients should treat it as read-only.
func (l *UshortList) Values() []uint16 {
	return l.a
}

// SetLength changes the length of the list, zeroing new entries.
func (l *UshortList) SetLength(n int) {
	if n <= len(l.a) {
		l.a = l.a[:n]
		return
	}
	l.Insert(len(l.a), n-len(l.a))
}

// Insert inserts count zero-valued entries before position pos.
func (l *UshortList) Insert(pos, count int) {
	if count <= 0 {
		return
	}
	n := len(l.a)
	if n+count > cap(l.a) {
		grown := make([]uint16, n, max(n+count, cap(l.a)+cap(l.a)/2+growIncrement))
		copy(grown, l.a)
		l.a = grown
	}
	l.a = l.a[:n+count]
	copy(l.a[pos+count:], l.a[pos:n])
	clear(l.a[pos : pos+count])
}

// Remove removes count entries starting at position pos.
func (l *UshortList) Remove(pos, count int) {
	if count <= 0 {
		return
	}
	n := len(l.a)
	copy(l.a[pos:], l.a[pos+count:])
	l.a = l.a[:n-count]
}

// --- Glyph flags -----------------------------------------------------------

// GlyphFlags is a bitfield of properties of a glyph in a GlyphInfoList.
//
// The lowest three bits hold the glyph's class, derived from the font's GDEF table.
// The other bits record what happened to a glyph during shaping.
type GlyphFlags uint16

const (
	GlyphUnresolved GlyphFlags = 0 // class not yet determined
	GlyphBase       GlyphFlags = 1 // single character, spacing glyph
	GlyphLigature   GlyphFlags = 2 // multiple character, spacing glyph
	GlyphMark       GlyphFlags = 3 // non-spacing combining glyph
	GlyphComponent  GlyphFlags = 4 // part of single character, spacing glyph
	GlyphUnassigned GlyphFlags = 7 // GDEF did not assign a class
	GlyphClassMask  GlyphFlags = 0x0007

	GlyphSubstituted      GlyphFlags = 0x0010 // glyph has been changed by a GSUB lookup
	GlyphPositioned       GlyphFlags = 0x0020 // glyph has been moved by a GPOS lookup
	GlyphCursiveConnected GlyphFlags = 0x0040 // glyph is cursively attached to the following glyph
	GlyphZeroWidth        GlyphFlags = 0x0080 // glyph has no advance
	GlyphMissing          GlyphFlags = 0x0100 // glyph is the font's .notdef replacement
)

// Class returns the class bits of the flags.
func (f GlyphFlags) Class() GlyphFlags {
	return f & GlyphClassMask
}

// --- GlyphInfoList ---------------------------------------------------------

// GlyphInfoList is the shaping buffer: four parallel arrays indexed by glyph position.
//
//	Glyphs          glyph IDs
//	GlyphFlags      GlyphFlags per glyph
//	FirstChars      index of the first character of the run this glyph represents
//	LigatureCounts  number of characters this glyph represents
//
// All four arrays always have the same length. Glyphs are inserted and removed
// through GlyphInfoList only, never through one of the arrays.
type GlyphInfoList struct {
	Glyphs         *UshortList
	GlyphFlags     *UshortList
	FirstChars     *UshortList
	LigatureCounts *UshortList
}

// NewGlyphInfoList creates a glyph buffer of a given length and capacity.
func NewGlyphInfoList(length, capacity int) *GlyphInfoList {
	return &GlyphInfoList{
		Glyphs:         NewUshortList(length, capacity),
		GlyphFlags:     NewUshortList(length, capacity),
		FirstChars:     NewUshortList(length, capacity),
		LigatureCounts: NewUshortList(length, capacity),
	}
}

// MakeGlyphRun creates a glyph buffer for a run of glyphs with a 1:1 relation to
// the characters of the run, together with the matching character map.
func MakeGlyphRun(glyphs []ot.GlyphIndex) (*GlyphInfoList, *UshortList) {
	gl := NewGlyphInfoList(len(glyphs), len(glyphs)+growIncrement)
	charmap := NewUshortList(len(glyphs), len(glyphs))
	for i, g := range glyphs {
		gl.Glyphs.Set(i, uint16(g))
		gl.FirstChars.Set(i, uint16(i))
		gl.LigatureCounts.Set(i, 1)
		charmap.Set(i, uint16(i))
	}
	return gl, charmap
}

// Length returns the number of glyphs.
func (gl *GlyphInfoList) Length() int {
	return gl.Glyphs.Length()
}

// Insert inserts count glyph slots before position pos, in all four arrays.
func (gl *GlyphInfoList) Insert(pos, count int) {
	gl.Glyphs.Insert(pos, count)
	gl.GlyphFlags.Insert(pos, count)
	gl.FirstChars.Insert(pos, count)
	gl.LigatureCounts.Insert(pos, count)
}

// Remove removes count glyph slots starting at position pos, from all four arrays.
func (gl *GlyphInfoList) Remove(pos, count int) {
	gl.Glyphs.Remove(pos, count)
	gl.GlyphFlags.Remove(pos, count)
	gl.FirstChars.Remove(pos, count)
	gl.LigatureCounts.Remove(pos, count)
}

// Glyph returns the glyph at position i.
func (gl *GlyphInfoList) Glyph(i int) ot.GlyphIndex {
	return ot.GlyphIndex(gl.Glyphs.At(i))
}

// SetGlyph overwrites the glyph at position i.
func (gl *GlyphInfoList) SetGlyph(i int, g ot.GlyphIndex) {
	gl.Glyphs.Set(i, uint16(g))
}

// Flags returns the glyph flags at position i.
func (gl *GlyphInfoList) Flags(i int) GlyphFlags {
	return GlyphFlags(gl.GlyphFlags.At(i))
}

// SetFlags overwrites the glyph flags at position i.
func (gl *GlyphInfoList) SetFlags(i int, f GlyphFlags) {
	gl.GlyphFlags.Set(i, uint16(f))
}

// GlyphSlice returns a copy of the glyph IDs.
func (gl *GlyphInfoList) GlyphSlice() []ot.GlyphIndex {
	r := make([]ot.GlyphIndex, gl.Length())
	for i := range r {
		r[i] = gl.Glyph(i)
	}
	return r
}
