package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/pterm/pterm"
)

func printLookupList(ll ot.LookupList, gpos bool) {
	if ll.IsNull() {
		pterm.Error.Println("LookupList is null")
		return
	}
	count := ll.Count()
	pterm.Printf("LookupList has %d entries\n", count)
	if count == 0 {
		return
	}
	data := [][]string{
		{"Index", "Type", "Subtables", "Flags"},
	}
	for i := range count {
		lookup := ll.Lookup(i)
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatLookupType(lookup.Type(), gpos),
			fmt.Sprintf("%d", lookup.SubtableCount()),
			formatLookupFlags(lookup.Flag()),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printLookup(lt ot.LayoutTable, index int, gpos bool) {
	ll := lt.LookupList()
	if index < 0 || index >= ll.Count() {
		pterm.Error.Printf("Lookup index out of range: %d\n", index)
		return
	}
	lookup := ll.Lookup(index)
	pterm.Printf("Lookup %d: type=%s flags=%s subtables=%d\n",
		index,
		formatLookupType(lookup.Type(), gpos),
		formatLookupFlags(lookup.Flag()),
		lookup.SubtableCount(),
	)
	if set, ok := lookup.MarkFilteringSet(); ok {
		pterm.Printf("Lookup %d uses mark filtering set %d\n", index, set)
	}
	extension := ot.GSubLookupTypeExtensionSubs
	if gpos {
		extension = ot.GPosLookupTypeExtensionPos
	}
	data := [][]string{
		{"Sub", "Type", "Offset", "Format"},
	}
	for i := 0; i < lookup.SubtableCount(); i++ {
		ltype, offset := lookup.ResolveSubtable(i, extension)
		if offset == ot.NullOffset {
			data = append(data, []string{strconv.Itoa(i), "-", "NULL", "-"})
			continue
		}
		data = append(data, []string{
			strconv.Itoa(i),
			formatLookupType(ltype, gpos),
			strconv.Itoa(offset),
			strconv.Itoa(int(lt.Table().GetUShort(offset))),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatLookupType(ltype ot.LayoutTableLookupType, gpos bool) string {
	if ltype == 0 {
		return "Unknown(0)"
	}
	if gpos {
		return ltype.GPosString()
	}
	return ltype.GSubString()
}

func formatLookupFlags(flag ot.LayoutTableLookupFlag) string {
	if flag == 0 {
		return "-"
	}
	parts := make([]string, 0, 6)
	if flag&ot.LOOKUP_FLAG_RIGHT_TO_LEFT != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 {
		parts = append(parts, "IgnoreBase")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		parts = append(parts, "UseMarkFilteringSet")
	}
	if flag&ot.LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK != 0 {
		parts = append(parts, fmt.Sprintf("MarkAttachType=%d", flag>>8))
	}
	return strings.Join(parts, "|")
}

// printShaped prints a shaped run glyph by glyph, together with the characters
// each glyph starts with.
func printShaped(text []rune, gl *otlayout.GlyphInfoList, advances []int, offsets []otlayout.LayoutOffset) {
	data := [][]string{
		{"Pos", "Glyph", "Char", "Class", "Advance", "Offset"},
	}
	for i := 0; i < gl.Length(); i++ {
		char := "-"
		if c := int(gl.FirstChars.At(i)); c < len(text) {
			char = fmt.Sprintf("%q", text[c])
		}
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(int(gl.Glyph(i))),
			char,
			formatGlyphFlags(gl.Flags(i)),
			strconv.Itoa(advances[i]),
			fmt.Sprintf("(%d,%d)", offsets[i].DX, offsets[i].DY),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatGlyphFlags(flags otlayout.GlyphFlags) string {
	var s string
	switch flags.Class() {
	case otlayout.GlyphBase:
		s = "base"
	case otlayout.GlyphLigature:
		s = "liga"
	case otlayout.GlyphMark:
		s = "mark"
	case otlayout.GlyphComponent:
		s = "comp"
	default:
		s = "-"
	}
	if flags&otlayout.GlyphMissing != 0 {
		s += " missing"
	}
	return s
}
