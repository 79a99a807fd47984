package otquery

import (
	"fmt"
	"iter"

	"github.com/npillmayer/glyphshaper/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// nameKey identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type nameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16      // not supported
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1 // not supported
	PlatformIDWindows   PlatformID = 3
)

type EncodingID uint16

const (
	EncodingIDUnicodeBMP    EncodingID = 3
	EncodingIDWindowsSymbol EncodingID = 0 // for now we will not support symbol fonts
	EncodingIDWindowsBMP    EncodingID = 1
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table.
//
// Only currently supported encodings are yielded (Unicode BMP and Windows BMP),
// and malformed or out-of-bounds records are skipped.
func NamesRange(font TableSource) iter.Seq2[sfnt.NameID, string] {
	names, ok := checkNameTableSafe(font)
	return func(yield func(sfnt.NameID, string) bool) {
		if !ok {
			return
		}
		count := int(names.GetUShort(2)) // number of name records
		storage := int(names.GetUShort(4))
		for i := range count {
			rec := nameHeaderSize + i*nameRecordSize
			key := nameKey{
				Platform: PlatformID(names.GetUShort(rec)),
				Encoding: EncodingID(names.GetUShort(rec + 2)),
				Language: names.GetUShort(rec + 4),
				Name:     sfnt.NameID(names.GetUShort(rec + 6)),
			}
			if !isSupportedNameEncoding(key) {
				continue
			}
			start := storage + int(names.GetUShort(rec+10))
			end := start + int(names.GetUShort(rec+8))
			if end > names.Len() {
				continue
			}
			value, err := decodeNameUTF16(names.Bytes()[start:end])
			if err != nil || value == "" {
				continue
			}
			if !yield(key.Name, value) {
				return
			}
		}
	}
}

// NameInfo collects the most common names of a font, keyed by 'family', 'subfamily',
// 'full', 'version' and 'postscript'. Names not present in the font are left out.
func NameInfo(font TableSource) map[string]string {
	keys := map[sfnt.NameID]string{
		sfnt.NameIDFamily:     "family",
		sfnt.NameIDSubfamily:  "subfamily",
		sfnt.NameIDFull:       "full",
		sfnt.NameIDVersion:    "version",
		sfnt.NameIDPostScript: "postscript",
	}
	info := make(map[string]string)
	for id, value := range NamesRange(font) {
		if key, ok := keys[id]; ok {
			if _, seen := info[key]; !seen {
				info[key] = value
			}
		}
	}
	return info
}

// checkNameTableSafe checks if the name table is safe to use, i.e. no out-of-bounds access,
// no empty tables, etc.
func checkNameTableSafe(font TableSource) (ot.FontTable, bool) {
	if font == nil {
		return ot.FontTable{}, false
	}
	table := font.GetFontTable(ot.T("name"))
	if !table.IsPresent() {
		tracer().Debugf("no name table found in font")
		return table, false
	}
	if table.Len() < nameHeaderSize {
		tracer().Debugf("name table too short: %d", table.Len())
		return table, false
	}
	count := int(table.GetUShort(2))
	strOff := int(table.GetUShort(4))
	if strOff > table.Len() {
		tracer().Debugf("name table invalid string offset: %d", strOff)
		return table, false
	}
	if recordsEnd := nameHeaderSize + count*nameRecordSize; recordsEnd > table.Len() {
		tracer().Debugf("name table record section out of bounds: count=%d", count)
		return table, false
	}
	return table, true
}

func isSupportedNameEncoding(key nameKey) bool {
	return (key.Platform == PlatformIDUnicode && key.Encoding == EncodingIDUnicodeBMP) ||
		(key.Platform == PlatformIDWindows && key.Encoding == EncodingIDWindowsBMP)
}

func decodeNameUTF16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
