package otlayout

import (
	"slices"
	"strings"
	"sync"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/glyphshaper/ot"
	xlanguage "golang.org/x/text/language"
)

// Complete list of script tags at:
// https://docs.microsoft.com/en-us/typography/opentype/spec/scripttags
//
// Most of the script tags are the same as the ISO 15924 tag but lowercased.
// So we just do that, and handle the exceptional cases in a switch.

// ScriptTagFor returns the (old-style) OpenType script tag for a Unicode script.
// Common, inherited and unknown scripts map to 'DFLT'.
func ScriptTagFor(script language.Script) ot.Tag {
	switch script {
	case 0, language.Common, language.Inherited, language.Unknown:
		return ot.DFLT
	case language.Mathematical_notation:
		return ot.T("math")
	case language.Hiragana: // KATAKANA and HIRAGANA both map to 'kana'
		return ot.T("kana")
	// spaces at the end are preserved, unlike ISO 15924
	case language.Lao:
		return ot.T("lao ")
	case language.Yi:
		return ot.T("yi  ")
	case language.Nko:
		return ot.T("nko ")
	case language.Vai:
		return ot.T("vai ")
	}
	return ot.Tag(uint32(script) | 0x20000000) // lowercase first letter
}

// ScriptTags returns the script tags a font may use for a script, in order of
// preference: Indic scripts have tags for version 3 and 2 shaping ('dev3', 'dev2'),
// followed by the old-style tag.
func ScriptTags(script language.Script) []ot.Tag {
	var tags []ot.Tag
	if tag, ok := indicScriptTags[script]; ok {
		if script != language.Myanmar { // there is no 'mym3'
			tags = append(tags, ot.T(tag+"3"))
		}
		tags = append(tags, ot.T(tag+"2"))
	}
	if tag := ScriptTagFor(script); tag != ot.DFLT {
		tags = append(tags, tag)
	}
	return tags
}

var indicScriptTags = map[language.Script]string{
	language.Bengali:    "bng",
	language.Devanagari: "dev",
	language.Gujarati:   "gjr",
	language.Gurmukhi:   "gur",
	language.Kannada:    "knd",
	language.Malayalam:  "mlm",
	language.Oriya:      "ory",
	language.Tamil:      "tml",
	language.Telugu:     "tel",
	language.Myanmar:    "mym",
}

// ScriptTagForRune returns the script tag for the script of a character.
func ScriptTagForRune(r rune) ot.Tag {
	return ScriptTagFor(language.LookupScript(r))
}

// SelectScript finds the script tag a font uses for a script, trying the tags of
// ScriptTags in order. If the font supports none of them, 'DFLT' is returned.
func SelectScript(font OpenTypeFont, script language.Script) ot.Tag {
	for _, tag := range ScriptTags(script) {
		if FindScript(font, tag) != TagInfoNone {
			return tag
		}
	}
	return ot.DFLT
}

// LanguageTagFor returns the preferred OpenType language system tag for a BCP 47
// language tag. Undetermined languages, and languages without a language system in the
// registry, map to 'dflt'.
func LanguageTagFor(tag xlanguage.Tag) ot.Tag {
	if tags := LanguageTags(tag); len(tags) > 0 {
		return tags[0]
	}
	return ot.Dflt
}

// LanguageTags returns the OpenType language system tags for a BCP 47 language tag,
// in order of preference. Languages are looked up by their primary subtag in the
// OpenType language system registry. Languages missing from the registry use their
// upper-cased ISO 639-3 code.
func LanguageTags(tag xlanguage.Tag) []ot.Tag {
	base, conf := tag.Base()
	if conf <= xlanguage.Low {
		return nil
	}
	primary := base.String()
	if primary == "zh" {
		return chineseLanguageTags(tag)
	}
	if tags, known := languageTagsForPrimary(primary); known {
		return tags
	}
	if iso3 := base.ISO3(); len(iso3) == 3 && iso3 != "und" {
		return []ot.Tag{ot.T(strings.ToUpper(iso3) + " ")}
	}
	return nil
}

// chineseLanguageTags selects between simplified and traditional Chinese by an
// explicit region or script subtag.
func chineseLanguageTags(tag xlanguage.Tag) []ot.Tag {
	if region, conf := tag.Region(); conf == xlanguage.Exact {
		switch region.String() {
		case "HK":
			return []ot.Tag{ot.T("ZHH ")}
		case "MO":
			return []ot.Tag{ot.T("ZHTM"), ot.T("ZHH ")}
		case "TW":
			return []ot.Tag{ot.T("ZHT ")}
		}
	}
	if script, conf := tag.Script(); conf == xlanguage.Exact && script.String() == "Hant" {
		return []ot.Tag{ot.T("ZHT ")}
	}
	return []ot.Tag{ot.T("ZHS ")}
}

type langTag struct {
	language string
	tag      ot.Tag
}

var (
	otLanguageIndexOnce sync.Once
	otLanguageIndex     map[string][]ot.Tag
)

func initOTLanguageIndex() {
	otLanguageIndex = make(map[string][]ot.Tag, len(otLanguages))
	for _, entry := range otLanguages {
		tags := otLanguageIndex[entry.language]
		if entry.tag != 0 {
			tags = append(tags, entry.tag)
		}
		otLanguageIndex[entry.language] = tags
	}
}

// languageTagsForPrimary looks up a primary language subtag in the registry. Languages
// listed without a tag are known, but have no tags.
func languageTagsForPrimary(primary string) ([]ot.Tag, bool) {
	otLanguageIndexOnce.Do(initOTLanguageIndex)
	tags, known := otLanguageIndex[primary]
	return slices.Clone(tags), known
}
