package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "script", "scripts", "scriptlist":
		pterm.Info.Println("ScriptList / Script")
		pterm.Println(`
	ScriptList is a property of GSUB and GPOS.
	It consists of ScriptRecords:
	+------------+----------------+
	| Script Tag | Link to Script |
	+------------+----------------+
	A Script table links to a default LangSys entry, and contains a list of LangSys records.

	scripts          lists the scripts of the current table
	scripts:latn     lists script 'latn' only
	script:arab      shapes with script 'arab'
	script:auto      selects the script by the first character of a text
	`)
	case "lang", "langsys", "langs", "language":
		pterm.Info.Println("LangSys")
		pterm.Println(`
	LangSys is pointed to from a Script Record.
	It links a language with features to activate. It does so using an index into the feature table.
	+-----------------------------------+
	| Index of required feature or null |
	+-----------------------------------+
	| Index of feature 1                |
	+-----------------------------------+
	| ...                               |
	+-----------------------------------+

	langs            lists the language systems of the current script
	langs:cyrl       lists the language systems of script 'cyrl'
	lang:TRK         shapes with language system 'TRK '
	lang:tr          shapes with the language system for BCP 47 language 'tr'
	`)
	case "feature", "features", "lookups":
		pterm.Info.Println("FeatureList / LookupList")
		pterm.Println(`
	A feature is a list of indices into the lookup list. Lookups are applied in
	the order of the lookup list, not in the order of features.

	table:GPOS       selects table GPOS for inspection (GSUB is default)
	features         lists the features of the current table
	features:3       shows feature #3
	lookups          lists the lookups of the current table
	lookups:3        shows the subtables of lookup #3
	`)
	case "shape", "cache", "complex":
		pterm.Info.Println("Shaping")
		pterm.Println(`
	shape <text>     substitutes and positions the glyphs of a text
	cache            creates lookup caches of default size for GSUB and GPOS
	cache:4096       creates lookup caches of at most 4096 bytes
	complex          lists writing systems which need layout processing
	complex:<text>   ditto, restricted to the glyphs of a text
	`)
	case "font", "glyph", "glyphs":
		pterm.Info.Println("Font information")
		pterm.Println(`
	font             shows names, metrics and layout tables of the font
	glyph:A          shows the metrics and GDEF class of the glyph for 'A'
	glyph:36:gid     ditto, for glyph index 36
	`)
	default:
		pterm.Info.Println("General Help")
		pterm.Println(`
	Commands are op:arg steps separated by blanks, e.g. "table:GPOS lookups".
	Help topics are scripts, langs, features, shape and font, e.g. "help:shape".
	Quit with "quit" or <ctrl>D.
	`)
	}
}
