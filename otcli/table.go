package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/pterm/pterm"
	xlanguage "golang.org/x/text/language"
)

func tableOp(intp *Intp, op *Op) (error, bool) {
	tag := ot.T(strings.ToUpper(op.arg))
	if tag != ot.GSUB && tag != ot.GPOS {
		return fmt.Errorf("not a layout table: %q", op.arg), false
	}
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	if !intp.font.GetFontTable(tag).IsPresent() {
		return errors.New("table not found in font"), false
	}
	intp.table = tag
	tracer().Infof("setting table: %v", tag)
	return nil, false
}

// layoutTable returns the current layout table of the font.
func (intp *Intp) layoutTable() (lt ot.LayoutTable, err error) {
	if err = intp.checkFont(); err != nil {
		return
	}
	table := intp.font.GetFontTable(intp.table)
	if !table.IsPresent() {
		return lt, fmt.Errorf("font has no %s table", intp.table)
	}
	return ot.NewLayoutTable(table), nil
}

// scriptOp sets the script for shaping. Without argument the script is selected by text.
func scriptOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() || op.arg == "auto" {
		intp.script = 0
		return nil, false
	}
	intp.script = ot.T(op.arg)
	if intp.font != nil && otlayout.FindScript(intp.font, intp.script) == otlayout.TagInfoNone {
		pterm.Warning.Printf("font does not support script %s\n", intp.script)
	}
	return nil, false
}

// langOp sets the language system for shaping, either as an OpenType tag in
// upper case or as a BCP 47 language.
func langOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() {
		intp.lang = ot.Dflt
		return nil, false
	}
	if n := len(op.arg); n >= 3 && n <= 4 && strings.ToUpper(op.arg) == op.arg {
		intp.lang = ot.T(op.arg)
	} else if tag, err := xlanguage.Parse(op.arg); err == nil {
		intp.lang = otlayout.LanguageTagFor(tag)
	} else {
		return fmt.Errorf("invalid language %q: %w", op.arg, err), false
	}
	pterm.Printf("language system is %s\n", intp.lang)
	return nil, false
}

func scriptsOp(intp *Intp, op *Op) (err error, stop bool) {
	var lt ot.LayoutTable
	if lt, err = intp.layoutTable(); err != nil {
		return
	}
	defer ot.CatchFormatError(&err)
	sl := lt.ScriptList()
	data := [][]string{
		{"Script", "Default LangSys", "LangSys", "Tables"},
	}
	for i := 0; i < sl.Count(); i++ {
		tag := sl.TagAt(i)
		if key, ok := op.hasArg(); ok && ot.T(key) != tag {
			continue
		}
		script := sl.ScriptAt(i)
		langs := make([]string, 0, script.LangSysCount())
		for j := 0; j < script.LangSysCount(); j++ {
			langs = append(langs, script.LangSysTagAt(j).String())
		}
		data = append(data, []string{
			tag.String(),
			strconv.FormatBool(!script.DefaultLangSys().IsNull()),
			strings.Join(langs, " "),
			formatTagInfo(otlayout.FindScript(intp.font, tag)),
		})
	}
	pterm.Printf("%s ScriptList has %d entries\n", intp.table, sl.Count())
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func langsOp(intp *Intp, op *Op) (err error, stop bool) {
	var lt ot.LayoutTable
	if lt, err = intp.layoutTable(); err != nil {
		return
	}
	defer ot.CatchFormatError(&err)
	tag := intp.script
	if key, ok := op.hasArg(); ok {
		tag = ot.T(key)
	}
	script := lt.ScriptList().FindScript(tag)
	if script.IsNull() {
		return fmt.Errorf("script lookup [%s] returns null", tag), false
	}
	fl := lt.FeatureList()
	data := [][]string{
		{"LangSys", "Required", "Features"},
	}
	row := func(langTag ot.Tag, ls ot.LangSys) {
		req := "-"
		if inx, ok := ls.RequiredFeatureIndex(); ok && inx < fl.Count() {
			req = fl.TagAt(inx).String()
		}
		tags := make([]string, 0, ls.FeatureCount())
		for i := 0; i < ls.FeatureCount(); i++ {
			if inx := ls.FeatureIndex(i); inx < fl.Count() {
				tags = append(tags, fl.TagAt(inx).String())
			}
		}
		data = append(data, []string{langTag.String(), req, strings.Join(tags, " ")})
	}
	if ls := script.DefaultLangSys(); !ls.IsNull() {
		row(ot.Dflt, ls)
	}
	for i := 0; i < script.LangSysCount(); i++ {
		row(script.LangSysTagAt(i), script.LangSysAt(i))
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func featuresOp(intp *Intp, op *Op) (err error, stop bool) {
	var lt ot.LayoutTable
	if lt, err = intp.layoutTable(); err != nil {
		return
	}
	defer ot.CatchFormatError(&err)
	fl := lt.FeatureList()
	if op.noArg() {
		pterm.Printf("%s FeatureList has %d entries\n", intp.table, fl.Count())
		data := [][]string{
			{"Index", "Feature", "Lookups"},
		}
		for i := 0; i < fl.Count(); i++ {
			data = append(data, []string{
				strconv.Itoa(i),
				fl.TagAt(i).String(),
				formatLookupIndices(fl.FeatureAt(i)),
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	} else if i, err2 := strconv.Atoi(op.arg); err2 == nil && i >= 0 && i < fl.Count() {
		pterm.Printf("%s list index %d holds feature %s with lookups %s\n",
			intp.table, i, fl.TagAt(i), formatLookupIndices(fl.FeatureAt(i)))
	} else {
		err = fmt.Errorf("feature index not valid: %v", op.arg)
	}
	return
}

func lookupsOp(intp *Intp, op *Op) (err error, stop bool) {
	var lt ot.LayoutTable
	if lt, err = intp.layoutTable(); err != nil {
		return
	}
	defer ot.CatchFormatError(&err)
	if op.noArg() {
		printLookupList(lt.LookupList(), intp.table == ot.GPOS)
	} else if i, err2 := strconv.Atoi(op.arg); err2 == nil {
		printLookup(lt, i, intp.table == ot.GPOS)
	} else {
		tracer().Errorf("Lookup index not numeric: %v\n", op.arg)
		err = errors.New("invalid lookup index")
	}
	return
}

func formatLookupIndices(f ot.Feature) string {
	inx := make([]string, f.LookupCount())
	for i := range inx {
		inx[i] = strconv.Itoa(f.LookupIndex(i))
	}
	return strings.Join(inx, " ")
}

func formatTagInfo(flags otlayout.TagInfoFlags) string {
	var parts []string
	if flags&otlayout.TagInfoSubstitution != 0 {
		parts = append(parts, "GSUB")
	}
	if flags&otlayout.TagInfoPositioning != 0 {
		parts = append(parts, "GPOS")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "+")
}
