package otlayout

import (
	"errors"
	"fmt"
)

// LayoutResult is the outcome of a layout call, as a code.
type LayoutResult uint8

const (
	Success         LayoutResult = iota // call completed
	BadFontTable                        // a layout table is malformed
	TableNotFound                       // the font does not contain the layout table
	ScriptNotFound                      // the layout table does not support the script
	LangSysNotFound                     // the script does not support the language system
)

func (r LayoutResult) String() string {
	switch r {
	case Success:
		return "Success"
	case BadFontTable:
		return "BadFontTable"
	case TableNotFound:
		return "TableNotFound"
	case ScriptNotFound:
		return "ScriptNotFound"
	case LangSysNotFound:
		return "LangSysNotFound"
	}
	return fmt.Sprintf("LayoutResult(%d)", int(r))
}

// Errors returned by the layout API. Format errors wrap ErrBadFontTable together with
// the ot.FontError describing the defect.
var (
	ErrBadFontTable    = errors.New("bad font table")
	ErrTableNotFound   = errors.New("layout table not found")
	ErrScriptNotFound  = errors.New("script not found")
	ErrLangSysNotFound = errors.New("language system not found")
)

// ResultOf maps an error returned by the layout API to a result code.
func ResultOf(err error) LayoutResult {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrTableNotFound):
		return TableNotFound
	case errors.Is(err, ErrScriptNotFound):
		return ScriptNotFound
	case errors.Is(err, ErrLangSysNotFound):
		return LangSysNotFound
	}
	return BadFontTable
}

// badFontTable wraps a format error caught during a layout call.
func badFontTable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrBadFontTable, err)
}
