package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/glyphshaper"
	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/glyphshaper/otlayout"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	xlanguage "golang.org/x/text/language"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":  "go",
		"trace.tyse.fonts": "Info",
		"trace.opentype":   "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	script := flag.String("script", "", "Script tag to lay out, e.g. 'latn' (default: by text)")
	lang := flag.String("lang", "", "BCP 47 language, e.g. 'tr' (default: 'dflt')")
	features := flag.String("features", "ccmp,locl,rlig,liga,calt,kern,mark,mkmk",
		"Comma separated list of features to apply")
	ppem := flag.Uint("ppem", 1000, "Pixels per em for positioning")
	cache := flag.Int("cache", -1, "Create layout caches of at most this size, 0 for default size")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)         // will set the correct level later
	pterm.Info.Println("Welcome to the glyph shaper CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		repl:  repl,
		table: ot.GSUB,
		lang:  ot.Dflt,
		ppem:  uint16(*ppem),
		ws:    otlayout.NewLayoutWorkspace(),
	}
	if err := intp.configure(*script, *lang, *features); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	//
	// load font to use
	if err := intp.loadFont(*fontname, *cache); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font     *glyphshaper.ScalableFont
	repl     *readline.Instance
	table    ot.Tag // GSUB or GPOS, for inspection commands
	script   ot.Tag // 0 selects the script by text
	lang     ot.Tag
	features []ot.Tag
	ppem     uint16
	ws       *otlayout.LayoutWorkspace
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	script := "auto"
	if intp.script != 0 {
		script = intp.script.String()
	}
	return fmt.Sprintf("( table=%s script=%s lang=%s )", intp.table, script, intp.lang)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-code SHAPE consumes the rest of the line
	SHAPE
	// op-codes below may have arguments
	HELP
	TABLE
	SCRIPT
	LANG
	SCRIPTS
	LANGS
	FEATURES
	LOOKUPS
	CACHE
	COMPLEX
	FONT
	GLYPH
)

var opMap = map[string]int{
	"quit":     QUIT,
	"shape":    SHAPE,
	"help":     HELP,
	"table":    TABLE,
	"script":   SCRIPT,
	"lang":     LANG,
	"scripts":  SCRIPTS,
	"langs":    LANGS,
	"features": FEATURES,
	"lookups":  LOOKUPS,
	"cache":    CACHE,
	"complex":  COMPLEX,
	"font":     FONT,
	"glyph":    GLYPH,
}

var opNames = []string{
	"quit",
	"shape",
	"help",
	"table",
	"script",
	"lang",
	"scripts",
	"langs",
	"features",
	"lookups",
	"cache",
	"complex",
	"font",
	"glyph",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

// parseCommand splits a line into steps, each of the form "op:arg:format",
// e.g. "scripts:latn" or "lookups:3" or "table:GPOS lookups". "shape" takes
// the remainder of the line as its text.
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Split(line, " ")
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":")
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		command.op[i].arg = ""
		if code == QUIT {
			return &command, nil
		}
		if code == SHAPE {
			command.op[i].arg = strings.Join(steps[i+1:], " ")
			tracer().Infof("shape: '%s'", command.op[i].arg)
			return &command, nil
		}
		tracer().Debugf("parsed command: %v", c)
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Infof("%s", opNames[command.op[i].code])
		} else {
			tracer().Infof("%s: looking for '%s'", opNames[command.op[i].code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	SHAPE:    shapeOp,
	HELP:     helpOp,
	TABLE:    tableOp,
	SCRIPT:   scriptOp,
	LANG:     langOp,
	SCRIPTS:  scriptsOp,
	LANGS:    langsOp,
	FEATURES: featuresOp,
	LOOKUPS:  lookupsOp,
	CACHE:    cacheOp,
	COMPLEX:  complexOp,
	FONT:     fontOp,
	GLYPH:    glyphOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string, cacheSize int) (err error) {
	if fontname == "" {
		return errors.New("no font given, use flag -font")
	}
	if intp.font, err = glyphshaper.LoadOpenTypeFont(fontname); err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	tracer().Infof("loaded SFNT font = %s", intp.font.Fontname)
	pterm.Printf("font %s has %d glyphs, %d units per em\n", intp.font.Fontname,
		intp.font.NumGlyphs(), intp.font.UnitsPerEm())
	if cacheSize >= 0 {
		err = intp.createCache(cacheSize)
	}
	return
}

// configure sets up the writing system and features from command line flags.
func (intp *Intp) configure(script, lang, features string) error {
	if script != "" {
		intp.script = ot.T(script)
	}
	if lang != "" {
		tag, err := xlanguage.Parse(lang)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", lang, err)
		}
		intp.lang = otlayout.LanguageTagFor(tag)
	}
	for _, f := range strings.Split(features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			intp.features = append(intp.features, ot.T(f))
		}
	}
	return nil
}

// scriptFor returns the script tag to use for a text. Without a script set, the
// script of the first character having one is selected from the font.
func (intp *Intp) scriptFor(text string) ot.Tag {
	if intp.script != 0 {
		return intp.script
	}
	for _, r := range text {
		if s := language.LookupScript(r); s != language.Common && s != language.Inherited &&
			s != language.Unknown {
			return otlayout.SelectScript(intp.font, s)
		}
	}
	return ot.DFLT
}

// ----------------------------------------------------------------------

var ERR_NO_FONT = errors.New("no font loaded")

func (intp *Intp) checkFont() error {
	if intp.font == nil {
		return ERR_NO_FONT
	}
	return nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
