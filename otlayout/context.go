package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// --- Lookup dispatch -------------------------------------------------------

// subtableApplier applies a lookup subtable at byte offset st to the glyph at
// position first. See the contract at the top of gsub.go.
type subtableApplier func(ctx *applyCtx, st, first, afterLast int) (int, bool)

// Jump tables, indexed by lookup type and subtable format. They are set up in init,
// as contextual appliers refer back to them.
var gsubAppliers, gposAppliers [][]subtableApplier

func init() {
	gsubAppliers = [][]subtableApplier{
		ot.GSubLookupTypeSingle:          {1: gsubLookupType1Fmt1, 2: gsubLookupType1Fmt2},
		ot.GSubLookupTypeMultiple:        {1: gsubLookupType2Fmt1},
		ot.GSubLookupTypeAlternate:       {1: gsubLookupType3Fmt1},
		ot.GSubLookupTypeLigature:        {1: gsubLookupType4Fmt1},
		ot.GSubLookupTypeContext:         {1: contextFmt1, 2: contextFmt2, 3: contextFmt3},
		ot.GSubLookupTypeChainingContext: {1: chainedContextFmt1, 2: chainedContextFmt2, 3: chainedContextFmt3},
		ot.GSubLookupTypeExtensionSubs:   nil, // resolved by ot.Lookup.ResolveSubtable
		ot.GSubLookupTypeReverseChaining: {1: gsubLookupType8Fmt1},
	}
	gposAppliers = [][]subtableApplier{
		ot.GPosLookupTypeSingle:            {1: gposLookupType1Fmt1, 2: gposLookupType1Fmt2},
		ot.GPosLookupTypePair:              {1: gposLookupType2Fmt1, 2: gposLookupType2Fmt2},
		ot.GPosLookupTypeCursive:           {1: gposLookupType3Fmt1},
		ot.GPosLookupTypeMarkToBase:        {1: gposLookupType4Fmt1},
		ot.GPosLookupTypeMarkToLigature:    {1: gposLookupType5Fmt1},
		ot.GPosLookupTypeMarkToMark:        {1: gposLookupType6Fmt1},
		ot.GPosLookupTypeContextPos:        {1: contextFmt1, 2: contextFmt2, 3: contextFmt3},
		ot.GPosLookupTypeChainedContextPos: {1: chainedContextFmt1, 2: chainedContextFmt2, 3: chainedContextFmt3},
		ot.GPosLookupTypeExtensionPos:      nil,
	}
}

// applySubtable dispatches a subtable to its applier. Unknown lookup types and formats
// do not apply.
func (ctx *applyCtx) applySubtable(lt ot.LayoutTableLookupType, st, first, afterLast int) (int, bool) {
	appliers := gsubAppliers
	if ctx.isGPos {
		appliers = gposAppliers
	}
	format := int(ctx.table.GetUShort(st))
	if int(lt) >= len(appliers) || format >= len(appliers[lt]) || appliers[lt][format] == nil {
		tracer().Debugf("no applier for lookup type %d format %d", lt, format)
		return first + 1, false
	}
	return appliers[lt][format](ctx, st, first, afterLast)
}

// applyLookup tries the subtables of a lookup in order at position first. The first
// subtable which applies wins. The lookup state of ctx is set for the duration of
// the call.
func (ctx *applyCtx) applyLookup(lookup ot.Lookup, first, afterLast int) (int, bool) {
	defer ctx.setLookup(lookup)()
	for i := 0; i < lookup.SubtableCount(); i++ {
		lt, st := lookup.ResolveSubtable(i, ctx.extensionType())
		if st == ot.NullOffset {
			continue
		}
		if next, ok := ctx.applySubtable(lt, st, first, afterLast); ok {
			return next, true
		}
	}
	return first + 1, false
}

// --- Contextual lookups ----------------------------------------------------

// GSUB LookupType 5 and 6, GPOS LookupType 7 and 8: Contextual and Chained Contexts
//
// Contextual lookups match an input sequence, optionally surrounded by a backtrack and
// a lookahead sequence, and then apply nested lookups to glyphs of the input sequence,
// as listed by SequenceLookupRecords:
//
//	uint16 | sequenceIndex   | Index (zero-based) into the input glyph sequence
//	uint16 | lookupListIndex | Index (zero-based) into the LookupList
//
// GSUB and GPOS share the binary formats, so the appliers below serve both tables.

// sequence is a sequence of glyphs to match. The k-th glyph matches if match(k, pos)
// holds for its position.
type sequence struct {
	count int
	match func(k, pos int) bool
}

// contextRule is a matching rule of a contextual lookup. The first glyph of the input
// sequence is matched by the caller, input matches the remaining ones.
type contextRule struct {
	backtrack, input, lookahead sequence
	records                     int // offset of SequenceLookupRecords
	recordCount                 int
}

// applyRule matches rule at position first and, if it matches, applies its
// nested lookups. It returns the position after the (possibly changed) input sequence.
func (ctx *applyCtx) applyRule(rule contextRule, first, afterLast int) (int, bool) {
	last, ok := ctx.matchSequence(first+1, afterLast, rule.input.count, 1, rule.input.match)
	if !ok {
		return first + 1, false
	}
	if _, ok := ctx.matchSequence(first-1, afterLast, rule.backtrack.count, -1, rule.backtrack.match); !ok {
		return first + 1, false
	}
	if _, ok := ctx.matchSequence(last+1, afterLast, rule.lookahead.count, 1, rule.lookahead.match); !ok {
		return first + 1, false
	}
	for i := 0; i < rule.recordCount; i++ { // check bounds before changing the run
		ctx.table.GetUInt(rule.records + i*4)
	}
	afterInput := ctx.applyNestedLookups(rule.records, rule.recordCount, first, last+1)
	next := max(afterInput, first+1)
	return min(next, max(ctx.glyphs.Length(), first+1)), true
}

// applyNestedLookups applies the lookups of a list of SequenceLookupRecords to a
// matched input sequence [first, afterInput). Records are applied in ascending order of
// lookup index, records of the same lookup in ascending order of sequence index. The
// position for a sequence index is determined after all previous records have been
// applied. Returns the end of the input sequence, adjusted for glyphs inserted or
// removed by nested lookups.
func (ctx *applyCtx) applyNestedLookups(records, count, first, afterInput int) int {
	if count == 0 {
		return afterInput
	}
	if ctx.depth >= maxContextNesting {
		tracer().Infof("contextual lookups nested too deep at position %d, stopping", first)
		return afterInput
	}
	ctx.depth++
	defer func() { ctx.depth-- }()
	lastLookup, lastSeq := -1, -1
	for {
		lookupInx, seqInx := -1, -1
		for i := 0; i < count; i++ {
			seq := int(ctx.table.GetUShort(records + i*4))
			lk := int(ctx.table.GetUShort(records + i*4 + 2))
			if lk < lastLookup || (lk == lastLookup && seq <= lastSeq) {
				continue
			}
			if lookupInx < 0 || lk < lookupInx || (lk == lookupInx && seq < seqInx) {
				lookupInx, seqInx = lk, seq
			}
		}
		if lookupInx < 0 {
			break
		}
		lastLookup, lastSeq = lookupInx, seqInx
		pos := ctx.nextGlyph(first, afterInput)
		for k := 0; k < seqInx && pos < afterInput; k++ {
			pos = ctx.nextGlyph(pos+1, afterInput)
		}
		if pos >= afterInput {
			continue
		}
		lookup := ctx.lookups.Lookup(lookupInx)
		if lookup.IsNull() {
			continue
		}
		length := ctx.glyphs.Length()
		tracer().Debugf("nested lookup #%d at %d (depth %d)", lookupInx, pos, ctx.depth)
		ctx.applyLookup(lookup, pos, afterInput)
		afterInput += ctx.glyphs.Length() - length
	}
	return afterInput
}

// glyphSequence matches count glyphs against an array of glyph IDs at byte position at.
func (ctx *applyCtx) glyphSequence(at, count int) sequence {
	return sequence{count: count, match: func(k, pos int) bool {
		return ctx.glyphs.Glyph(pos) == ctx.table.GetGlyph(at+k*2)
	}}
}

// classSequence matches count glyphs against an array of class values at byte
// position at.
func (ctx *applyCtx) classSequence(cd ot.ClassDef, at, count int) sequence {
	return sequence{count: count, match: func(k, pos int) bool {
		return cd.GetClass(ctx.glyphs.Glyph(pos)) == ctx.table.GetUShort(at+k*2)
	}}
}

// coverageSequence matches count glyphs against an array of Offset16 to coverage
// tables at byte position at, relative to st.
func (ctx *applyCtx) coverageSequence(st, at, count int) sequence {
	return sequence{count: count, match: ctx.coverageMatcher(st, at)}
}

// ruleSet returns the offset of the rule set for index inx of an array of
// Offset16 to rule sets, or NullOffset.
func (ctx *applyCtx) ruleSet(st, countAt, inx int) int {
	if inx < 0 || inx >= int(ctx.table.GetUShort(countAt)) {
		return ot.NullOffset
	}
	return ctx.table.Link16(st, countAt+2+inx*2)
}

// contextFmt1 is a SequenceContextFormat1 subtable, matching by glyph IDs.
//
//	uint16   | format              | Format identifier: format = 1
//	Offset16 | coverageOffset      | Offset to Coverage table, from beginning of SequenceContextFormat1 table
//	uint16   | seqRuleSetCount     | Number of SequenceRuleSet tables
//	Offset16 | seqRuleSetOffsets[seqRuleSetCount] | Array of offsets to SequenceRuleSet tables, ordered by Coverage index
//
// SequenceRule:
//
//	uint16 | glyphCount     | Number of glyphs in the input glyph sequence
//	uint16 | seqLookupCount | Number of SequenceLookupRecords
//	uint16 | inputSequence[glyphCount - 1] | Array of input glyph IDs, starting with the second glyph
//	SequenceLookupRecord | seqLookupRecords[seqLookupCount]
func contextFmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	set := ctx.ruleSet(st, st+4, ctx.coverageIndex(st, st+2, first))
	return ctx.applySequenceRules(set, first, afterLast, func(rule int) contextRule {
		glyphCount := ctx.inputCount(rule)
		return contextRule{
			input:       ctx.glyphSequence(rule+4, glyphCount-1),
			records:     rule + 4 + (glyphCount-1)*2,
			recordCount: int(ctx.table.GetUShort(rule + 2)),
		}
	})
}

// contextFmt2 is a SequenceContextFormat2 subtable, matching by glyph classes.
//
//	uint16   | format                 | Format identifier: format = 2
//	Offset16 | coverageOffset         | Offset to Coverage table, from beginning of SequenceContextFormat2 table
//	Offset16 | classDefOffset         | Offset to ClassDef table, from beginning of SequenceContextFormat2 table
//	uint16   | classSeqRuleSetCount   | Number of ClassSequenceRuleSet tables
//	Offset16 | classSeqRuleSetOffsets[classSeqRuleSetCount] | Array of offsets to ClassSequenceRuleSet tables, ordered by class (may be NULL)
//
// ClassSequenceRules have the layout of SequenceRules, with class values in place of
// glyph IDs.
func contextFmt2(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	if ctx.coverageIndex(st, st+2, first) < 0 {
		return first + 1, false
	}
	cd := ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+4))
	class := int(cd.GetClass(ctx.glyphs.Glyph(first)))
	set := ctx.ruleSet(st, st+6, class)
	return ctx.applySequenceRules(set, first, afterLast, func(rule int) contextRule {
		glyphCount := ctx.inputCount(rule)
		return contextRule{
			input:       ctx.classSequence(cd, rule+4, glyphCount-1),
			records:     rule + 4 + (glyphCount-1)*2,
			recordCount: int(ctx.table.GetUShort(rule + 2)),
		}
	})
}

// contextFmt3 is a SequenceContextFormat3 subtable, matching by coverages.
//
//	uint16   | format          | Format identifier: format = 3
//	uint16   | glyphCount      | Number of glyphs in the input sequence
//	uint16   | seqLookupCount  | Number of SequenceLookupRecords
//	Offset16 | coverageOffsets[glyphCount] | Array of offsets to Coverage tables, from beginning of SequenceContextFormat3 subtable
//	SequenceLookupRecord | seqLookupRecords[seqLookupCount]
func contextFmt3(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	glyphCount := ctx.inputCount(st + 2)
	if ctx.coverageIndex(st, st+6, first) < 0 {
		return first + 1, false
	}
	return ctx.applyRule(contextRule{
		input:       ctx.coverageSequence(st, st+8, glyphCount-1),
		records:     st + 6 + glyphCount*2,
		recordCount: int(ctx.table.GetUShort(st + 4)),
	}, first, afterLast)
}

// inputCount reads the size of an input sequence, which includes the first glyph and
// therefore must not be 0.
func (ctx *applyCtx) inputCount(at int) int {
	n := int(ctx.table.GetUShort(at))
	if n == 0 {
		ot.RaiseFormatError(ctx.table.Tag(), "SequenceContext", at, "empty input sequence")
	}
	return n
}

// applySequenceRules tries the rules of a rule set in order. The first rule that
// matches is applied.
//
//	uint16   | ruleCount              | Number of rule tables
//	Offset16 | ruleOffsets[ruleCount] | Array of offsets to rule tables, from beginning of the rule set
func (ctx *applyCtx) applySequenceRules(set, first, afterLast int, rule func(int) contextRule) (int, bool) {
	if set == ot.NullOffset {
		return first + 1, false
	}
	count := int(ctx.table.GetUShort(set))
	for i := 0; i < count; i++ {
		r := ctx.table.Link16(set, set+2+i*2)
		if r == ot.NullOffset {
			continue
		}
		if next, ok := ctx.applyRule(rule(r), first, afterLast); ok {
			return next, true
		}
	}
	return first + 1, false
}

// chainedRule reads a ChainedSequenceRule (or ChainedClassSequenceRule):
//
//	uint16 | backtrackGlyphCount | Number of glyphs in the backtrack sequence
//	uint16 | backtrackSequence[backtrackGlyphCount] | Array of backtrack glyph IDs (or classes)
//	uint16 | inputGlyphCount     | Number of glyphs in the input sequence
//	uint16 | inputSequence[inputGlyphCount - 1] | Array of input glyph IDs (or classes), starting with the second glyph
//	uint16 | lookaheadGlyphCount | Number of glyphs in the lookahead sequence
//	uint16 | lookaheadSequence[lookaheadGlyphCount] | Array of lookahead glyph IDs (or classes)
//	uint16 | seqLookupCount      | Number of SequenceLookupRecords
//	SequenceLookupRecord | seqLookupRecords[seqLookupCount]
//
// seq creates the matcher for each of the three sequences.
func (ctx *applyCtx) chainedRule(rule int, seq func(part, at, count int) sequence) contextRule {
	backtrackCount := int(ctx.table.GetUShort(rule))
	input := rule + 2 + backtrackCount*2
	inputCount := ctx.inputCount(input)
	lookahead := input + 2 + (inputCount-1)*2
	lookaheadCount := int(ctx.table.GetUShort(lookahead))
	records := lookahead + 2 + lookaheadCount*2
	return contextRule{
		backtrack:   seq(0, rule+2, backtrackCount),
		input:       seq(1, input+2, inputCount-1),
		lookahead:   seq(2, lookahead+2, lookaheadCount),
		records:     records + 2,
		recordCount: int(ctx.table.GetUShort(records)),
	}
}

// chainedContextFmt1 is a ChainedSequenceContextFormat1 subtable, matching by glyph IDs.
//
//	uint16   | format                     | Format identifier: format = 1
//	Offset16 | coverageOffset             | Offset to Coverage table, from beginning of ChainSequenceContextFormat1 table
//	uint16   | chainedSeqRuleSetCount     | Number of ChainedSequenceRuleSet tables
//	Offset16 | chainedSeqRuleSetOffsets[chainedSeqRuleSetCount] | Array of offsets to ChainedSeqRuleSet tables, ordered by Coverage index (may be NULL)
func chainedContextFmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	set := ctx.ruleSet(st, st+4, ctx.coverageIndex(st, st+2, first))
	return ctx.applySequenceRules(set, first, afterLast, func(rule int) contextRule {
		return ctx.chainedRule(rule, func(_, at, count int) sequence {
			return ctx.glyphSequence(at, count)
		})
	})
}

// chainedContextFmt2 is a ChainedSequenceContextFormat2 subtable, matching by classes.
// Each of the three sequences has its own class definition.
//
//	uint16   | format                    | Format identifier: format = 2
//	Offset16 | coverageOffset            | Offset to Coverage table, from beginning of ChainedSequenceContextFormat2 table
//	Offset16 | backtrackClassDefOffset   | Offset to ClassDef table containing backtrack sequence context
//	Offset16 | inputClassDefOffset       | Offset to ClassDef table containing input sequence context
//	Offset16 | lookaheadClassDefOffset   | Offset to ClassDef table containing lookahead sequence context
//	uint16   | chainedClassSeqRuleSetCount | Number of ChainedClassSequenceRuleSet tables
//	Offset16 | chainedClassSeqRuleSetOffsets[chainedClassSeqRuleSetCount] | Array of offsets to ChainedClassSequenceRuleSet tables, ordered by input class (may be NULL)
func chainedContextFmt2(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	if ctx.coverageIndex(st, st+2, first) < 0 {
		return first + 1, false
	}
	classDefs := [3]ot.ClassDef{
		ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+4)),
		ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+6)),
		ot.NewClassDef(ctx.table, ctx.table.Link16(st, st+8)),
	}
	class := int(classDefs[1].GetClass(ctx.glyphs.Glyph(first)))
	set := ctx.ruleSet(st, st+10, class)
	return ctx.applySequenceRules(set, first, afterLast, func(rule int) contextRule {
		return ctx.chainedRule(rule, func(part, at, count int) sequence {
			return ctx.classSequence(classDefs[part], at, count)
		})
	})
}

// chainedContextFmt3 is a ChainedSequenceContextFormat3 subtable, matching by coverages.
//
//	uint16   | format              | Format identifier: format = 3
//	uint16   | backtrackGlyphCount | Number of glyphs in the backtrack sequence
//	Offset16 | backtrackCoverageOffsets[backtrackGlyphCount] | Array of offsets to coverage tables for the backtrack sequence
//	uint16   | inputGlyphCount     | Number of glyphs in the input sequence
//	Offset16 | inputCoverageOffsets[inputGlyphCount] | Array of offsets to coverage tables for the input sequence
//	uint16   | lookaheadGlyphCount | Number of glyphs in the lookahead sequence
//	Offset16 | lookaheadCoverageOffsets[lookaheadGlyphCount] | Array of offsets to coverage tables for the lookahead sequence
//	uint16   | seqLookupCount      | Number of SequenceLookupRecords
//	SequenceLookupRecord | seqLookupRecords[seqLookupCount]
func chainedContextFmt3(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	backtrackCount := int(ctx.table.GetUShort(st + 2))
	input := st + 4 + backtrackCount*2
	inputCount := ctx.inputCount(input)
	if ctx.coverageIndex(st, input+2, first) < 0 {
		return first + 1, false
	}
	lookahead := input + 2 + inputCount*2
	lookaheadCount := int(ctx.table.GetUShort(lookahead))
	records := lookahead + 2 + lookaheadCount*2
	return ctx.applyRule(contextRule{
		backtrack:   ctx.coverageSequence(st, st+4, backtrackCount),
		input:       ctx.coverageSequence(st, input+4, inputCount-1),
		lookahead:   ctx.coverageSequence(st, lookahead+2, lookaheadCount),
		records:     records + 2,
		recordCount: int(ctx.table.GetUShort(records)),
	}, first, afterLast)
}
