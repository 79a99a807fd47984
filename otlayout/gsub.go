package otlayout

import "github.com/npillmayer/glyphshaper/ot"

// All subtable appliers share the same contract: they try to apply a subtable to the
// glyph at position first, not looking at glyphs at or after afterLast (nor before 0
// for backtrack sequences). On success they return the position at which the next
// application should start, which lies after first. The one exception is a multiple
// substitution deleting the glyph at first: the following glyph moves to first, so
// the next application starts at first. On failure the glyph run is not touched and
// they return first+1, false.

// coverageIndex returns the coverage index of the glyph at pos, for the coverage
// table linked at byte position at relative to subtable st.
func (ctx *applyCtx) coverageIndex(st, at, pos int) int {
	cov := ot.NewCoverage(ctx.table, ctx.table.Link16(st, at))
	return cov.GetGlyphIndex(ctx.glyphs.Glyph(pos))
}

// GSUB LookupType 1: Single Substitution Subtable
//
// Single substitution (SingleSubst) subtables tell a client to replace a single glyph
// with another glyph. The subtables can be either of two formats. Both formats require
// two distinct sets of glyph indices: one that defines input glyphs (specified in the
// Coverage table), and one that defines the output glyphs.

// GSUB LookupSubtable Type 1 Format 1 calculates the indices of the output glyphs, which
// are not explicitly defined in the subtable. To calculate an output glyph index,
// Format 1 adds a constant delta value to the input glyph index, modulo 65536.
//
//	uint16   | substFormat  | Format identifier: format = 1
//	Offset16 | coverageOffset | Offset to Coverage table, from beginning of substitution subtable
//	int16    | deltaGlyphID | Add to original glyph ID to get substitute glyph ID
func gsubLookupType1Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	if ctx.coverageIndex(st, st+2, first) < 0 {
		return first + 1, false
	}
	delta := ctx.table.GetShort(st + 4)
	g := ctx.glyphs.Glyph(first)
	subst := ot.GlyphIndex(uint16(int(g) + int(delta)))
	tracer().Debugf("GSUB 1|1: subst %d for %d", subst, g)
	ctx.glyphs.SetGlyph(first, subst)
	ctx.substituted(first)
	return first + 1, true
}

// GSUB LookupSubtable Type 1 Format 2 provides an array of output glyph indices
// (substituteGlyphIDs) explicitly matched to the input glyph indices specified in the
// Coverage table.
//
//	uint16   | substFormat  | Format identifier: format = 2
//	Offset16 | coverageOffset | Offset to Coverage table, from beginning of substitution subtable
//	uint16   | glyphCount   | Number of glyph IDs in the substituteGlyphIDs array
//	uint16   | substituteGlyphIDs[glyphCount] | Array of substitute glyph IDs, ordered by Coverage index
func gsubLookupType1Fmt2(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	if inx >= int(ctx.table.GetUShort(st+4)) {
		ot.RaiseFormatError(ctx.table.Tag(), "SingleSubst", st, "coverage index exceeds substitutes")
	}
	subst := ctx.table.GetGlyph(st + 6 + inx*2)
	tracer().Debugf("GSUB 1|2: subst %d for %d", subst, ctx.glyphs.Glyph(first))
	ctx.glyphs.SetGlyph(first, subst)
	ctx.substituted(first)
	return first + 1, true
}

// LookupType 2: Multiple Substitution Subtable
//
// A Multiple Substitution (MultipleSubst) subtable replaces a single glyph with more than
// one glyph, as when multiple glyphs replace a single ligature.

// GSUB LookupSubtable Type 2 Format 1 defines a count of offsets in the sequenceOffsets
// array (sequenceCount), and an array of offsets to Sequence tables that define the output
// glyph indices (sequenceOffsets). The Sequence table offsets are ordered by the Coverage
// index of the input glyphs.
// For each input glyph listed in the Coverage table, a Sequence table defines the output
// glyphs. Each Sequence table contains a count of the glyphs in the output glyph sequence
// (glyphCount) and an array of output glyph indices (substituteGlyphIDs).
//
// An empty sequence deletes the input glyph. As the glyph following the deleted one
// moves to position first, the next application starts at first. Its characters are
// mapped to that glyph, or to the preceding glyph if the deleted one was the last.
func gsubLookupType2Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	if inx >= int(ctx.table.GetUShort(st+4)) {
		ot.RaiseFormatError(ctx.table.Tag(), "MultipleSubst", st, "coverage index exceeds sequences")
	}
	seq := ctx.table.Link16(st, st+6+inx*2)
	if seq == ot.NullOffset {
		return first + 1, false
	}
	n := int(ctx.table.GetUShort(seq))
	for k := 0; k < n; k++ { // check bounds before changing the run
		ctx.table.GetGlyph(seq + 2 + k*2)
	}
	if n == 0 {
		tracer().Debugf("GSUB 2|1: delete glyph %d at %d", ctx.glyphs.Glyph(first), first)
		target := first
		if first == ctx.glyphs.Length()-1 {
			target = max(0, first-1)
		}
		ctx.removeGlyph(first, target)
		return first, true
	}
	tracer().Debugf("GSUB 2|1: subst %d glyphs for %d", n, ctx.glyphs.Glyph(first))
	ctx.insertGlyphs(first, n-1)
	for k := 0; k < n; k++ {
		ctx.glyphs.SetGlyph(first+k, ctx.table.GetGlyph(seq+2+k*2))
		ctx.substituted(first + k)
	}
	return first + n, true
}

// insertGlyphs inserts count copies of the glyph at pos after pos, together with their
// character relations, and moves the character map accordingly.
func (ctx *applyCtx) insertGlyphs(pos, count int) {
	if count <= 0 {
		return
	}
	gl := ctx.glyphs
	gl.Insert(pos+1, count)
	for k := 1; k <= count; k++ {
		gl.Glyphs.Set(pos+k, gl.Glyphs.At(pos))
		gl.GlyphFlags.Set(pos+k, gl.GlyphFlags.At(pos))
		gl.FirstChars.Set(pos+k, gl.FirstChars.At(pos))
		gl.LigatureCounts.Set(pos+k, gl.LigatureCounts.At(pos))
	}
	cm := ctx.charmap
	for c := 0; c < cm.Length(); c++ {
		if m := int(cm.At(c)); m > pos {
			cm.Set(c, uint16(m+count))
		}
	}
}

// removeGlyph removes the glyph at pos. Characters mapped to pos are mapped to
// target, which must be a position before pos or pos itself. Removing the only glyph
// of a run leaves its characters at position 0, one past the end of the empty run.
func (ctx *applyCtx) removeGlyph(pos, target int) {
	cm := ctx.charmap
	for c := 0; c < cm.Length(); c++ {
		switch m := int(cm.At(c)); {
		case m == pos:
			cm.Set(c, uint16(target))
		case m > pos:
			cm.Set(c, uint16(m-1))
		}
	}
	ctx.glyphs.Remove(pos, 1)
}

// LookupType 3: Alternate Substitution Subtable
//
// An Alternate Substitution (AlternateSubst) subtable identifies any number of aesthetic
// alternatives from which a user can choose a glyph variant to replace the input glyph.
// For example, if a font contains four variants of the ampersand symbol, the 'cmap' table
// will specify the index of one of the four glyphs as the default glyph index, and an
// AlternateSubst subtable will list the indices of the other three glyphs as alternatives.
// A text-processing client would then have the option of replacing the default glyph with
// any of the three alternatives.

// GSUB LookupSubtable Type 3 Format 1: For each glyph, an AlternateSet subtable contains a
// count of the alternative glyphs (glyphCount) and an array of their glyph indices
// (alternateGlyphIDs). The parameter of the enabling feature selects an alternative glyph
// from this array, 1 being the first one. Parameters beyond the end of the array do
// not apply.
func gsubLookupType3Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	if inx >= int(ctx.table.GetUShort(st+4)) {
		ot.RaiseFormatError(ctx.table.Tag(), "AlternateSubst", st, "coverage index exceeds alternate sets")
	}
	set := ctx.table.Link16(st, st+6+inx*2)
	if set == ot.NullOffset {
		return first + 1, false
	}
	subst := alternateGlyph(ctx.table, set, ctx.parameter)
	if subst == noAlternate {
		tracer().Debugf("GSUB 3|1: no alternate %d for %d", ctx.parameter, ctx.glyphs.Glyph(first))
		return first + 1, false
	}
	tracer().Debugf("GSUB 3|1: subst %d for %d", subst, ctx.glyphs.Glyph(first))
	ctx.glyphs.SetGlyph(first, subst)
	ctx.substituted(first)
	return first + 1, true
}

// noAlternate flags a feature parameter out of range of an alternate set.
const noAlternate = ot.GlyphIndex(0xFFFF)

// alternateGlyph selects alternate number param (1-based) of the AlternateSet at
// offset set. Parameter 0 means the feature is off; callers must never get here with
// it.
func alternateGlyph(table ot.FontTable, set int, param uint32) ot.GlyphIndex {
	assertThat(param != 0, "alternate substitution with feature parameter 0")
	count := uint32(table.GetUShort(set))
	if param > count {
		return noAlternate
	}
	return table.GetGlyph(set + 2 + int(param-1)*2)
}

// LookupType 4: Ligature Substitution Subtable
//
// A Ligature Substitution (LigatureSubst) subtable identifies ligature substitutions where
// a single glyph replaces multiple glyphs. One LigatureSubst subtable can specify any number
// of ligature substitutions.

// GSUB LookupSubtable Type 4 Format 1 receives a sequence of glyphs and outputs a
// single glyph replacing the sequence. The Coverage table specifies only the index of the
// first glyph component of each ligature set. Ligatures of a set are tried in order,
// the first one matching wins.
//
// Components are matched skipping glyphs ignored by the lookup; these glyphs (usually
// marks) survive and end up following the ligature glyph.
func gsubLookupType4Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	if inx >= int(ctx.table.GetUShort(st+4)) {
		ot.RaiseFormatError(ctx.table.Tag(), "LigatureSubst", st, "coverage index exceeds ligature sets")
	}
	set := ctx.table.Link16(st, st+6+inx*2)
	if set == ot.NullOffset {
		return first + 1, false
	}
	ligCount := int(ctx.table.GetUShort(set))
	tracer().Debugf("GSUB 4|1 ligature set size = %d", ligCount)
	for i := 0; i < ligCount; i++ {
		// Ligature table (glyph components for one ligature):
		// uint16 |  ligatureGlyph                       |  glyph ID of ligature to substitute
		// uint16 |  componentCount                      |  Number of components in the ligature
		// uint16 |  componentGlyphIDs[componentCount-1] |  Array of component glyph IDs
		lig := ctx.table.Link16(set, set+2+i*2)
		if lig == ot.NullOffset {
			continue
		}
		compCount := int(ctx.table.GetUShort(lig + 2))
		if compCount == 0 {
			ot.RaiseFormatError(ctx.table.Tag(), "Ligature", lig, "ligature without components")
		}
		positions := append(ctx.ws.components[:0], first)
		_, ok := ctx.matchSequence(first+1, afterLast, compCount-1, 1,
			func(k, pos int) bool {
				if ctx.glyphs.Glyph(pos) != ctx.table.GetGlyph(lig+4+k*2) {
					return false
				}
				positions = append(positions, pos)
				return true
			})
		ctx.ws.components = positions
		if ok {
			ligGlyph := ctx.table.GetGlyph(lig)
			tracer().Debugf("GSUB 4|1: subst ligature %d for %d components", ligGlyph, compCount)
			ctx.formLigature(ligGlyph, positions)
			return first + 1, true
		}
	}
	return first + 1, false
}

// formLigature replaces the glyphs at positions (ascending, positions[0] being the
// first component) by the ligature glyph at positions[0]. Components are removed from
// last to first, characters of the removed glyphs are mapped to the ligature.
func (ctx *applyCtx) formLigature(ligGlyph ot.GlyphIndex, positions []int) {
	gl := ctx.glyphs
	first := positions[0]
	firstChar := gl.FirstChars.At(first)
	charCount := 0
	for _, p := range positions {
		firstChar = min(firstChar, gl.FirstChars.At(p))
		charCount += int(gl.LigatureCounts.At(p))
	}
	for k := len(positions) - 1; k > 0; k-- {
		ctx.removeGlyph(positions[k], first)
	}
	gl.SetGlyph(first, ligGlyph)
	gl.FirstChars.Set(first, firstChar)
	gl.LigatureCounts.Set(first, uint16(charCount))
	ctx.substituted(first)
}

// GSUB LookupType 8: Reverse Chaining Single Substitution Subtable
//
// Reverse chaining substitutions are applied to the run from its end to its start.
// The layout engine takes care of the direction, this applier substitutes a single
// glyph in the context of backtrack and lookahead coverages.
//
//	uint16   | substFormat                | Format identifier: format = 1
//	Offset16 | coverageOffset             | Offset to Coverage table, from beginning of substitution subtable
//	uint16   | backtrackGlyphCount        | Number of glyphs in the backtrack sequence
//	Offset16 | backtrackCoverageOffsets[backtrackGlyphCount] | Array of offsets to coverage tables in backtrack sequence, in glyph sequence order
//	uint16   | lookaheadGlyphCount        | Number of glyphs in lookahead sequence
//	Offset16 | lookaheadCoverageOffsets[lookaheadGlyphCount] | Array of offsets to coverage tables in lookahead sequence, in glyph sequence order
//	uint16   | glyphCount                 | Number of glyph IDs in the substituteGlyphIDs array
//	uint16   | substituteGlyphIDs[glyphCount] | Array of substitute glyph IDs, ordered by Coverage index
func gsubLookupType8Fmt1(ctx *applyCtx, st, first, afterLast int) (int, bool) {
	inx := ctx.coverageIndex(st, st+2, first)
	if inx < 0 {
		return first + 1, false
	}
	backtrack := st + 4
	lookahead := backtrack + 2 + int(ctx.table.GetUShort(backtrack))*2
	substitutes := lookahead + 2 + int(ctx.table.GetUShort(lookahead))*2
	if _, ok := ctx.matchSequence(first-1, afterLast, int(ctx.table.GetUShort(backtrack)), -1,
		ctx.coverageMatcher(st, backtrack+2)); !ok {
		return first + 1, false
	}
	if _, ok := ctx.matchSequence(first+1, afterLast, int(ctx.table.GetUShort(lookahead)), 1,
		ctx.coverageMatcher(st, lookahead+2)); !ok {
		return first + 1, false
	}
	if inx >= int(ctx.table.GetUShort(substitutes)) {
		ot.RaiseFormatError(ctx.table.Tag(), "ReverseChainSingleSubst", st, "coverage index exceeds substitutes")
	}
	subst := ctx.table.GetGlyph(substitutes + 2 + inx*2)
	tracer().Debugf("GSUB 8|1: subst %d for %d at %d", subst, ctx.glyphs.Glyph(first), first)
	ctx.glyphs.SetGlyph(first, subst)
	ctx.substituted(first)
	return first + 1, true
}

// coverageMatcher matches the k-th element of a sequence against the k-th coverage
// of an array of Offset16 at byte position at, relative to st.
func (ctx *applyCtx) coverageMatcher(st, at int) func(k, pos int) bool {
	return func(k, pos int) bool {
		cov := ot.NewCoverage(ctx.table, ctx.table.Link16(st, at+k*2))
		return cov.Contains(ctx.glyphs.Glyph(pos))
	}
}
