package otlayout

import (
	"encoding/binary"
	"slices"

	"github.com/npillmayer/glyphshaper/ot"
)

// A layout cache maps glyphs to the lookups of a layout table which may start a match
// at the glyph. It is stored as a blob of big-endian uint16 words:
//
//	word    | version      | = 1
//	word    | glyphCount   | number of glyph records
//	word    | lookupLimit  | lookups [0, lookupLimit) are cached
//	record  | glyphs[glyphCount] | { glyph, listOffset }, ordered by glyph; listOffset in words from blob start
//	list    | lookups[ ]   | ascending lookup indices, terminated by 0xFFFF
//
// A glyph without a record takes part in no cached lookup. Lookups at or above
// lookupLimit are never skipped by the engine.

const (
	layoutCacheVersion = 1
	cacheHeaderWords   = 3
	endOfList          = 0xFFFF

	// DefaultCacheSize is the default and maximum size of a layout cache, in bytes.
	DefaultCacheSize = 65535
)

type layoutCache struct {
	blob        []byte
	glyphCount  int
	lookupLimit int
}

// readLayoutCache interprets a cache blob. A missing or corrupt cache results in nil,
// which disables caching.
func readLayoutCache(blob []byte) *layoutCache {
	if len(blob) < 2*cacheHeaderWords {
		return nil
	}
	c := &layoutCache{
		blob:        blob,
		glyphCount:  int(binary.BigEndian.Uint16(blob[2:])),
		lookupLimit: int(binary.BigEndian.Uint16(blob[4:])),
	}
	if binary.BigEndian.Uint16(blob) != layoutCacheVersion || len(blob) < 2*(cacheHeaderWords+2*c.glyphCount) {
		tracer().Errorf("%v", errFontFormat("corrupt layout cache, ignored"))
		return nil
	}
	return c
}

// covers is true if the cache knows about a lookup.
func (c *layoutCache) covers(lookup int) bool {
	return c != nil && lookup < c.lookupLimit
}

// word reads the i-th word of the blob. Reads beyond the blob return endOfList.
func (c *layoutCache) word(i int) uint16 {
	if i < 0 || 2*i+2 > len(c.blob) {
		return endOfList
	}
	return binary.BigEndian.Uint16(c.blob[2*i:])
}

// listStart returns the word offset of the lookup list of glyph g, or -1.
func (c *layoutCache) listStart(g ot.GlyphIndex) int {
	lo, hi := 0, c.glyphCount-1
	for lo <= hi {
		mid := (lo + hi) / 2
		rec := cacheHeaderWords + mid*2
		switch gg := ot.GlyphIndex(c.word(rec)); {
		case g < gg:
			hi = mid - 1
		case g > gg:
			lo = mid + 1
		default:
			return int(c.word(rec + 1))
		}
	}
	return -1
}

// buildLayoutCache creates the cache blob for a layout table, not exceeding maxSize
// bytes. Lookups with the highest indices are left out until the cache fits. Returns nil
// if no lookup fits.
func buildLayoutCache(lt ot.LayoutTable, isGPos bool, maxSize int) []byte {
	ll := lt.LookupList()
	count := ll.Count()
	perLookup := make([][]ot.GlyphIndex, 0, count)
	lists := make(map[ot.GlyphIndex][]uint16)
	entries := 0
	for inx := 0; inx < count; inx++ {
		glyphs, ok := lookupStartGlyphs(lt.Table(), ll.Lookup(inx), isGPos)
		if !ok {
			tracer().Debugf("layout cache: lookup #%d has no enumerable coverage", inx)
			break
		}
		perLookup = append(perLookup, glyphs)
		for _, g := range glyphs {
			if l := lists[g]; len(l) == 0 || l[len(l)-1] != uint16(inx) {
				lists[g] = append(l, uint16(inx))
				entries++
			}
		}
	}
	limit := len(perLookup)
	distinct := len(lists)
	size := func() int { // records, lists and terminators
		return 2 * (cacheHeaderWords + 3*distinct + entries)
	}
	for limit > 0 && size() > maxSize {
		limit--
		for _, g := range perLookup[limit] {
			if l := lists[g]; len(l) > 0 && l[len(l)-1] == uint16(limit) {
				lists[g] = l[:len(l)-1]
				entries--
				if len(l) == 1 {
					distinct--
				}
			}
		}
	}
	if limit == 0 {
		tracer().Infof("layout cache for %s does not fit into %d bytes", lt.Table().Tag(), maxSize)
		return nil
	}
	glyphs := make([]ot.GlyphIndex, 0, distinct)
	for g, l := range lists {
		if len(l) > 0 {
			glyphs = append(glyphs, g)
		}
	}
	slices.Sort(glyphs)
	blob := make([]byte, size())
	put := func(word int, v uint16) {
		binary.BigEndian.PutUint16(blob[2*word:], v)
	}
	put(0, layoutCacheVersion)
	put(1, uint16(len(glyphs)))
	put(2, uint16(limit))
	list := cacheHeaderWords + 2*len(glyphs)
	for i, g := range glyphs {
		put(cacheHeaderWords+2*i, uint16(g))
		put(cacheHeaderWords+2*i+1, uint16(list))
		for _, inx := range lists[g] {
			put(list, inx)
			list++
		}
		put(list, endOfList)
		list++
	}
	tracer().Debugf("layout cache for %s: %d glyphs, %d of %d lookups, %d bytes",
		lt.Table().Tag(), len(glyphs), limit, count, len(blob))
	return blob
}

// lookupStartGlyphs collects the glyphs at which a lookup may start a match. It returns
// false if this set cannot be determined.
func lookupStartGlyphs(table ot.FontTable, lookup ot.Lookup, isGPos bool) ([]ot.GlyphIndex, bool) {
	if lookup.IsNull() {
		return nil, true
	}
	var glyphs []ot.GlyphIndex
	for i := 0; i < lookup.SubtableCount(); i++ {
		lt, st := lookup.ResolveSubtable(i, extensionTypeOf(isGPos))
		if st == ot.NullOffset {
			continue
		}
		cov, ok := primaryCoverage(table, isGPos, lt, st)
		if !ok {
			return nil, false
		}
		if cov.IsNull() {
			continue
		}
		if format := table.GetUShort(cov.Offset()); format != 1 && format != 2 {
			return nil, false
		}
		for g := range cov.Glyphs() {
			glyphs = append(glyphs, g)
		}
	}
	return glyphs, true
}

func extensionTypeOf(isGPos bool) ot.LayoutTableLookupType {
	if isGPos {
		return ot.GPosLookupTypeExtensionPos
	}
	return ot.GSubLookupTypeExtensionSubs
}

// primaryCoverage returns the coverage table of a subtable which decides where a match
// may start. Subtables the engine cannot apply return a null coverage. It returns false
// for subtables of unknown structure.
func primaryCoverage(table ot.FontTable, isGPos bool, lt ot.LayoutTableLookupType, st int) (ot.Coverage, bool) {
	appliers := gsubAppliers
	contextual, chained := lt == ot.GSubLookupTypeContext, lt == ot.GSubLookupTypeChainingContext
	if isGPos {
		appliers = gposAppliers
		contextual, chained = lt == ot.GPosLookupTypeContextPos, lt == ot.GPosLookupTypeChainedContextPos
	}
	if int(lt) >= len(appliers) || len(appliers[lt]) == 0 {
		return ot.NewCoverage(table, ot.NullOffset), false
	}
	format := int(table.GetUShort(st))
	if format >= len(appliers[lt]) || appliers[lt][format] == nil {
		return ot.NewCoverage(table, ot.NullOffset), true
	}
	switch {
	case contextual && format == 3:
		return ot.NewCoverage(table, table.Link16(st, st+6)), true
	case chained && format == 3:
		backtrackCount := int(table.GetUShort(st + 2))
		return ot.NewCoverage(table, table.Link16(st, st+4+backtrackCount*2+2)), true
	}
	return ot.NewCoverage(table, table.Link16(st, st+2)), true
}
