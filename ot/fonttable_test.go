package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontTableReads(t *testing.T) {
	table := NewFontTable(GSUB, []byte{0x12, 0x34, 0xFF, 0xFE, 0x00, 0x01})
	assert.Equal(t, uint16(0x1234), table.GetUShort(0))
	assert.Equal(t, int16(-2), table.GetShort(2))
	assert.Equal(t, uint32(0xFFFE0001), table.GetUInt(2))
	n, err := table.ReadUShort(4)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), n)
}

func TestFontTableBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	table := NewFontTable(GSUB, []byte{0, 1, 2})
	_, err := table.ReadUShort(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFontFormat), "expected a format error")
	_, err = table.ReadUInt(0)
	assert.Error(t, err)
	_, err = table.ReadUShort(-1)
	assert.Error(t, err)
	//
	read := func(offset int) (err error) {
		defer CatchFormatError(&err)
		_ = table.GetUShort(offset)
		return nil
	}
	assert.NoError(t, read(1))
	err = read(2)
	require.Error(t, err)
	var fe FontError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, GSUB, fe.Table)
	assert.Equal(t, uint32(2), fe.Offset)
	//
	absent := NewFontTable(GSUB, nil)
	assert.False(t, absent.IsPresent())
	_, err = absent.ReadUShort(0)
	assert.Error(t, err)
}

func TestCatchFormatErrorRepanics(t *testing.T) {
	defer func() {
		r := recover()
		assert.Equal(t, "boom", r)
	}()
	func() (err error) {
		defer CatchFormatError(&err)
		panic("boom")
	}()
}

func TestTags(t *testing.T) {
	assert.Equal(t, Tag(0x47535542), T("GSUB"))
	assert.Equal(t, "latn", T("latn").String())
	assert.Equal(t, "ab  ", T("ab").String())
	assert.Equal(t, T("cmap"), MakeTag([]byte("cmap")))
	assert.Equal(t, T("ab"), MakeTag([]byte("ab")))
}
