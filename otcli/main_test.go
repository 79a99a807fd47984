package main

import (
	"testing"

	"github.com/npillmayer/glyphshaper/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	intp := &Intp{}
	cmd, err := intp.parseCommand("table:GPOS lookups:3")
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.count)
	assert.Equal(t, TABLE, cmd.op[0].code)
	assert.Equal(t, "GPOS", cmd.op[0].arg)
	assert.Equal(t, LOOKUPS, cmd.op[1].code)
	assert.Equal(t, "3", cmd.op[1].arg)
	assert.Equal(t, NOOP, cmd.op[2].code)
	//
	cmd, err = intp.parseCommand("script:latn shape office hours")
	require.NoError(t, err)
	assert.Equal(t, SCRIPT, cmd.op[0].code)
	assert.Equal(t, SHAPE, cmd.op[1].code)
	assert.Equal(t, "office hours", cmd.op[1].arg)
	assert.Equal(t, NOOP, cmd.op[2].code)
	//
	cmd, _ = intp.parseCommand("frobnicate")
	assert.Equal(t, HELP, cmd.op[0].code)
}

func TestConfigure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	intp := &Intp{lang: ot.Dflt}
	require.NoError(t, intp.configure("", "", "liga, kern,"))
	assert.Equal(t, []ot.Tag{ot.T("liga"), ot.T("kern")}, intp.features)
	assert.Equal(t, ot.Dflt, intp.lang)
	assert.Equal(t, ot.Tag(0), intp.script)
	require.NoError(t, intp.configure("cyrl", "tr", ""))
	assert.Equal(t, ot.T("cyrl"), intp.script)
	assert.Equal(t, ot.T("TRK"), intp.lang)
	assert.Error(t, intp.configure("", "not a language!", ""))
}

func TestCommandsWithoutFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	intp := &Intp{table: ot.GSUB, lang: ot.Dflt}
	err, stop := scriptsOp(intp, &Op{})
	assert.ErrorIs(t, err, ERR_NO_FONT)
	assert.False(t, stop)
	err, _ = shapeOp(intp, &Op{arg: "abc"})
	assert.ErrorIs(t, err, ERR_NO_FONT)
	err, _ = tableOp(intp, &Op{arg: "cmap"})
	assert.Error(t, err)
	err, _ = langOp(intp, &Op{arg: "TRK"})
	assert.NoError(t, err)
	assert.Equal(t, ot.T("TRK "), intp.lang)
	err, stop = quitOp(intp, &Op{})
	assert.NoError(t, err)
	assert.True(t, stop)
}
