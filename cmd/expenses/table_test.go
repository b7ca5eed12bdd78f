package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestTableAlignsStyledCells(t *testing.T) {
	red := func(s string) string { return "\x1b[38;2;255;59;48m" + s + "\x1b[0m" }

	var tb table
	tb.row(red("CATEGORY"), "AMOUNT", "ID")
	tb.row(red("Food"), "4.50", "a")
	tb.row("Transportation", "12.00", "b")
	tb.row(red("Café"), "1.00", "c")

	var buf bytes.Buffer
	require.NoError(t, tb.write(&buf))

	lines := strings.Split(strings.TrimSuffix(ansiSeq.ReplaceAllString(buf.String(), ""), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Food            4.50    a", lines[1])
	assert.Equal(t, "Transportation  12.00   b", lines[2])
	for _, l := range lines {
		col := strings.Index(l, strings.Fields(l)[1])
		assert.Equal(t, 16, utf8.RuneCountInString(l[:col]), l)
	}
	assert.Contains(t, buf.String(), red("Food"), "styling is kept")
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&table{}).write(&buf))
	assert.Empty(t, buf.String())
}
