package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 2

// table lays out styled cells in aligned columns. Widths are measured on
// the visible text, so ANSI styling does not shift the columns.
type table struct {
	rows [][]string
}

func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(out io.Writer) error {
	var widths []int
	for _, r := range t.rows {
		for i, c := range r {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	for _, r := range t.rows {
		for i, c := range r {
			b.WriteString(c)
			if i == len(r)-1 {
				break
			}
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)+columnGap))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}
