package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"
)

// Table renders column-aligned output sized to the terminal. Rows are
// buffered until Flush, which computes column widths, shrinks the widest
// column until the table fits, and word-wraps cells that overflow their
// column. Empty tables produce no output.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	prefix  string
	width   int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{out: os.Stdout, headers: headers}
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
// Useful for indenting sub-tables within larger output.
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// WithWriter sends output to w instead of stdout.
func (t *Table) WithWriter(w io.Writer) *Table {
	t.out = w
	return t
}

// Row buffers one row of cells. Missing cells render empty.
func (t *Table) Row(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Flush renders the buffered rows. If no rows were written, nothing is
// printed.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if l := visualLen(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	limit := t.width
	if limit == 0 {
		limit = terminalWidth()
	}
	widths = capWidths(widths, t.headers, limit, visualLen(t.prefix))

	t.writeRow(t.headers, widths)
	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}
	t.writeRow(dividers, widths)
	for _, row := range t.rows {
		t.writeRow(row, widths)
	}
}

// writeRow prints one logical row, spilling wrapped cells onto extra lines.
func (t *Table) writeRow(cells []string, widths []int) {
	wrapped := make([][]string, len(cells))
	height := 1
	for i, cell := range cells {
		wrapped[i] = wrapCell(cell, widths[i])
		if len(wrapped[i]) > height {
			height = len(wrapped[i])
		}
	}

	for line := 0; line < height; line++ {
		var b strings.Builder
		b.WriteString(t.prefix)
		for i := range cells {
			cell := ""
			if line < len(wrapped[i]) {
				cell = wrapped[i][line]
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-visualLen(cell)+2))
			}
		}
		fmt.Fprintln(t.out, strings.TrimRight(b.String(), " "))
	}
}

// terminalWidth returns the column count of stdout, or 80 when stdout is
// not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

var ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*m")

// visualLen returns the printable width of s, ignoring ANSI color codes.
func visualLen(s string) int {
	return len(ansiRe.ReplaceAllString(s, ""))
}

// capWidths shrinks column widths until the table fits termWidth, taking
// space from the widest column first. No column shrinks below its header
// width, so an impossibly narrow terminal still gets readable headers.
// Columns are separated by a two-space gutter.
func capWidths(widths []int, headers []string, termWidth, prefix int) []int {
	out := make([]int, len(widths))
	copy(out, widths)

	mins := make([]int, len(headers))
	for i, h := range headers {
		mins[i] = visualLen(h)
	}

	total := func() int {
		n := prefix + 2*(len(out)-1)
		for _, w := range out {
			n += w
		}
		return n
	}

	for total() > termWidth {
		widest := -1
		for i, w := range out {
			if w > mins[i] && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
	}
	return out
}

// wrapCell splits s into lines no wider than width. Wrapping prefers word
// boundaries; single words longer than width are hard-broken. Strings whose
// printable width already fits, including ANSI-colored ones, come back
// unchanged.
func wrapCell(s string, width int) []string {
	if width <= 0 || visualLen(s) <= width {
		return []string{s}
	}

	var lines []string
	var line string
	for _, word := range strings.Split(s, " ") {
		for visualLen(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case line == "":
			line = word
		case visualLen(line)+1+visualLen(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}
