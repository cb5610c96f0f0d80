package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Table renders fixed-width rows. Widths are display widths, so pipeline and
// repo names with wide runes stay aligned.
type Table struct {
	w       io.Writer
	header  lipgloss.Style
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF")),
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	_, _ = fmt.Fprintln(t.w, t.header.Render(t.line(names, nil)))
}

// WriteRow writes a data row to the table.
func (t *Table) WriteRow(values ...string) {
	_, _ = fmt.Fprintln(t.w, t.line(values, nil))
}

// WriteStyledRow writes a data row, rendering the cell at styledIndex with style.
// Padding is computed on the plain value so ANSI codes do not shift columns.
func (t *Table) WriteStyledRow(values []string, styledIndex int, style lipgloss.Style) {
	_, _ = fmt.Fprintln(t.w, t.line(values, func(i int, cell string) string {
		if i != styledIndex {
			return cell
		}
		trimmed := strings.TrimRight(cell, " ")
		return style.Render(trimmed) + cell[len(trimmed):]
	}))
}

func (t *Table) line(values []string, decorate func(int, string) string) string {
	var b strings.Builder
	for i, col := range t.columns {
		if i > 0 {
			b.WriteByte(' ')
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cell := fitCell(value, col)
		if decorate != nil {
			cell = decorate(i, cell)
		}
		b.WriteString(cell)
	}
	return strings.TrimRight(b.String(), " ")
}

// fitCell truncates value to the column width and pads it to that width.
func fitCell(value string, col TableColumn) string {
	if col.Width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) > col.Width {
		value = runewidth.Truncate(value, col.Width, "…")
	}
	if col.Align == AlignRight {
		return runewidth.FillLeft(value, col.Width)
	}
	return runewidth.FillRight(value, col.Width)
}
