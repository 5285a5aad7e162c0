package repl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/vk/medallion/internal/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// formatCell renders one cell for display.
func formatCell(t table.Type, v any) string {
	if v == nil {
		return "NULL"
	}
	switch c := v.(type) {
	case time.Time:
		if t == table.Date {
			return c.Format(time.DateOnly)
		}
		return c.Format("2006-01-02 15:04:05.999999")
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

func rowStrings(t *table.Table, row table.Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCell(t.Columns[i].Type, v)
	}
	return out
}

// renderVertical prints each row as a block of "column  value" lines.
func renderVertical(t *table.Table) string {
	width := 0
	for _, c := range t.Columns {
		width = max(width, lipgloss.Width(c.Name))
	}

	var b strings.Builder
	total := t.NumRows()
	for i, row := range t.Rows {
		fmt.Fprintf(&b, "---[ Row %d / %d ]---\n", i+1, total)
		for j, cell := range rowStrings(t, row) {
			fmt.Fprintf(&b, "%-*s  %s\n", width, t.Columns[j].Name, cell)
		}
	}
	fmt.Fprintf(&b, "---[ End of %d rows ]---\n", total)
	return b.String()
}

// renderHorizontal prints the whole result as one bordered table.
func renderHorizontal(t *table.Table) string {
	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.ColumnNames()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range t.Rows {
		tbl.Row(rowStrings(t, row)...)
	}
	return tbl.Render() + "\n" + mutedStyle.Render(fmt.Sprintf("(%d rows)", t.NumRows())) + "\n"
}
