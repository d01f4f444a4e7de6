package cli

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// tablePadding separates columns in plain-text listings.
const tablePadding = 2

// writeTable prints headers and rows with each column sized to its widest
// cell. Widths are display widths from runewidth, so event titles in CJK
// scripts line up the same as ASCII ones. Cells are plain text; styled
// output goes through the TUI, never the tables.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	columns := len(headers)
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return nil
	}

	widths := make([]int, columns)
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < columns && w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	writer := bufio.NewWriter(out)
	emit := func(row []string) {
		for i := 0; i < columns; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == columns-1 {
				writer.WriteString(cell)
				break
			}
			writer.WriteString(runewidth.FillRight(cell, widths[i]+tablePadding))
		}
		writer.WriteString("\n")
	}
	emit(headers)
	for _, row := range rows {
		emit(row)
	}
	return writer.Flush()
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
