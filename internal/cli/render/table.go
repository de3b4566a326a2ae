package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type TableData [][]string

// calculateTableColumnWidths returns the widest visible cell of every column
// across all tables so grouped sections line up
func calculateTableColumnWidths(tables []TableData) []int {
	var widths []int
	for _, data := range tables {
		for _, row := range data {
			for i, cell := range row {
				if i >= len(widths) {
					widths = append(widths, 0)
				}
				if w := text.RuneWidthWithoutEscSequences(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func renderTableWithWidths(tableData TableData, columnWidths []int, prefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += text.RuneWidthWithoutEscSequences(prefix)
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = prefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}
