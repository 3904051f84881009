package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// column describes one table column. Cells wider than maxWidth wrap on word
// boundaries; zero leaves the column unbounded.
type column struct {
	title    string
	align    columnAlignment
	maxWidth int
}

// renderTable renders rows under columns. A non-empty footer is rendered as a
// totals row. Rows shorter than columns are padded with empty cells.
func renderTable(columns []column, rows [][]string, footer []string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(columns, nil, func(c column) string { return c.title }))
	for _, row := range rows {
		tw.AppendRow(toRow(columns, row, nil))
	}
	if len(footer) > 0 {
		tw.AppendFooter(toRow(columns, footer, nil))
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		align := text.AlignLeft
		if c.align == alignRight {
			align = text.AlignRight
		}
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
		}
		if c.maxWidth > 0 {
			cfg.WidthMax = c.maxWidth
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(columns []column, cells []string, title func(column) string) table.Row {
	r := make(table.Row, len(columns))
	for i, c := range columns {
		switch {
		case title != nil:
			r[i] = title(c)
		case i < len(cells):
			r[i] = cells[i]
		default:
			r[i] = ""
		}
	}
	return r
}
