package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right-aligned; wrap
// bounds the width of free-text columns such as descriptions and comments.
type column struct {
	title   string
	numeric bool
	wrap    int
}

const emptyCell = "-"

var (
	trackColumns = []column{
		{title: "ID", numeric: true},
		{title: "Nombre", wrap: 32},
		{title: "Descripción", wrap: 48},
		{title: "Eventos", numeric: true},
	}
	eventColumns = []column{
		{title: "ID", numeric: true},
		{title: "Nombre", wrap: 32},
		{title: "Track", wrap: 24},
		{title: "Fechas"},
		{title: "Lugar", wrap: 24},
		{title: "Cupos", numeric: true},
	}
	feedbackColumns = []column{
		{title: "ID", numeric: true},
		{title: "Evento", numeric: true},
		{title: "Estrellas"},
		{title: "Usuario", wrap: 24},
		{title: "Comentario", wrap: 48},
		{title: "Enviado"},
	}
	ratingColumns = []column{
		{title: "Evento", wrap: 32},
		{title: "Promedio"},
		{title: "Opiniones", numeric: true},
	}
	subscriptionColumns = []column{
		{title: "Evento", wrap: 32},
		{title: "Inscritos", numeric: true},
		{title: "Ocupación", numeric: true},
	}
	sessionColumns = []column{
		{title: "ID"},
		{title: "Nombre", wrap: 32},
		{title: "Email"},
	}
)

// renderTable draws rows under cols. Missing and blank cells show as "-".
func renderTable(cols []column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, col := range cols {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    col.wrap,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range cols {
			cell := emptyCell
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cell = row[i]
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
