package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvHeader is the fixed column set of the tabular export.
var csvHeader = []string{
	"semana", "fechas", "tema",
	"id", "titulo", "tipo", "estado", "pilares",
	"recursos", "comentarios", "excluido",
}

// ExportCSV writes one row per content item across all weeks. Pillars are
// joined with commas inside the cell; the excluido column flags no-incluir
// items so spreadsheet consumers can drop them without re-deriving status.
func ExportCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, week := range doc.Weeks {
		for _, item := range week.Contents {
			excluded := "no"
			if item.Excluded() {
				excluded = "si"
			}
			row := []string{
				fmt.Sprintf("%d", week.Number),
				week.Dates,
				week.Topic,
				item.ID,
				item.Title,
				item.Type,
				item.Status,
				strings.Join(item.Pillars, ","),
				item.Resources,
				item.Comments,
				excluded,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
