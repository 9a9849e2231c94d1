package aggregation

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Renderer turns a dashboard into a downloadable document.
type Renderer interface {
	Render(dashboard Dashboard) ([]byte, error)
	ContentType() string
	Extension() string
}

type table struct {
	title  string
	header []string
	rows   [][]any
}

func percentage(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

// tables lists the dashboard views in export order. Money stays float64 so each
// renderer can format it its own way.
func tables(d Dashboard) []table {
	totals := table{
		title:  "Totais",
		header: []string{"Indicador", "Valor"},
		rows: [][]any{
			{"Planejado", d.Totals.Planned},
			{"Empenhado", d.Totals.Committed},
			{"Liquidado", d.Totals.Liquidated},
			{"Pago", d.Totals.Paid},
			{"Saldo", d.Totals.Balance},
			{"Execução", percentage(d.Totals.ExecutionPercentage)},
		},
	}

	summary := table{title: "Resumo", header: []string{"Dimensão", "Origem", "Planejado", "Empenhado", "Saldo", "Execução"}}
	for _, s := range d.Summary {
		summary.rows = append(summary.rows, []any{s.Dimension, s.ResourceOrigin, s.Planned, s.Committed, s.Balance, percentage(s.ExecutionPercentage)})
	}

	origins := table{title: "Origens", header: []string{"Origem", "Planejado", "Empenhado", "Saldo", "Execução"}}
	for _, o := range d.Origins {
		origins.rows = append(origins.rows, []any{o.ResourceOrigin, o.Planned, o.Committed, o.Balance, percentage(o.ExecutionPercentage)})
	}

	components := table{title: "Componentes", header: []string{"Componente", "Planejado", "Empenhado"}}
	for _, c := range d.Components {
		components.rows = append(components.rows, []any{c.Component, c.Planned, c.Committed})
	}

	natures := table{title: "Naturezas", header: []string{"Natureza", "Empenhado"}}
	for _, n := range d.Natures {
		natures.rows = append(natures.rows, []any{n.Code, n.Committed})
	}

	monthly := table{title: "Mensal", header: []string{"Mês", "Empenhado", "Acumulado"}}
	for _, p := range d.MonthlySeries {
		monthly.rows = append(monthly.rows, []any{p.Label, p.Committed, p.Cumulative})
	}

	funnel := table{title: "Funil", header: []string{"Etapa", "Valor"}}
	for _, stage := range d.Funnel {
		funnel.rows = append(funnel.rows, []any{stage.Name, stage.Value})
	}

	return []table{totals, summary, origins, components, natures, monthly, funnel}
}

type CsvRenderer struct{}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (r *CsvRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r *CsvRenderer) Extension() string { return ".csv" }

// Render writes one block per view, separated by an empty line. The separator is
// ';' and money uses the Brazilian format, as spreadsheet tools in pt-BR expect.
func (r *CsvRenderer) Render(dashboard Dashboard) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	writer.Comma = ';'

	for i, t := range tables(dashboard) {
		records := make([][]string, 0, len(t.rows)+3)
		if i > 0 {
			records = append(records, []string{})
		}
		records = append(records, []string{t.title}, t.header)
		for _, row := range t.rows {
			record := make([]string, 0, len(row))
			for _, cell := range row {
				record = append(record, csvCell(cell))
			}
			records = append(records, record)
		}
		for _, record := range records {
			if err := writer.Write(record); err != nil {
				log.Errorf("Error writing to csv: %v", err)
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}

func csvCell(value any) string {
	switch v := value.(type) {
	case float64:
		return currency.FormatNumber(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

type XlsxRenderer struct{}

func NewXlsxRenderer() *XlsxRenderer {
	return &XlsxRenderer{}
}

func (r *XlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XlsxRenderer) Extension() string { return ".xlsx" }

// Render writes one sheet per view. Money cells stay numeric.
func (r *XlsxRenderer) Render(dashboard Dashboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables(dashboard) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.title); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(t.title); err != nil {
			return nil, err
		}

		header := make([]any, 0, len(t.header))
		for _, h := range t.header {
			header = append(header, h)
		}
		if err := f.SetSheetRow(t.title, "A1", &header); err != nil {
			return nil, err
		}
		for j, row := range t.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(t.title, cell, &row); err != nil {
				return nil, fmt.Errorf("could not write sheet %s: %w", t.title, err)
			}
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("Error writing xlsx: %v", err)
		return nil, err
	}
	return buffer.Bytes(), nil
}
