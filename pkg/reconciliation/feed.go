package reconciliation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	"github.com/shakinm/xlsReader/xls"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var ErrUnreadableFeed = errors.New("falha ao processar o arquivo")

// FeedRow maps a header to its cell. Numeric cells hold a float64, the others a string.
type FeedRow map[string]any

// Feed keeps the headers in sheet order so column detection is deterministic.
type Feed struct {
	Headers []string
	Rows    []FeedRow
}

var feedExtensions = []string{".xlsx", ".xls", ".csv"}

// ReadFeed reads a ledger export. The first row holds the headers and blank rows are dropped.
func ReadFeed(filename string, data []byte) (Feed, error) {
	if err := importer.CheckExtension(filename, feedExtensions...); err != nil {
		return Feed{}, err
	}

	var table [][]string
	var err error
	switch importer.Extension(filename) {
	case ".xlsx":
		table, err = readXlsx(data)
	case ".xls":
		table, err = readXls(data)
	case ".csv":
		var rows [][]any
		for _, line := range importer.Lines(importer.DecodeText(data)) {
			rows = append(rows, textCells(importer.SplitLine(line)))
		}
		return NewFeed(rows), nil
	}
	if err != nil {
		log.Warnf("could not read ledger feed %s: %v", filename, err)
		return Feed{}, fmt.Errorf("%w: %v", ErrUnreadableFeed, err)
	}

	rows := make([][]any, 0, len(table))
	for _, cells := range table {
		rows = append(rows, typedCells(cells))
	}
	return NewFeed(rows), nil
}

func readXlsx(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readXls(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var table [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		table = append(table, cells)
	}
	return table, nil
}

// NewFeed builds a feed from typed cells. The first non-blank row holds the headers.
func NewFeed(table [][]any) Feed {
	var feed Feed
	for _, cells := range table {
		if isBlank(cells) {
			continue
		}
		if feed.Headers == nil {
			feed.Headers = make([]string, len(cells))
			for i, cell := range cells {
				feed.Headers[i] = strings.TrimSpace(fmt.Sprint(cell))
			}
			continue
		}
		row := make(FeedRow, len(feed.Headers))
		for i, header := range feed.Headers {
			if header == "" || i >= len(cells) {
				continue
			}
			if text, ok := cells[i].(string); ok {
				row[header] = strings.TrimSpace(text)
			} else {
				row[header] = cells[i]
			}
		}
		feed.Rows = append(feed.Rows, row)
	}
	return feed
}

func textCells(cells []string) []any {
	values := make([]any, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}
	return values
}

// typedCells turns spreadsheet cells that hold a plain number into float64.
func typedCells(cells []string) []any {
	values := make([]any, len(cells))
	for i, cell := range cells {
		if number, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			values[i] = number
		} else {
			values[i] = cell
		}
	}
	return values
}

func isBlank(cells []any) bool {
	for _, cell := range cells {
		if cell != nil && strings.TrimSpace(fmt.Sprint(cell)) != "" {
			return false
		}
	}
	return true
}
