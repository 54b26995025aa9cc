package ingest

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/docgrid/internal/core"
)

// Dataset is a spreadsheet parsed for import: the header names the columns
// and every column gets a strict type.
type Dataset struct {
	FileName string                  `json:"originalName"`
	RowCount int                     `json:"rowCount"`
	Columns  []core.ColumnDescriptor `json:"columns"`
	Rows     []map[string]string     `json:"data"`
}

// FileKind classifies an upload by extension.
type FileKind string

const (
	KindCSV      FileKind = "csv"
	KindWorkbook FileKind = "xlsx"
	KindPDF      FileKind = "pdf"
)

// DetectKind maps a file name to its kind. .xls is accepted and handed to
// the workbook reader, which rejects legacy binary files it cannot open.
func DetectKind(fileName string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xls":
		return KindWorkbook, nil
	case ".pdf":
		return KindPDF, nil
	}
	return "", ErrUnsupportedFile
}

// ParseDataset reads a CSV or the first sheet of a workbook. Column types
// use the strict policy over the first rows.
func ParseDataset(fileName string, r io.Reader, order core.DateOrder) (*Dataset, error) {
	kind, err := DetectKind(fileName)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch kind {
	case KindCSV:
		rows, err = ReadCSV(r)
	case KindWorkbook:
		rows, err = firstSheetRows(r)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	t := core.NewTable(rows)
	if t.DataRowCount() == 0 {
		return nil, ErrEmptyFile
	}

	cols := order.DescribeColumnsStrict(t)
	return &Dataset{
		FileName: filepath.Base(fileName),
		RowCount: t.DataRowCount(),
		Columns:  cols,
		Rows:     records(cols, t.DataRows()),
	}, nil
}

func firstSheetRows(r io.Reader) ([][]string, error) {
	sheets, err := ReadWorkbook(r)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 || len(sheets[0].Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return sheets[0].Rows, nil
}

// records keys each row by column name. Missing cells read as "".
func records(cols []core.ColumnDescriptor, rows []core.Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		rec := make(map[string]string, len(cols))
		for _, c := range cols {
			rec[c.Name] = r.Cell(c.Index)
		}
		out[i] = rec
	}
	return out
}
