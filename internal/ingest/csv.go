package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/docgrid/internal/core"
)

// ReadCSV parses a delimited text upload into raw rows. Ragged rows and
// stray quotes are tolerated; a leading BOM and invalid UTF-8 are cleaned
// up first. Fully blank lines are skipped by the parser.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(NewTextReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		rows = append(rows, rec)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// ReadCSVTable reads a CSV upload as a single table with a header row.
func ReadCSVTable(r io.Reader) (core.Table, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return core.Table{}, err
	}
	return core.NewTable(rows), nil
}
