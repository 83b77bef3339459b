package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVCodec reads and writes the roster schema as UTF-8 CSV with a header
// row. The header's cells name the columns; unknown columns are carried
// through on decode and simply ignored by the importer.
type CSVCodec struct{}

func NewCSVCodec() CSVCodec { return CSVCodec{} }

func (CSVCodec) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVCodec) Extension() string   { return "csv" }

func (CSVCodec) Decode(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows happen in hand-edited files

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	// Strip the UTF-8 BOM some spreadsheet tools prepend to the first cell.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (CSVCodec) Encode(columns []string, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("tabular: write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("tabular: write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("tabular: flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
