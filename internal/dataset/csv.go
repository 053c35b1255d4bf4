// Package dataset reads and writes the row-oriented firm tables the
// autofill engine operates on, from CSV or XLSX files.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// Row is a single record keyed by column name. Cells absent from the input
// are absent from the map.
type Row map[string]string

// Table is a header-keyed dataset. Columns preserves the input column
// order; Rows hold one map per data row.
type Table struct {
	Columns []string
	Rows    []Row
}

// EnsureColumns appends any missing columns to the table header, keeping
// the given order for the new ones.
func (t *Table) EnsureColumns(cols []string) {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = true
	}
	for _, c := range cols {
		if !have[c] {
			t.Columns = append(t.Columns, c)
			have[c] = true
		}
	}
}

// ReadCSV parses a delimited file with a header row into a Table. A
// non-empty charset (an IANA name such as "windows-1252") decodes legacy
// exports; the default is UTF-8. Rows shorter than the header produce
// empty cells; cells beyond the header are ignored.
func ReadCSV(path, charset string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: unknown charset %s", charset)
		}
		r = enc.NewDecoder().Reader(f)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("dataset: empty file, header row required")
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read row")
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteCSV writes the table to path in UTF-8, header first, preserving
// column order. Cells missing from a row are written empty.
func WriteCSV(path string, table *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return eris.Wrap(err, "dataset: write header")
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "dataset: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "dataset: flush")
	}
	return nil
}
