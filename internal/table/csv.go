package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadCSV loads a CSV file into a table. The first record is the header;
// short records pad with missing cells, long records drop the excess. A
// UTF-8 BOM on the first header is stripped.
func ReadCSV(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := ReadCSVFrom(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// ReadCSVFrom loads CSV data from a reader into a table.
func ReadCSVFrom(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv input")
		}
		return nil, err
	}
	if len(headers) > 0 {
		headers[0] = string(bytes.TrimPrefix([]byte(headers[0]), []byte{0xEF, 0xBB, 0xBF}))
	}

	t := New(headers...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = Coerce(rec[i])
			} else {
				row[h] = Missing
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV writes the table to path with headers in their current order.
// Missing cells render as empty fields.
func WriteCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	rec := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			rec[i] = row[h].Str()
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
