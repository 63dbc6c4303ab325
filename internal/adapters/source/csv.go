package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVSource reads tables from <dir>/<name>.csv.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Path returns the file backing the named table.
func (s *CSVSource) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// Load reads the named table. The first record is the header.
func (s *CSVSource) Load(_ context.Context, name string) (*Table, error) {
	f, err := os.Open(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, s.Path(name))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadTable, err)
	}
	defer f.Close()

	t, err := ReadCSV(name, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path(name), err)
	}
	return t, nil
}

// ReadCSV parses a CSV stream into a table.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(name, nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrReadTable, err)
	}
	// Strip a UTF-8 byte order mark left by spreadsheet exports.
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadTable, err)
		}
		rows = append(rows, rec)
	}
	return NewTable(name, header, rows), nil
}

// Save writes t to <dir>/<t.Name>.csv, creating dir as needed.
func (s *CSVSource) Save(_ context.Context, t *Table) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTable, err)
	}
	f, err := os.Create(s.Path(t.Name))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTable, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrWriteTable, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrWriteTable, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTable, err)
	}
	return nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
