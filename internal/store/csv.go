package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// readTable loads a CSV file into a header and rows. A zero-byte file yields
// no header and no rows. Short rows are padded with nulls.
func readTable(path string) ([]string, []Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Record
	for line := 2; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(fields) > len(header) {
			return nil, nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(fields), len(header))
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(fields) && fields[i] != "" {
				rec[col] = fields[i]
			} else {
				rec[col] = nil
			}
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// writeTable rewrites path in full through a temp file and rename.
// A nil header writes a zero-byte file.
func writeTable(path string, header []string, rows []Record) error {
	var buf bytes.Buffer
	if header != nil {
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return err
		}
		fields := make([]string, len(header))
		for _, rec := range rows {
			for i, col := range header {
				fields[i] = rec.String(col)
			}
			if err := w.Write(fields); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
