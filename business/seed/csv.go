package seed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// row is one CSV record keyed by lowercased header name.
type row map[string]string

func (r row) str(key string) string {
	return strings.TrimSpace(r[key])
}

func (r row) float(key string) (float64, error) {
	v, err := strconv.ParseFloat(r.str(key), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", key, err)
	}
	return v, nil
}

func (r row) optionalFloat(key string) (*float64, error) {
	if r.str(key) == "" {
		return nil, nil
	}
	v, err := r.float(key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r row) integer(key string) (int, error) {
	v, err := strconv.Atoi(r.str(key))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", key, err)
	}
	return v, nil
}

func (r row) date(key string) (*time.Time, error) {
	if r.str(key) == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", r.str(key))
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", key, err)
	}
	return &d, nil
}

// list splits a pipe separated cell. An empty cell is an empty list.
func (r row) list(key string) []string {
	raw := r.str(key)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readCSV loads a headed CSV file. Input that is not valid UTF-8 is decoded as Windows-1252.
func readCSV(path string) ([]row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		r := make(row, len(header))
		for i, h := range header {
			if i < len(record) {
				r[h] = record[i]
			}
		}
		rows = append(rows, r)
	}

	return rows, nil
}
